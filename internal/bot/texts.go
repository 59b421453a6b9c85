package bot

import "strings"

const (
	msgLoading               = "⏳ Loading menu..."
	msgAskCity               = "Enter your city (for example: London):"
	msgEnterCity             = "Enter the city name:"
	msgNoDefaultCity         = "You have no default city yet. Enter it as text (for example: London)."
	msgDefaultCity           = "🌆 Your default city: *%s*"
	msgCityFound             = "City *%s* found.\nChoose an action:"
	msgCityNotFoundRetry     = "❌ City not found, try again."
	msgChooseAction          = "Choose an action:"
	msgDefaultSet            = "⭐ *%s* is now your default city."
	msgCitySaved             = "📌 *%s* added to your list."
	msgNoSavedCities         = "You have no saved cities."
	msgYourCities            = "Your cities:"
	msgInvalidTime           = "❌ Invalid time format. Example: 13-00"
	msgSubscriptionSet       = "✅ Daily digest scheduled for *%s*."
	msgSubscriptionCancelled = "❌ Daily digest cancelled."
	msgEnterTime             = "⌚ Enter the delivery time in the format `14-30`:"
	msgDigest                = "📨 Daily forecast:\n\n%s"
	msgInternalError         = "⚠️ Something went wrong, please try again later."

	msgSubscriptionMenu = "🕒 *Daily weather digest*\n\n" +
		"You can get the forecast automatically every day.\n\n" +
		"Current delivery time: *%s*\n"
)

const helpTemplate = `ℹ️ *Weather bot help*

Here is what the bot can do:

• *🌤 Weather in {city}* shows the current weather in your default city: temperature, wind and a short description.
• *📅 Forecast for today* gives today's forecast split into morning, day and evening.
• *📅 Forecast for tomorrow* does the same for tomorrow.
• *🌆 Choose another city* lists your saved cities so you can check any of them quickly.
• *➕ Add a new city* lets you type a city name; once found you can:
   — make it your default city;
   — add it to your list;
   — just show its weather once.
• *🕒 Daily digest* sends today's forecast for your default city every day at the chosen time.
   — *Set / change time*: send the time as ` + "`HH-MM`" + `, for example ` + "`08-30`" + `;
   — *Cancel digest*: turns the daily messages off.

• The *🏠 Menu* button at the bottom always opens the main menu.

If something does not work as expected, just type a new city or press 🏠 Menu.`

func helpText(city string) string {
	if city == "" {
		city = "your city"
	}
	return strings.ReplaceAll(helpTemplate, "{city}", city)
}
