package bot

// Callback data understood by Handle.
const (
	cbShowWeather = "show_weather"
	cbToday       = "today"
	cbTomorrow    = "tomorrow"
	cbChooseCity  = "choose_city"
	cbAddCity     = "add_city"
	cbSubscribe   = "subscription"
	cbSubSet      = "sub_set"
	cbSubCancel   = "sub_cancel"
	cbHelp        = "help"
	cbBackMain    = "back_main"

	prefixCity        = "city_"
	prefixMakeDefault = "make_default_"
	prefixSaveCity    = "save_city_"
	prefixJustShow    = "just_show_"
)

// MenuButton is the persistent reply-keyboard button that reopens the main menu.
const MenuButton = "🏠 Menu"

// Button is an inline keyboard button carrying callback data.
type Button struct {
	Text string `json:"text"`
	Data string `json:"callback_data"`
}

// InlineKeyboard is attached to a single message.
type InlineKeyboard struct {
	Rows [][]Button `json:"rows"`
}

// ReplyKeyboard replaces the user's input keyboard.
type ReplyKeyboard struct {
	Rows   [][]string `json:"rows"`
	Resize bool       `json:"resize"`
}

func column(buttons ...Button) *InlineKeyboard {
	rows := make([][]Button, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []Button{b})
	}
	return &InlineKeyboard{Rows: rows}
}

var backButton = Button{Text: "⬅ Back", Data: cbBackMain}

// MainMenu lists every action available for the default city.
func MainMenu(defaultCity string) *InlineKeyboard {
	return column(
		Button{Text: "🌤 Weather in " + defaultCity, Data: cbShowWeather},
		Button{Text: "📅 Forecast for today", Data: cbToday},
		Button{Text: "📅 Forecast for tomorrow", Data: cbTomorrow},
		Button{Text: "🌆 Choose another city", Data: cbChooseCity},
		Button{Text: "➕ Add a new city", Data: cbAddCity},
		Button{Text: "🕒 Daily digest", Data: cbSubscribe},
		Button{Text: "ℹ️ Help", Data: cbHelp},
	)
}

// SubscriptionMenu offers setting or cancelling the daily forecast.
func SubscriptionMenu() *InlineKeyboard {
	return column(
		Button{Text: "⏱ Set / change time", Data: cbSubSet},
		Button{Text: "❌ Cancel digest", Data: cbSubCancel},
		backButton,
	)
}

// CityChoiceMenu lists saved cities followed by a back button.
func CityChoiceMenu(cities []string) *InlineKeyboard {
	buttons := make([]Button, 0, len(cities)+1)
	for _, city := range cities {
		buttons = append(buttons, Button{Text: "🏙 " + city, Data: prefixCity + city})
	}
	buttons = append(buttons, backButton)
	return column(buttons...)
}

// NewCityActions lists what can be done with a freshly found city.
func NewCityActions(city string) *InlineKeyboard {
	return column(
		Button{Text: "⭐ Make default city", Data: prefixMakeDefault + city},
		Button{Text: "📌 Add to my list", Data: prefixSaveCity + city},
		Button{Text: "👀 Just show the weather", Data: prefixJustShow + city},
		backButton,
	)
}

// BottomMenu is the reply keyboard sent on /start.
func BottomMenu() *ReplyKeyboard {
	return &ReplyKeyboard{Rows: [][]string{{MenuButton}}, Resize: true}
}
