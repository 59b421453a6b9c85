package weather

import (
	"fmt"
	"strings"
)

// RenderForecast renders a day-part forecast as a Markdown message.
func RenderForecast(city string, r ForecastResult, tomorrow bool) string {
	day := "today"
	if tomorrow {
		day = "tomorrow"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 *Forecast for %s — %s:*\n\n", day, city)
	for _, p := range r.Parts {
		if !p.Available {
			fmt.Fprintf(&b, "*%s %s:* no data\n\n", p.Part.Icon(), p.Part)
			continue
		}
		fmt.Fprintf(&b, "*%s %s:* %.1f°C, %s %s\n\n",
			p.Part.Icon(), p.Part, p.TemperatureC, ConditionIcon(p.Code), p.Condition)
	}
	return b.String()
}

// RenderCurrent renders instantaneous conditions as a Markdown message.
func RenderCurrent(city string, temperature, windSpeed float64, label string) string {
	return fmt.Sprintf(
		"🌆 *Weather in %s:*\n"+
			"🌡 Temperature: *%.1f°C*\n"+
			"💨 Wind: *%.1f km/h*\n"+
			"%s",
		city, temperature, windSpeed, label,
	)
}

// RenderNotFound is shown whenever a city or its forecast cannot be fetched.
func RenderNotFound() string {
	return "❌ City not found."
}
