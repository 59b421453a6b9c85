package weather

// UnknownCondition is returned for codes missing from the WMO table.
const UnknownCondition = "unknown condition"

type condition struct {
	label string
	icon  string
}

// WMO weather interpretation codes as reported by Open-Meteo.
var conditions = map[int]condition{
	0: {"clear", "☀"},
	1: {"mainly clear", "🌤"},
	2: {"partly cloudy", "⛅"},
	3: {"overcast", "☁"},

	45: {"fog", "🌫"},
	48: {"depositing rime fog", "🌫"},

	51: {"light drizzle", "🌦"},
	53: {"moderate drizzle", "🌦"},
	55: {"dense drizzle", "🌧"},

	56: {"light freezing drizzle", "🌦"},
	57: {"dense freezing drizzle", "🌧"},

	61: {"light rain", "🌦"},
	63: {"rain", "🌧"},
	65: {"heavy rain", "🌧"},

	66: {"freezing rain", "🌧"},
	67: {"heavy freezing rain", "🌧"},

	71: {"light snow", "🌨"},
	73: {"snow", "🌨"},
	75: {"heavy snow", "❄"},

	77: {"snow grains", "❄"},

	80: {"light showers", "🌧"},
	81: {"showers", "🌧"},
	82: {"heavy showers", "🌧"},

	85: {"snow showers", "🌨"},
	86: {"heavy snow showers", "❄"},

	95: {"thunderstorm", "⛈"},
	96: {"thunderstorm with hail", "⛈"},
	99: {"heavy thunderstorm with hail", "⛈"},
}

// TranslateCondition maps a WMO condition code to its label.
func TranslateCondition(code int) string {
	if c, ok := conditions[code]; ok {
		return c.label
	}
	return UnknownCondition
}

// ConditionIcon returns the emoji for a WMO condition code.
func ConditionIcon(code int) string {
	if c, ok := conditions[code]; ok {
		return c.icon
	}
	return "❔"
}
