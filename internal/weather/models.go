package weather

import (
	"time"
)

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is a geocoded city.
type Place struct {
	Name       string     `json:"name"`
	Country    string     `json:"country,omitempty"`
	Timezone   string     `json:"timezone,omitempty"`
	Coordinate Coordinate `json:"coordinate"`
}

// Current is an instantaneous reading for a coordinate.
type Current struct {
	TemperatureC float64 `json:"temperatureC"`
	WindSpeedKmh float64 `json:"windSpeedKmh"`
	Code         int     `json:"weatherCode"`
}

// HourlySample is a single hourly observation in the location's local time.
type HourlySample struct {
	Time         time.Time `json:"time"`
	TemperatureC float64   `json:"temperatureC"`
	Code         int       `json:"weatherCode"`
}

// HourlySeries is an hourly time series as reported by a provider.
// Samples are ordered by Time ascending and share Location.
type HourlySeries struct {
	Location *time.Location
	Samples  []HourlySample
}

// DayPart is a coarse bucket of hours used to summarize a day.
type DayPart int

const (
	Morning DayPart = iota
	Day
	Evening
)

// DayParts lists the parts in display order.
var DayParts = [...]DayPart{Morning, Day, Evening}

func (p DayPart) String() string {
	switch p {
	case Morning:
		return "Morning"
	case Day:
		return "Day"
	case Evening:
		return "Evening"
	default:
		return "Unknown"
	}
}

// Icon returns the emoji shown in front of the part name.
func (p DayPart) Icon() string {
	switch p {
	case Morning:
		return "🌅"
	case Day:
		return "🌞"
	case Evening:
		return "🌇"
	default:
		return ""
	}
}

// PartSummary is the reduced view of one DayPart. When Available is false the
// part had no samples and the remaining fields are meaningless.
type PartSummary struct {
	Part         DayPart `json:"part"`
	Available    bool    `json:"available"`
	TemperatureC float64 `json:"temperatureC,omitempty"`
	Code         int     `json:"weatherCode,omitempty"`
	Condition    string  `json:"condition,omitempty"`
}

// ForecastResult holds one summary per DayPart in Morning, Day, Evening order.
type ForecastResult struct {
	Date  time.Time     `json:"date"`
	Parts []PartSummary `json:"parts"`
}
