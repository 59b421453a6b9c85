package common

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CityTitle normalizes whitespace and title-cases a city name for display.
func CityTitle(city string) string {
	// Casers are stateful, so one is built per call.
	return cases.Title(language.Und).String(strings.Join(strings.Fields(city), " "))
}

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
