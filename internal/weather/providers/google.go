package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-bot/internal/common"
	"github.com/i474232898/weather-bot/internal/weather"
)

// GoogleGeocoder resolves city names with the Google Geocoding API.
type GoogleGeocoder struct {
	geocode func(geocoder.Address) (geocoder.Location, error)
}

var _ weather.Geocoder = (*GoogleGeocoder)(nil)

// NewGoogleGeocoder configures the Google geocoding client. The API key is
// process-wide in the underlying library.
func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google geocoder api key is not configured")
	}
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{geocode: geocoder.Geocoding}, nil
}

// Resolve looks up a city through the Google Geocoding API.
func (g *GoogleGeocoder) Resolve(ctx context.Context, city string) (weather.Place, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return weather.Place{}, weather.ErrNotFound
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	// The library has no context support; abandon the call on cancellation.
	done := make(chan result, 1)
	go func() {
		loc, err := g.geocode(geocoder.Address{City: city})
		done <- result{loc: loc, err: err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return weather.Place{}, ctx.Err()
	case r = <-done:
	}

	if r.err != nil {
		if common.HasAny(strings.ToUpper(r.err.Error()), "ZERO_RESULTS", "NO RESULTS") {
			return weather.Place{}, fmt.Errorf("%w: %s", weather.ErrNotFound, city)
		}
		return weather.Place{}, fmt.Errorf("google geocoding: %w", r.err)
	}

	return weather.Place{
		Name: city,
		Coordinate: weather.Coordinate{
			Lat: r.loc.Latitude,
			Lon: r.loc.Longitude,
		},
	}, nil
}
