package weather

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a city cannot be resolved or a provider has no data for it.
	ErrNotFound = errors.New("city not found")

	// ErrNoForecastAvailable is returned when no hourly sample falls on the requested date.
	ErrNoForecastAvailable = errors.New("no forecast available")
)

// Geocoder resolves a free-text city name to a place.
type Geocoder interface {
	Resolve(ctx context.Context, city string) (Place, error)
}

// Provider abstracts a weather data source (e.g. Open-Meteo).
type Provider interface {
	Name() string
	Current(ctx context.Context, coord Coordinate) (Current, error)
	// Hourly returns an hourly series covering today and the following days-1
	// days in the location's local time zone.
	Hourly(ctx context.Context, coord Coordinate, days int) (HourlySeries, error)
}
