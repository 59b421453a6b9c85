package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/i474232898/weather-bot/internal/common"
)

// forecastDays covers today and tomorrow.
const forecastDays = 2

// Service resolves cities and turns provider data into user-facing text.
type Service struct {
	geocoder Geocoder
	provider Provider
	policy   Policy
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(geocoder Geocoder, provider Provider, policy Policy) *Service {
	return &Service{
		geocoder: geocoder,
		provider: provider,
		policy:   policy,
		now:      time.Now,
	}
}

// Lookup resolves a city name, returning ErrNotFound for unknown cities.
func (s *Service) Lookup(ctx context.Context, city string) (Place, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Place{}, ErrNotFound
	}
	place, err := s.geocoder.Resolve(ctx, city)
	if err != nil {
		return Place{}, err
	}
	return place, nil
}

// Current fetches instantaneous conditions for a city.
func (s *Service) Current(ctx context.Context, city string) (Current, error) {
	place, err := s.Lookup(ctx, city)
	if err != nil {
		return Current{}, err
	}
	cur, err := s.provider.Current(ctx, place.Coordinate)
	if err != nil {
		return Current{}, fmt.Errorf("%s current weather: %w", s.provider.Name(), err)
	}
	return cur, nil
}

// Forecast aggregates today's or tomorrow's hourly series for a city. The
// target date is taken in the time zone reported by the provider for the city.
func (s *Service) Forecast(ctx context.Context, city string, tomorrow bool) (ForecastResult, error) {
	place, err := s.Lookup(ctx, city)
	if err != nil {
		return ForecastResult{}, err
	}

	series, err := s.provider.Hourly(ctx, place.Coordinate, forecastDays)
	if err != nil {
		return ForecastResult{}, fmt.Errorf("%s hourly forecast: %w", s.provider.Name(), err)
	}

	loc := series.Location
	if loc == nil {
		loc = time.UTC
	}
	target := s.now().In(loc)
	if tomorrow {
		target = target.AddDate(0, 0, 1)
	}

	return Aggregate(series.Samples, target, s.policy)
}

// CurrentText renders current conditions, or the not-found text on failure.
func (s *Service) CurrentText(ctx context.Context, city string) string {
	cur, err := s.Current(ctx, city)
	if err != nil {
		logFailure("current", city, err)
		return RenderNotFound()
	}
	return RenderCurrent(common.CityTitle(city), cur.TemperatureC, cur.WindSpeedKmh, ConditionIcon(cur.Code)+" "+TranslateCondition(cur.Code))
}

// ForecastText renders a day-part forecast, or the not-found text on failure.
func (s *Service) ForecastText(ctx context.Context, city string, tomorrow bool) string {
	result, err := s.Forecast(ctx, city, tomorrow)
	if err != nil {
		logFailure("forecast", city, err)
		return RenderNotFound()
	}
	return RenderForecast(common.CityTitle(city), result, tomorrow)
}

// logFailure keeps lookup misses apart from transport failures even though
// both end up as the same message for the user.
func logFailure(op, city string, err error) {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoForecastAvailable) {
		log.Printf("INFO: %s for %q: %v", op, city, err)
		return
	}
	log.Printf("ERROR: %s for %q failed: %v", op, city, err)
}
