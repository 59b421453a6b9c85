package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/weather-bot/internal/weather"
	"github.com/sony/gobreaker"
)

// openMeteoTimeLayout is the local wall-clock format used with timezone=auto.
const openMeteoTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

var _ weather.Provider = (*OpenMeteoProvider)(nil)

// NewOpenMeteoProvider creates an Open-Meteo forecast client. An empty baseURL
// selects the public endpoint.
func NewOpenMeteoProvider(cfg HTTPClientConfig, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1/forecast"
	}
	if cfg.Backoff == (BackoffConfig{}) {
		cfg.Backoff = DefaultBackoff
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newCircuitBreaker("openmeteo"),
	}
}

// Name returns the provider identifier.
func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) request(values url.Values) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
}

func coordValues(coord weather.Coordinate) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	return values
}

// Current fetches the current conditions at coord.
func (p *OpenMeteoProvider) Current(ctx context.Context, coord weather.Coordinate) (weather.Current, error) {
	values := coordValues(coord)
	values.Set("current_weather", "true")

	var payload struct {
		CurrentWeather *struct {
			Temperature float64 `json:"temperature"`
			WindSpeed   float64 `json:"windspeed"`
			WeatherCode float64 `json:"weathercode"`
		} `json:"current_weather"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.request(values), &payload); err != nil {
		return weather.Current{}, err
	}
	if payload.CurrentWeather == nil {
		return weather.Current{}, weather.ErrNotFound
	}

	return weather.Current{
		TemperatureC: payload.CurrentWeather.Temperature,
		WindSpeedKmh: payload.CurrentWeather.WindSpeed,
		Code:         int(payload.CurrentWeather.WeatherCode),
	}, nil
}

// Hourly fetches days of hourly samples at coord, in the location's own zone.
func (p *OpenMeteoProvider) Hourly(ctx context.Context, coord weather.Coordinate, days int) (weather.HourlySeries, error) {
	if days <= 0 {
		return weather.HourlySeries{}, fmt.Errorf("days must be greater than zero")
	}

	values := coordValues(coord)
	values.Set("hourly", "temperature_2m,weathercode")
	values.Set("timezone", "auto")
	values.Set("forecast_days", strconv.Itoa(days))

	var payload struct {
		Timezone             string `json:"timezone"`
		TimezoneAbbreviation string `json:"timezone_abbreviation"`
		UTCOffsetSeconds     int    `json:"utc_offset_seconds"`
		Hourly               struct {
			Time        []string   `json:"time"`
			Temperature []*float64 `json:"temperature_2m"`
			WeatherCode []*float64 `json:"weathercode"`
		} `json:"hourly"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.request(values), &payload); err != nil {
		return weather.HourlySeries{}, err
	}

	loc := resolveLocation(payload.Timezone, payload.TimezoneAbbreviation, payload.UTCOffsetSeconds)

	h := payload.Hourly
	n := min(len(h.Time), len(h.Temperature), len(h.WeatherCode))
	samples := make([]weather.HourlySample, 0, n)
	for i := 0; i < n; i++ {
		if h.Temperature[i] == nil || h.WeatherCode[i] == nil {
			continue
		}
		ts, err := time.ParseInLocation(openMeteoTimeLayout, h.Time[i], loc)
		if err != nil {
			return weather.HourlySeries{}, fmt.Errorf("parse hourly time %q: %w", h.Time[i], err)
		}
		samples = append(samples, weather.HourlySample{
			Time:         ts,
			TemperatureC: *h.Temperature[i],
			Code:         int(*h.WeatherCode[i]),
		})
	}

	return weather.HourlySeries{Location: loc, Samples: samples}, nil
}

// resolveLocation prefers the IANA zone and falls back to the fixed offset
// the provider reports alongside it.
func resolveLocation(name, abbr string, offset int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if abbr == "" {
		abbr = name
	}
	return time.FixedZone(abbr, offset)
}
