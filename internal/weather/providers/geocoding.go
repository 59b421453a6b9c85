package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/weather-bot/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenMeteoGeocoder resolves city names with the Open-Meteo geocoding API.
type OpenMeteoGeocoder struct {
	baseURL  string
	language string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

var _ weather.Geocoder = (*OpenMeteoGeocoder)(nil)

// NewOpenMeteoGeocoder creates a geocoder returning names in the given
// language. An empty baseURL selects the public endpoint.
func NewOpenMeteoGeocoder(cfg HTTPClientConfig, baseURL, language string) *OpenMeteoGeocoder {
	if baseURL == "" {
		baseURL = "https://geocoding-api.open-meteo.com/v1/search"
	}
	if language == "" {
		language = "en"
	}
	if cfg.Backoff == (BackoffConfig{}) {
		cfg.Backoff = DefaultBackoff
	}
	return &OpenMeteoGeocoder{
		baseURL:  baseURL,
		language: language,
		httpCfg:  cfg,
		circuit:  newCircuitBreaker("openmeteo-geocoding"),
	}
}

// Resolve returns the best match for city, or ErrNotFound when there is none.
func (g *OpenMeteoGeocoder) Resolve(ctx context.Context, city string) (weather.Place, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return weather.Place{}, weather.ErrNotFound
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", city)
		values.Set("count", "1")
		values.Set("language", g.language)
		values.Set("format", "json")

		u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Country   string  `json:"country"`
			Timezone  string  `json:"timezone"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := getJSON(ctx, g.httpCfg, g.circuit, buildRequest, &payload); err != nil {
		return weather.Place{}, err
	}
	if len(payload.Results) == 0 {
		return weather.Place{}, fmt.Errorf("%w: %s", weather.ErrNotFound, city)
	}

	r := payload.Results[0]
	return weather.Place{
		Name:     r.Name,
		Country:  r.Country,
		Timezone: r.Timezone,
		Coordinate: weather.Coordinate{
			Lat: r.Latitude,
			Lon: r.Longitude,
		},
	}, nil
}
