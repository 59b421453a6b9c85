package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-bot/internal/weather"
)

const (
	GeocoderOpenMeteo = "openmeteo"
	GeocoderGoogle    = "google"

	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration

	// Geocoder selects the city resolver: "openmeteo" or "google".
	Geocoder             string
	GoogleGeocoderAPIKey string
	GeocodingLanguage    string

	// Forecast aggregation policy.
	Policy weather.Policy

	// Outbound provider throttling.
	ProviderRPS   float64
	ProviderBurst int

	StoreDriver string
	SQLitePath  string

	// ScheduleLocation is the zone subscription times are written in.
	ScheduleLocation *time.Location
	DeliveryTimeout  time.Duration

	OutboundWebhookURL string
	OutboxMaxPerChat   int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.DeliveryTimeout, err = getenvDuration("DELIVERY_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	cfg.Geocoder = strings.ToLower(getenvDefault("GEOCODER", GeocoderOpenMeteo))
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")
	switch cfg.Geocoder {
	case GeocoderOpenMeteo:
	case GeocoderGoogle:
		if cfg.GoogleGeocoderAPIKey == "" {
			return nil, fmt.Errorf("GEOCODER=google requires GOOGLE_GEOCODER_API_KEY")
		}
	default:
		return nil, fmt.Errorf("invalid GEOCODER %q", cfg.Geocoder)
	}
	cfg.GeocodingLanguage = getenvDefault("GEOCODING_LANGUAGE", "en")

	partition, err := weather.ParsePartition(getenvDefault("FORECAST_PARTITION", "range"))
	if err != nil {
		return nil, fmt.Errorf("invalid FORECAST_PARTITION: %w", err)
	}
	reduction, err := weather.ParseReduction(getenvDefault("FORECAST_REDUCTION", "mean"))
	if err != nil {
		return nil, fmt.Errorf("invalid FORECAST_REDUCTION: %w", err)
	}
	cfg.Policy = weather.Policy{Partition: partition, Reduction: reduction}

	cfg.ProviderRPS = getenvFloat("PROVIDER_RPS", 5)
	cfg.ProviderBurst = getenvInt("PROVIDER_BURST", 5)

	cfg.StoreDriver = strings.ToLower(getenvDefault("STORE_DRIVER", StoreMemory))
	if cfg.StoreDriver != StoreMemory && cfg.StoreDriver != StoreSQLite {
		return nil, fmt.Errorf("invalid STORE_DRIVER %q", cfg.StoreDriver)
	}
	cfg.SQLitePath = getenvDefault("SQLITE_PATH", "weather-bot.db")

	loc, err := time.LoadLocation(getenvDefault("SCHEDULE_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_TIMEZONE: %w", err)
	}
	cfg.ScheduleLocation = loc

	cfg.OutboundWebhookURL = os.Getenv("OUTBOUND_WEBHOOK_URL")
	cfg.OutboxMaxPerChat = getenvInt("OUTBOX_MAX_PER_CHAT", 50)

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
