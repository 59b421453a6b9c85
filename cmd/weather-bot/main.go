package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/i474232898/weather-bot/internal/api/http"
	"github.com/i474232898/weather-bot/internal/bot"
	"github.com/i474232898/weather-bot/internal/config"
	"github.com/i474232898/weather-bot/internal/outbox"
	"github.com/i474232898/weather-bot/internal/scheduler"
	"github.com/i474232898/weather-bot/internal/store"
	"github.com/i474232898/weather-bot/internal/weather"
	"github.com/i474232898/weather-bot/internal/weather/providers"
)

// profileStore is what both the bot and the scheduler need from storage.
type profileStore interface {
	bot.Store
	scheduler.Subscriptions
	Close() error
}

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	httpCfg := providers.HTTPClientConfig{
		Client:  httpClient,
		Backoff: providers.DefaultBackoff,
		Limiter: providers.NewLimiter(cfg.ProviderRPS, cfg.ProviderBurst),
	}

	var geocoder weather.Geocoder
	switch cfg.Geocoder {
	case config.GeocoderGoogle:
		geocoder, err = providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey)
		if err != nil {
			log.Fatalf("failed to configure google geocoder: %v", err)
		}
	default:
		geocoder = providers.NewOpenMeteoGeocoder(httpCfg, "", cfg.GeocodingLanguage)
	}
	provider := providers.NewOpenMeteoProvider(httpCfg, "")

	service := weather.NewService(geocoder, provider, cfg.Policy)

	var profiles profileStore
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		profiles, err = store.NewSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("failed to open sqlite store: %v", err)
		}
	default:
		profiles = store.NewMemoryStore()
	}
	defer func() {
		if err := profiles.Close(); err != nil {
			log.Printf("warning: error closing store: %v", err)
		}
	}()

	weatherBot := bot.New(service, profiles)

	// Outbound delivery for scheduled digests.
	var (
		sender scheduler.Sender
		box    httpapi.Outbox
	)
	if cfg.OutboundWebhookURL != "" {
		sender = outbox.NewWebhook(httpClient, cfg.OutboundWebhookURL)
	} else {
		mem := outbox.NewMemory(cfg.OutboxMaxPerChat)
		sender, box = mem, mem
	}

	// Scheduler that delivers daily digests.
	sched := scheduler.New(cfg.ScheduleLocation, profiles, weatherBot, sender, cfg.DeliveryTimeout)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-bot",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-bot",
		})
	})

	httpapi.RegisterRoutes(app, weatherBot, box)

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
