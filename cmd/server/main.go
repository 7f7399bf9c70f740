package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "saudi-weather-api/internal/api/http"
	"saudi-weather-api/internal/cache"
	"saudi-weather-api/internal/cities"
	"saudi-weather-api/internal/config"
	"saudi-weather-api/internal/scheduler"
	"saudi-weather-api/internal/weather"
	"saudi-weather-api/internal/weather/providers"
)

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

	// Cache store: Redis when configured and reachable, in-memory otherwise.
	store := cache.New(context.Background(), cfg.RedisURL)

	// City directory is loaded before the server accepts traffic; a load
	// failure degrades to an empty directory rather than blocking startup.
	directory := cities.Load(cfg.CitiesPath)

	// Upstream provider clients.
	forecast := providers.NewOpenMeteoClient(httpClient, cfg.OpenMeteoBaseURL, cfg.UserAgent)
	geocode := providers.NewNominatimClient(httpClient, cfg.NominatimBaseURL, cfg.UserAgent)
	prayer := providers.NewAladhanClient(httpClient, cfg.AladhanBaseURL, cfg.UserAgent)

	// Core service orchestrating cache, providers, and directory.
	service := weather.NewService(store, directory, forecast, geocode, prayer, weather.Settings{
		Bounds:     cfg.Bounds,
		WeatherTTL: cfg.WeatherTTL,
		PrayerTTL:  cfg.PrayerTTL,
	})

	// Janitor that periodically collects expired in-memory cache entries.
	if sweeper, ok := store.(scheduler.Sweeper); ok {
		janitor := scheduler.New(sweeper, cfg.SweepInterval)
		if err := janitor.Start(); err != nil {
			log.Fatalf("failed to start cache janitor: %v", err)
		}
		defer janitor.Stop()
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "saudi-weather-api",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	go func() {
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
