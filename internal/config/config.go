package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"saudi-weather-api/internal/geo"
)

// AppConfig holds all runtime configuration, read once at startup.
type AppConfig struct {
	Port string

	// Outbound HTTP client timeout for all provider calls.
	HTTPTimeout time.Duration

	// UserAgent sent to every upstream provider.
	UserAgent string

	// Provider base URLs.
	OpenMeteoBaseURL string
	NominatimBaseURL string
	AladhanBaseURL   string

	// Cache TTLs.
	WeatherTTL time.Duration
	PrayerTTL  time.Duration

	// SweepInterval controls how often expired in-memory cache entries are
	// collected.
	SweepInterval time.Duration

	// RedisURL is optional; empty means in-memory cache only.
	RedisURL string

	// CitiesPath optionally overrides the embedded city dataset.
	CitiesPath string

	// Bounds restricts service to a geographic region.
	Bounds geo.Bounds
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:             getenvDefault("PORT", "8080"),
		UserAgent:        getenvDefault("HTTP_USER_AGENT", "SaudiWeather/1.0"),
		OpenMeteoBaseURL: getenvDefault("OPENMETEO_BASE_URL", "https://api.open-meteo.com/v1"),
		NominatimBaseURL: getenvDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		AladhanBaseURL:   getenvDefault("ALADHAN_BASE_URL", "https://api.aladhan.com"),
		RedisURL:         os.Getenv("REDIS_URL"),
		CitiesPath:       os.Getenv("CITIES_PATH"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.WeatherTTL, err = getenvDuration("WEATHER_CACHE_TTL", "5m"); err != nil {
		return nil, err
	}
	if cfg.PrayerTTL, err = getenvDuration("PRAYER_CACHE_TTL", "1h"); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getenvDuration("CACHE_SWEEP_INTERVAL", "5m"); err != nil {
		return nil, err
	}

	cfg.Bounds = geo.Bounds{
		MinLat: getenvFloat("BOUNDS_MIN_LAT", geo.SaudiBounds.MinLat),
		MaxLat: getenvFloat("BOUNDS_MAX_LAT", geo.SaudiBounds.MaxLat),
		MinLon: getenvFloat("BOUNDS_MIN_LON", geo.SaudiBounds.MinLon),
		MaxLon: getenvFloat("BOUNDS_MAX_LON", geo.SaudiBounds.MaxLon),
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	s := getenvDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
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
