// Package config reads the runtime configuration from the environment.
// A .env file in the working directory is loaded first.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Brawl345/matrixweather/effect"
	"github.com/Brawl345/matrixweather/governor"
	"github.com/Brawl345/matrixweather/model"
	"github.com/Brawl345/matrixweather/model/sql"
	"github.com/Brawl345/matrixweather/weather"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sosodev/duration"
)

const (
	DefaultCity = "Dubai"
	DefaultPort = "8080"
)

type Config struct {
	APIKey      string
	BaseURL     string
	DefaultCity string

	DatabaseDriver string
	DatabaseURL    string
	Namespace      string

	IPLocatorURL string
	NominatimURL string

	Port string

	// RefreshInterval overrides the stored preference when non-zero.
	RefreshInterval time.Duration

	Density    map[effect.Type]float64
	BaseCounts map[governor.Tier]int
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getenvDefault(key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration. Malformed tunables are reported as errors
// rather than silently ignored.
func Load() (Config, error) {
	cfg := Config{
		APIKey:         getenv("OPENWEATHER_API_KEY"),
		BaseURL:        getenvDefault("OPENWEATHER_BASE_URL", weather.DefaultBaseURL),
		DefaultCity:    getenvDefault("DEFAULT_CITY", DefaultCity),
		DatabaseDriver: getenvDefault("DATABASE_DRIVER", sql.DriverSQLite),
		DatabaseURL:    getenv("DATABASE_URL"),
		Namespace:      getenvDefault("STORAGE_NAMESPACE", sql.DefaultNamespace),
		IPLocatorURL:   getenv("IP_LOCATOR_URL"),
		NominatimURL:   getenv("NOMINATIM_URL"),
		Port:           getenvDefault("PORT", DefaultPort),
		Density:        map[effect.Type]float64{},
		BaseCounts:     map[governor.Tier]int{},
	}

	if raw := getenv("REFRESH_INTERVAL"); raw != "" {
		d, err := duration.Parse(raw)
		if err != nil {
			return cfg, fmt.Errorf("REFRESH_INTERVAL: %w", err)
		}
		cfg.RefreshInterval = d.ToTimeDuration()
		if cfg.RefreshInterval <= 0 {
			return cfg, fmt.Errorf("REFRESH_INTERVAL must be positive, got %q", raw)
		}
	}

	for _, t := range effect.Types() {
		key := "MATRIX_DENSITY_" + strings.ToUpper(string(t))
		raw := getenv(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			return cfg, fmt.Errorf("%s must be a positive number, got %q", key, raw)
		}
		cfg.Density[t] = v
	}

	for _, tier := range governor.Tiers() {
		key := "MATRIX_BASE_COUNT_" + strings.ToUpper(tier.String())
		raw := getenv(key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return cfg, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
		}
		cfg.BaseCounts[tier] = v
	}

	return cfg, nil
}

// Preferences applies the configured overrides to stored preferences.
func (c Config) Preferences(stored model.Preferences) model.Preferences {
	if c.RefreshInterval > 0 {
		stored.RefreshInterval = c.RefreshInterval
	}
	return stored
}
