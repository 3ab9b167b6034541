package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds the service's runtime tunables.
type AppConfig struct {
	Port     string
	DBPath   string
	SeedPath string

	// Postgres deployment database; empty means embedded SQLite.
	DatabaseURL string

	// Site coordinates for the forecast provider.
	WeatherBaseURL string
	Latitude       float64
	Longitude      float64

	// RefreshInterval controls the background snapshot refresh cadence.
	RefreshInterval time.Duration
	// SnapshotMaxAge is the freshness threshold past which a snapshot
	// is treated as unknown weather.
	SnapshotMaxAge time.Duration
	// FetchTimeout bounds the single snapshot fetch per aggregation pass.
	FetchTimeout time.Duration

	// Working-day bounds and the fixed inter-stop travel allowance.
	ShiftStartHour int
	ShiftEndHour   int
	TravelBuffer   time.Duration
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := &AppConfig{
		Port:        Get("PORT", "8080"),
		DBPath:      Get("DB_PATH", "data/app.db"),
		SeedPath:    Get("SEED_PATH", "data/seeds/schedule.json"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		WeatherBaseURL: Get("WEATHER_BASE_URL", ""),

		ShiftStartHour: getInt("SHIFT_START_HOUR", 8),
		ShiftEndHour:   getInt("SHIFT_END_HOUR", 18),
	}

	var err error
	if cfg.Latitude, err = getFloat("SITE_LATITUDE", 33.448); err != nil {
		return nil, err
	}
	if cfg.Longitude, err = getFloat("SITE_LONGITUDE", -112.074); err != nil {
		return nil, err
	}

	if cfg.RefreshInterval, err = getDuration("WEATHER_REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.SnapshotMaxAge, err = getDuration("WEATHER_MAX_AGE", "2h"); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getDuration("WEATHER_FETCH_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.TravelBuffer, err = getDuration("TRAVEL_BUFFER", "15m"); err != nil {
		return nil, err
	}

	if cfg.ShiftStartHour < 0 || cfg.ShiftEndHour > 24 || cfg.ShiftStartHour >= cfg.ShiftEndHour {
		return nil, fmt.Errorf("invalid shift bounds: start=%d end=%d", cfg.ShiftStartHour, cfg.ShiftEndHour)
	}

	return cfg, nil
}

// Get returns the environment value for key, or the fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getDuration(key, def string) (time.Duration, error) {
	v := Get(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
