package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
	SourceSeed     = "seed"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	Source      string
	ListingsURL string
	DatabaseURL string

	PlaceholderImageURL string
	SourceTimeout       time.Duration
	RefreshInterval     time.Duration

	Breaker BreakerConfig
}

type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Source:      getEnv("LISTING_SOURCE", SourceSeed),
		ListingsURL: getEnv("LISTINGS_API_URL", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		PlaceholderImageURL: getEnv("PLACEHOLDER_IMAGE_URL", ""),
		SourceTimeout:       getDuration("SOURCE_TIMEOUT", 0),
		RefreshInterval:     getDuration("REFRESH_INTERVAL", 0),

		Breaker: BreakerConfig{
			MaxFailures: uint32(getInt("BREAKER_MAX_FAILURES", 5)),
			OpenTimeout: getDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Source {
	case SourceHTTP:
		if c.ListingsURL == "" {
			return fmt.Errorf("LISTINGS_API_URL is required when LISTING_SOURCE=%s", SourceHTTP)
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when LISTING_SOURCE=%s", SourcePostgres)
		}
	case SourceSeed:
	default:
		return fmt.Errorf("unknown LISTING_SOURCE %q", c.Source)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
