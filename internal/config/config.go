package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Engine   EngineConfig
	Feeds    FeedConfig
	Server   ServerConfig
	Ingest   IngestConfig
}

// DatabaseConfig holds store connection settings. The driver is either
// "sqlite" (embedded, default) or "postgres".
type DatabaseConfig struct {
	Driver string
	URL    string
}

// EngineConfig holds inference engine settings. Kind is "stan" (external
// sampler subprocess) or "poisson" (in-process deterministic engine).
type EngineConfig struct {
	Kind    string
	StanCmd string
	Timeout time.Duration
	Draws   int
	Seed    int64
}

// FeedConfig holds the external feed base URL.
type FeedConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// IngestConfig holds store build/update job settings.
type IngestConfig struct {
	Concurrency int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver: getEnvOrDefault("DATABASE_DRIVER", "sqlite"),
			URL:    getEnvOrDefault("DATABASE_URL", "data/puckcast.db"),
		},
		Engine: EngineConfig{
			Kind:    getEnvOrDefault("ENGINE", "stan"),
			StanCmd: getEnvOrDefault("STAN_CMD", "bin/goals_model"),
			Timeout: getEnvDurationOrDefault("ENGINE_TIMEOUT", 10*time.Minute),
			Draws:   getEnvIntOrDefault("DRAWS", 4000),
			Seed:    int64(getEnvIntOrDefault("ENGINE_SEED", 1)),
		},
		Feeds: FeedConfig{
			BaseURL: getEnvOrDefault("NHL_API_BASE", "https://api-web.nhle.com"),
			Timeout: getEnvDurationOrDefault("FEED_TIMEOUT", 30*time.Second),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Ingest: IngestConfig{
			Concurrency: getEnvIntOrDefault("INGEST_CONCURRENCY", 4),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch cfg.Engine.Kind {
	case "stan", "poisson":
	default:
		return fmt.Errorf("unknown ENGINE %q", cfg.Engine.Kind)
	}
	if cfg.Engine.Kind == "stan" && cfg.Engine.StanCmd == "" {
		return fmt.Errorf("STAN_CMD is required for the stan engine")
	}
	if cfg.Engine.Draws <= 0 {
		return fmt.Errorf("DRAWS must be positive")
	}
	if cfg.Ingest.Concurrency <= 0 {
		return fmt.Errorf("INGEST_CONCURRENCY must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
