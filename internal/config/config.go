// Package config loads bot configuration from the environment.
//
// A .env file in the working directory is loaded first (if present), then
// plain environment variables win. Required settings fail fast at startup;
// everything else has a sensible default.
//
// Environment variables:
//
//	TELEGRAM_TOKEN    — bot token for the chat transport (required)
//	POSTGRES_URL      — Postgres connection string (required)
//	TMDB_API_KEY      — TMDB API key; empty disables enrichment
//	SENTRY_DSN        — Sentry DSN; empty disables error reporting
//	MOVIEBOT_PREFIX   — initial command prefix (default "!")
//	MOVIEBOT_OPS_ADDR — listen address for /health and /metrics (default ":8112")
//	LOG_FORMAT        — "json" or "pretty" (default "json")
//	LOG_LEVEL         — "debug", "info", "warn", "error" (default "info")
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting for the bot process.
type Config struct {
	TelegramToken string
	PostgresURL   string
	TMDBAPIKey    string
	SentryDSN     string
	Prefix        string
	OpsAddr       string
	LogFormat     string
	LogLevel      string
}

// Load reads .env (best effort) and the environment and validates required
// settings. It returns an error naming the first missing required variable.
func Load() (*Config, error) {
	// Missing .env is fine — production sets real environment variables.
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		TMDBAPIKey:    os.Getenv("TMDB_API_KEY"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		Prefix:        getEnv("MOVIEBOT_PREFIX", "!"),
		OpsAddr:       getEnv("MOVIEBOT_OPS_ADDR", ":8112"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("config: TELEGRAM_TOKEN is not set")
	}
	if cfg.PostgresURL == "" {
		return nil, fmt.Errorf("config: POSTGRES_URL is not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
