// Package config handles environment variable loading for ports, storage
// paths, provider credentials, etc.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the application.
type Config struct {
	// HTTP server port
	HTTPPort int

	// Path of the SQLite database file
	DatabasePath string

	// Log level: debug, info, warn, error
	LogLevel string

	// Number of concurrent build triggers and the hand-off queue size
	WorkerConcurrency int
	TriggerQueueSize  int

	// Delay before the local simulator reports success
	SimulatedBuildDelay time.Duration

	// GitHub API access; the token is optional
	GitHubAPIURL string
	GitHubToken  string

	// EAS build provider; all three must be set for real builds,
	// otherwise triggers run through the local simulator
	EASAPIURL       string
	ExpoToken       string
	ExpoAccountName string
	ExpoAppSlug     string

	// OTLP collector endpoint; empty disables tracing
	OTELEndpoint string

	// Per-client request rate limit
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:            8080,
		DatabasePath:        "data/builds.db",
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		WorkerConcurrency:   4,
		TriggerQueueSize:    64,
		SimulatedBuildDelay: 5 * time.Second,
		GitHubAPIURL:        os.Getenv("GITHUB_API_URL"),
		GitHubToken:         os.Getenv("GITHUB_TOKEN"),
		EASAPIURL:           os.Getenv("EAS_API_URL"),
		ExpoToken:           os.Getenv("EXPO_TOKEN"),
		ExpoAccountName:     os.Getenv("EXPO_ACCOUNT_NAME"),
		ExpoAppSlug:         os.Getenv("EXPO_APP_SLUG"),
		OTELEndpoint:        os.Getenv("OTEL_ENDPOINT"),
		RateLimitRPS:        10,
		RateLimitBurst:      20,
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.HTTPPort = p
	}

	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}

	if v := os.Getenv("WORKER_CONCURRENCY"); v != "" {
		c, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
		}
		cfg.WorkerConcurrency = c
	}

	if v := os.Getenv("TRIGGER_QUEUE_SIZE"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TRIGGER_QUEUE_SIZE: %w", err)
		}
		cfg.TriggerQueueSize = s
	}

	if v := os.Getenv("SIMULATED_BUILD_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SIMULATED_BUILD_DELAY: %w", err)
		}
		cfg.SimulatedBuildDelay = d
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
		}
		cfg.RateLimitRPS = r
	}

	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		b, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimitBurst = b
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
