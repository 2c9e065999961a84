// Package config provides configuration management for the verification
// engine's ambient concerns: structured logging and the optional Redis
// backing store for the obligation cache. It intentionally does not carry
// the server/database/auth surface the teacher config exposes — those
// concerns belong to a hosting application, not the core toolchain.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the toolchain's ambient configuration.
type Config struct {
	Logging LoggingConfig
	Cache   CacheConfig
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// CacheConfig holds the obligation cache's optional Redis backing store
// configuration (§4.3 "Cache contract" allows a persistence collaborator).
type CacheConfig struct {
	Enabled  bool
	URL      string
	Password string
	DB       int
	PoolSize int
}

// Load loads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  getEnv("TORC_LOG_LEVEL", "info"),
			Format: getEnv("TORC_LOG_FORMAT", "json"),
		},
		Cache: CacheConfig{
			Enabled:  getEnvAsBool("TORC_CACHE_REDIS_ENABLED", false),
			URL:      getEnv("TORC_CACHE_REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("TORC_CACHE_REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("TORC_CACHE_REDIS_DB", 0),
			PoolSize: getEnvAsInt("TORC_CACHE_REDIS_POOL_SIZE", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}

	if c.Cache.Enabled && c.Cache.URL == "" {
		return fmt.Errorf("cache redis URL is required when the redis backing store is enabled")
	}

	return nil
}

// Helper functions for environment variables.

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
