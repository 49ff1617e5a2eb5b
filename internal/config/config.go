// Package config reads application settings from environment
// variables. Every knob has a working default so a bare environment is
// a valid one.
package config

import (
	"os"
	"strconv"

	"statlab/domain/stats"
	"statlab/internal"
	"statlab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Stats StatsConfig
	Batch BatchConfig
	Log   LogConfig
}

// StatsConfig holds statistical defaults
type StatsConfig struct {
	// ConfidenceLevel is the interval level used when a request does
	// not name one. Open interval (0, 1).
	ConfidenceLevel float64
}

// BatchConfig holds batch execution settings
type BatchConfig struct {
	// Workers bounds how many batch requests run concurrently.
	Workers int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Stats: StatsConfig{
			ConfidenceLevel: getEnvFloatOrDefault("STATLAB_CONFIDENCE_LEVEL", stats.DefaultConfidenceLevel),
		},
		Batch: BatchConfig{
			Workers: getEnvIntOrDefault("STATLAB_BATCH_WORKERS", 4),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("STATLAB_LOG_LEVEL", "INFO"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Stats.ConfidenceLevel <= 0 || config.Stats.ConfidenceLevel >= 1 {
		return errors.ConfigInvalid("STATLAB_CONFIDENCE_LEVEL must be strictly between 0 and 1")
	}
	if config.Batch.Workers < 1 {
		return errors.ConfigInvalid("STATLAB_BATCH_WORKERS must be at least 1")
	}
	if _, ok := internal.ParseLogLevel(config.Log.Level); !ok {
		return errors.ConfigInvalid("STATLAB_LOG_LEVEL must be one of ERROR, WARN, INFO, DEBUG")
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
