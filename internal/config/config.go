package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds shared configuration values for the linegate CLI
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error)
	LogLevel string

	// LogFormat controls log output format (console, json)
	LogFormat string

	// Prefix is the default per-line prefix when --prefix is not given
	Prefix string

	// Suffix is the default per-line suffix when --suffix is not given
	Suffix string
}

// Load creates a Config by reading from environment variables
// and applying defaults where values are not set
func Load() *Config {
	return &Config{
		LogLevel:  getEnvOrDefault("LINEGATE_LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LINEGATE_LOG_FORMAT", "console"),
		Prefix:    getEnvOrDefault("LINEGATE_PREFIX", ""),
		Suffix:    getEnvOrDefault("LINEGATE_SUFFIX", ""),
	}
}

// Validate checks that configuration values are within their allowed sets
func (c *Config) Validate() error {
	var invalid []string

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		invalid = append(invalid, fmt.Sprintf("LINEGATE_LOG_LEVEL=%q", c.LogLevel))
	}

	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		invalid = append(invalid, fmt.Sprintf("LINEGATE_LOG_FORMAT=%q", c.LogFormat))
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
	}

	return nil
}

// getEnvOrDefault retrieves an environment variable or returns a default value
func getEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}
