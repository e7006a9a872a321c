// Package config loads service configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds service configuration
type Config struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodySize     int64

	// SnapshotPath is the file holding the persisted registry snapshot
	SnapshotPath string

	// APIKey is the upstream email validation provider credential.
	// An empty value is not fatal at startup; validation requests fail
	// per-request until it is configured.
	APIKey string
	// UpstreamURL is the upstream email validation provider endpoint
	UpstreamURL string
	// UpstreamTimeout bounds the upstream provider request
	UpstreamTimeout time.Duration

	// ProxyURL is the validate-email endpoint the verifier targets.
	// Empty means the service's own endpoint on the listen port.
	ProxyURL string
	// VerifyTimeout bounds a single verification round trip
	VerifyTimeout time.Duration
	// BulkDelay is the pause between users during bulk validation
	BulkDelay time.Duration
	// ValidateRPS rate-limits the validate-email endpoint
	ValidateRPS float64

	// WebhookURL receives validation outcome notifications when set
	WebhookURL string
	// WebhookTimeout bounds webhook notification requests
	WebhookTimeout time.Duration
}

// New creates a new configuration from environment variables
func New() *Config {
	return &Config{
		Port:            getEnv("ROSTER_PORT", "8080"),
		ReadTimeout:     getDurationEnv("ROSTER_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    getDurationEnv("ROSTER_WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getDurationEnv("ROSTER_SHUTDOWN_TIMEOUT", 30*time.Second),
		MaxBodySize:     getInt64Env("ROSTER_MAX_BODY_SIZE", 100*1024), // 100KB
		SnapshotPath:    getEnv("ROSTER_SNAPSHOT_PATH", "roster.json"),
		APIKey:          getEnv("ROSTER_API_KEY", ""),
		UpstreamURL:     getEnv("ROSTER_UPSTREAM_URL", "https://emailvalidation.abstractapi.com/v1/"),
		UpstreamTimeout: getDurationEnv("ROSTER_UPSTREAM_TIMEOUT", 15*time.Second),
		ProxyURL:        getEnv("ROSTER_PROXY_URL", ""),
		VerifyTimeout:   getDurationEnv("ROSTER_VERIFY_TIMEOUT", 15*time.Second),
		BulkDelay:       getDurationEnv("ROSTER_BULK_DELAY", time.Second),
		ValidateRPS:     getFloatEnv("ROSTER_VALIDATE_RPS", 5),
		WebhookURL:      getEnv("ROSTER_WEBHOOK_URL", ""),
		WebhookTimeout:  getDurationEnv("ROSTER_WEBHOOK_TIMEOUT", 10*time.Second),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable with a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getInt64Env gets an int64 environment variable with a default value
func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloatEnv gets a float64 environment variable with a default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
