// Package config provides configuration for the orchestrator.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the orchestrator configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Assistant backend
	AssistantAPIURL string
	AssistantAPIKey string
	UpstreamTimeout time.Duration

	// Secondary APIs
	FeeAPIURL string

	// Run polling
	PollInterval    time.Duration
	PollMaxAttempts int

	// WebSocket settings
	PingInterval   time.Duration
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	MaxMessageSize int64

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		HTTPPort:        getEnvInt("HTTP_PORT", 3000),
		DatabaseURL:     getEnv("DATABASE_URL", "file:orchestrator.db?cache=shared&mode=rwc"),
		AssistantAPIURL: getEnv("ASSISTANT_API_URL", "https://api.openai.com/v1"),
		AssistantAPIKey: getEnv("ASSISTANT_API_KEY", ""),
		UpstreamTimeout: time.Duration(getEnvInt("UPSTREAM_TIMEOUT_MS", 30000)) * time.Millisecond,
		FeeAPIURL:       getEnv("FEE_API_URL", "http://localhost:5000"),
		PollInterval:    time.Duration(getEnvInt("POLL_INTERVAL_MS", 1000)) * time.Millisecond,
		PollMaxAttempts: getEnvInt("POLL_MAX_ATTEMPTS", 120),
		PingInterval:    time.Duration(getEnvInt("WS_PING_INTERVAL_MS", 30000)) * time.Millisecond,
		WriteTimeout:    time.Duration(getEnvInt("WS_WRITE_TIMEOUT_MS", 10000)) * time.Millisecond,
		ReadTimeout:     time.Duration(getEnvInt("WS_READ_TIMEOUT_MS", 60000)) * time.Millisecond,
		MaxMessageSize:  int64(getEnvInt("WS_MAX_MESSAGE_SIZE", 65536)),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
