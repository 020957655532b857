// Package config loads nextup configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Database. DatabaseURL selects Postgres when set; otherwise the
	// local SQLite file at SQLitePath is used.
	DatabaseURL string
	SQLitePath  string

	// Redis (optional tuning cache)
	RedisURL string

	// RabbitMQ (optional event publisher)
	RabbitMQURL string

	// Events
	PublishEvents bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		UserID:        getEnv("NEXTUP_USER_ID", "00000000-0000-0000-0000-000000000001"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SQLitePath:    getEnv("NEXTUP_DB_PATH", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		PublishEvents: getBoolEnv("NEXTUP_PUBLISH_EVENTS", true),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
