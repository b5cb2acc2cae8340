package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds application configuration values.
type Config struct {
	Environment string
	DatabaseDSN string
	HTTPPort    string
	LogLevel    string
}

// IsDevelopment reports whether the app runs in development mode, which
// enables the destructive data-reset endpoint.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "file:billing.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	return Config{Environment: env, DatabaseDSN: dsn, HTTPPort: port, LogLevel: level}
}
