// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// StorageBackend selects the persistence layer: "memory" or "postgres".
	// Defaults to "memory".
	StorageBackend string

	// DatabaseURL is the Postgres connection string.
	// Required when StorageBackend is "postgres".
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// AuthPrivilegedHeader names the gateway header carrying the privileged
	// flag; the identity system upstream is responsible for setting it
	// truthfully. Defaults to "X-Caller-Privileged".
	AuthPrivilegedHeader string

	// AuthCallerHeader names the gateway header carrying the caller identity.
	// Defaults to "X-Caller-Id".
	AuthCallerHeader string
}

// Load reads configuration from the environment, after best-effort loading a
// local .env file. Returns an error listing any required variables not set.
func Load() (Config, error) {
	// .env is a local-dev convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		StorageBackend:       getEnv("STORAGE_BACKEND", "memory"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CORSOrigins:          splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		AuthPrivilegedHeader: getEnv("AUTH_PRIVILEGED_HEADER", "X-Caller-Privileged"),
		AuthCallerHeader:     getEnv("AUTH_CALLER_HEADER", "X-Caller-Id"),
	}

	switch cfg.StorageBackend {
	case "memory":
	case "postgres":
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("required environment variables not set: DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_BACKEND %q: must be memory or postgres", cfg.StorageBackend)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
