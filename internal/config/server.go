package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig is populated from environment variables. Shared by the serve
// and seed commands.
type ServerConfig struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// HTTP server
	ListenAddr  string
	Environment string // development, staging, production

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// Auth: bearer token required for mutating routes
	AdminToken string

	// Logging
	LogLevel string
	LogFile  string
}

// LoadServer reads server configuration from environment variables with
// sensible defaults. Only DATABASE_URL is mandatory.
func LoadServer() (*ServerConfig, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &ServerConfig{
		DatabaseURL:      dbURL,
		DBPoolMinConns:   envIntOr("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns:   envIntOr("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:    envDurationOr("DB_POOL_MAX_LIFE", time.Hour),
		ListenAddr:       envOr("LISTEN_ADDR", ":8080"),
		Environment:      envOr("ENVIRONMENT", "development"),
		CORSAllowOrigins: splitCSV(envOr("CORS_ALLOW_ORIGINS", "*")),
		RateLimitEnabled: envBoolOr("RATE_LIMIT_ENABLED", true),
		RateLimitRPS:     envFloatOr("RATE_LIMIT_RPS", 20),
		RateLimitBurst:   envIntOr("RATE_LIMIT_BURST", 40),
		AdminToken:       envOr("ADMIN_TOKEN", ""),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogFile:          envOr("LOG_FILE", ""),
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
