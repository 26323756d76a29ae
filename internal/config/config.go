package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const devSessionSecret = "dev-secret-change-in-production"

type Config struct {
	Port           string
	Env            string
	DatabaseDriver string
	DatabaseDSN    string
	SessionSecret  string
	SessionMaxAge  time.Duration
	SessionStore   string
	RedisURL       string
	CORSOrigin     string
	CookieSecure   bool
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "mysql"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/birthdays"),
		SessionSecret:  getEnv("SESSION_SECRET", devSessionSecret),
		SessionMaxAge:  getDuration("SESSION_MAX_AGE", 30*24*time.Hour),
		SessionStore:   getEnv("SESSION_STORE", "memory"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CORSOrigin:     getEnv("CORS_ORIGIN", "http://localhost:5173"),
	}
	cfg.CookieSecure = getBool("COOKIE_SECURE", cfg.IsProduction())

	if cfg.IsProduction() && cfg.SessionSecret == devSessionSecret {
		slog.Error("SESSION_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

// IsProduction reports whether the service runs with ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}
