package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "DATABASE_DRIVER", "SESSION_MAX_AGE", "SESSION_STORE", "COOKIE_SECURE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DatabaseDriver != "mysql" {
		t.Errorf("DatabaseDriver = %q, want mysql", cfg.DatabaseDriver)
	}
	if cfg.SessionMaxAge != 30*24*time.Hour {
		t.Errorf("SessionMaxAge = %v, want 720h", cfg.SessionMaxAge)
	}
	if cfg.SessionStore != "memory" {
		t.Errorf("SessionStore = %q, want memory", cfg.SessionStore)
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure should default to false outside production")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SESSION_MAX_AGE", "2h")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()

	if cfg.DatabaseDriver != "sqlite" {
		t.Errorf("DatabaseDriver = %q, want sqlite", cfg.DatabaseDriver)
	}
	if cfg.SessionMaxAge != 2*time.Hour {
		t.Errorf("SessionMaxAge = %v, want 2h", cfg.SessionMaxAge)
	}
	if cfg.SessionStore != "redis" {
		t.Errorf("SessionStore = %q, want redis", cfg.SessionStore)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure = false, want true")
	}
	if cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("staging should be neither development nor production")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("SESSION_MAX_AGE", "forever")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := Load()

	if cfg.SessionMaxAge != 30*24*time.Hour {
		t.Errorf("SessionMaxAge = %v, want default", cfg.SessionMaxAge)
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure = true, want default false")
	}
}
