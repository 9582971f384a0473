package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected default driver postgres, got %s", cfg.Database.Driver)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.RateLimit.LoginAttempts != 5 {
		t.Errorf("expected 5 login attempts, got %d", cfg.RateLimit.LoginAttempts)
	}
	if cfg.Redis.ReportCacheTTL != 10*time.Minute {
		t.Errorf("expected 10m report TTL, got %s", cfg.Redis.ReportCacheTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("REPORT_CACHE_TTL", "30s")
	t.Setenv("LOGIN_RATE_LIMIT", "not-a-number")

	cfg := Load()

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected 9090, got %d", cfg.Server.Port)
	}
	if cfg.Redis.Enabled {
		t.Error("expected redis to be disabled")
	}
	if cfg.Redis.ReportCacheTTL != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.Redis.ReportCacheTTL)
	}
	if cfg.RateLimit.LoginAttempts != 5 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.RateLimit.LoginAttempts)
	}
}
