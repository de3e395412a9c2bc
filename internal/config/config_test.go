package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_EXPIRES_IN", "")
		t.Setenv("DB_QUERY_TIMEOUT", "")
		t.Setenv("DB_MAX_OPEN_CONNS", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.JWTExpirationDur != 7*24*time.Hour {
			t.Errorf("expected 7 day token validity, got %s", cfg.JWTExpirationDur)
		}
		if cfg.DBQueryTimeout != 5*time.Second {
			t.Errorf("expected 5s query timeout, got %s", cfg.DBQueryTimeout)
		}
		if cfg.DBMaxOpenConns != 25 {
			t.Errorf("expected 25 open conns, got %d", cfg.DBMaxOpenConns)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("JWT_EXPIRES_IN", "1h")
		t.Setenv("DB_MAX_OPEN_CONNS", "4")
		t.Setenv("RUN_MIGRATIONS", "false")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.JWTExpirationDur != time.Hour {
			t.Errorf("expected 1h, got %s", cfg.JWTExpirationDur)
		}
		if cfg.DBMaxOpenConns != 4 {
			t.Errorf("expected 4, got %d", cfg.DBMaxOpenConns)
		}
		if cfg.RunMigrations {
			t.Error("expected migrations disabled")
		}
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		t.Setenv("JWT_EXPIRES_IN", "forever")
		t.Setenv("DB_MAX_OPEN_CONNS", "-3")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.JWTExpirationDur != 7*24*time.Hour {
			t.Errorf("expected fallback to 7 days, got %s", cfg.JWTExpirationDur)
		}
		if cfg.DBMaxOpenConns != 25 {
			t.Errorf("expected fallback to 25, got %d", cfg.DBMaxOpenConns)
		}
	})
}
