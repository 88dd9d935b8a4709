package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleConfig = `
app:
  port: 8080
  gin_mode: release
  base_url: "https://tinicoach.hu"
database:
  dsn: "host=localhost user=tinicoach dbname=tinicoach sslmode=disable"
redis:
  addr: "localhost:6379"
  db: 0
session:
  ttl: "672h"
  cookie_name: "tinicoach-session"
  cookie_secure: true
tokens:
  verification_ttl: "24h"
  reset_ttl: "24h"
  reactivation_ttl: "720h"
password:
  bcrypt_cost: 12
rate_limit:
  sweep_interval: "10m"
  login:
    max_attempts: 5
    window: "15m"
  registration:
    max_attempts: 5
    window: "1h"
  password_reset:
    max_attempts: 3
    window: "1h"
  verification:
    max_attempts: 3
    window: "1h"
sendgrid:
  from_email: "noreply@tinicoach.hu"
  from_name: "TiniCoach"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFrom(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 672*time.Hour {
		t.Errorf("SessionTTL = %v, want 672h", cfg.SessionTTL)
	}
	if cfg.CookieName != "tinicoach-session" {
		t.Errorf("CookieName = %q", cfg.CookieName)
	}
	if cfg.ReactivationTTL != 720*time.Hour {
		t.Errorf("ReactivationTTL = %v, want 720h", cfg.ReactivationTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.LoginLimit.MaxAttempts != 5 || cfg.LoginLimit.Window != 15*time.Minute {
		t.Errorf("LoginLimit = %+v, want 5 per 15m", cfg.LoginLimit)
	}
	if cfg.PasswordResetLimit.MaxAttempts != 3 || cfg.PasswordResetLimit.Window != time.Hour {
		t.Errorf("PasswordResetLimit = %+v, want 3 per 1h", cfg.PasswordResetLimit)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=db user=override")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadFrom(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.DSN != "host=db user=override" {
		t.Errorf("DSN = %q, env override not applied", cfg.DSN)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Errorf("RedisAddr = %q, env override not applied", cfg.RedisAddr)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(string) string
	}{
		{"missing file", nil},
		{"bad session ttl", func(s string) string {
			return strings.Replace(s, `ttl: "672h"`, `ttl: "four weeks"`, 1)
		}},
		{"zero max attempts", func(s string) string {
			return strings.Replace(s, "max_attempts: 5", "max_attempts: 0", 1)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.yml")
			if tt.mutate != nil {
				path = writeConfig(t, tt.mutate(sampleConfig))
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("LoadFrom() error = nil, want error")
			}
		})
	}
}
