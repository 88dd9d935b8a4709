package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
	BaseURL string `yaml:"base_url"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	TTL          string `yaml:"ttl"`
	CookieName   string `yaml:"cookie_name"`
	CookieSecure bool   `yaml:"cookie_secure"`
}

type TokenConfig struct {
	VerificationTTL string `yaml:"verification_ttl"`
	ResetTTL        string `yaml:"reset_ttl"`
	ReactivationTTL string `yaml:"reactivation_ttl"`
}

type PasswordConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

type RateLimitPolicy struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Window      string `yaml:"window"`
}

type RateLimitConfig struct {
	SweepInterval string          `yaml:"sweep_interval"`
	Login         RateLimitPolicy `yaml:"login"`
	Registration  RateLimitPolicy `yaml:"registration"`
	PasswordReset RateLimitPolicy `yaml:"password_reset"`
	Verification  RateLimitPolicy `yaml:"verification"`
}

type SendgridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Session   SessionConfig   `yaml:"session"`
	Tokens    TokenConfig     `yaml:"tokens"`
	Password  PasswordConfig  `yaml:"password"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Sendgrid  SendgridConfig  `yaml:"sendgrid"`
}

// Policy is a parsed fixed-window rate limit policy.
type Policy struct {
	MaxAttempts int
	Window      time.Duration
}

type Config struct {
	Port    string
	GinMode string
	BaseURL string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionTTL   time.Duration
	CookieName   string
	CookieSecure bool

	VerificationTTL time.Duration
	ResetTTL        time.Duration
	ReactivationTTL time.Duration

	BcryptCost int

	RateLimitSweep     time.Duration
	LoginLimit         Policy
	RegistrationLimit  Policy
	PasswordResetLimit Policy
	VerificationLimit  Policy

	SendgridAPIKey string
	FromEmail      string
	FromName       string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	return LoadFrom(env("CONFIG_PATH", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	file, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	sessionTTL, err := time.ParseDuration(file.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}
	verTTL, err := time.ParseDuration(file.Tokens.VerificationTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid verification token TTL: %w", err)
	}
	resetTTL, err := time.ParseDuration(file.Tokens.ResetTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid reset token TTL: %w", err)
	}
	reactTTL, err := time.ParseDuration(file.Tokens.ReactivationTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid reactivation TTL: %w", err)
	}
	sweep, err := time.ParseDuration(file.RateLimit.SweepInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit sweep interval: %w", err)
	}

	login, err := parsePolicy("login", file.RateLimit.Login)
	if err != nil {
		return nil, err
	}
	registration, err := parsePolicy("registration", file.RateLimit.Registration)
	if err != nil {
		return nil, err
	}
	reset, err := parsePolicy("password_reset", file.RateLimit.PasswordReset)
	if err != nil {
		return nil, err
	}
	verification, err := parsePolicy("verification", file.RateLimit.Verification)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:    fmt.Sprintf("%d", file.App.Port),
		GinMode: file.App.GinMode,
		BaseURL: env("BASE_URL", file.App.BaseURL),

		DSN: env("DATABASE_DSN", file.Database.DSN),

		RedisAddr:     env("REDIS_ADDR", file.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", file.Redis.Password),
		RedisDB:       file.Redis.DB,

		SessionTTL:   sessionTTL,
		CookieName:   file.Session.CookieName,
		CookieSecure: file.Session.CookieSecure,

		VerificationTTL: verTTL,
		ResetTTL:        resetTTL,
		ReactivationTTL: reactTTL,

		BcryptCost: file.Password.BcryptCost,

		RateLimitSweep:     sweep,
		LoginLimit:         login,
		RegistrationLimit:  registration,
		PasswordResetLimit: reset,
		VerificationLimit:  verification,

		SendgridAPIKey: env("SENDGRID_API_KEY", file.Sendgrid.APIKey),
		FromEmail:      file.Sendgrid.FromEmail,
		FromName:       file.Sendgrid.FromName,
	}, nil
}

func parsePolicy(name string, p RateLimitPolicy) (Policy, error) {
	window, err := time.ParseDuration(p.Window)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid %s rate limit window: %w", name, err)
	}
	if p.MaxAttempts <= 0 {
		return Policy{}, fmt.Errorf("invalid %s rate limit max attempts: %d", name, p.MaxAttempts)
	}
	return Policy{MaxAttempts: p.MaxAttempts, Window: window}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
