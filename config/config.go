package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// InsecureHashSecret is the development-only default pepper for hashing
// verification tokens. Operators must override TOKEN_HASH_SECRET outside
// of ENV=local.
const InsecureHashSecret = "campusnest-insecure-dev-secret"

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	// Record store (the headless CMS holding every collection).
	StoreURL   string `env:"STORE_URL,required" validate:"required,url"`
	StoreToken string `env:"STORE_TOKEN,required" validate:"required"`

	// Verification-token hashing.
	TokenHashSecret string `env:"TOKEN_HASH_SECRET" envDefault:"campusnest-insecure-dev-secret" validate:"required"`
	TokenHashAlgo   string `env:"TOKEN_HASH_ALGO" envDefault:"sha256" validate:"oneof=sha256 sha512"`
	TokenLength     int    `env:"TOKEN_LENGTH" envDefault:"32" validate:"min=16,max=64"`

	SessionCookie string `env:"SESSION_COOKIE" envDefault:"cn_session" validate:"required"`

	VerifySuccessURL string `env:"VERIFY_SUCCESS_URL" envDefault:"/account-verified"`
	VerifyErrorURL   string `env:"VERIFY_ERROR_URL" envDefault:"/verification-failed"`
	VerifyLinkBase   string `env:"VERIFY_LINK_BASE_URL" envDefault:"http://localhost:8080"`
	VerifyTTLMin     int    `env:"VERIFY_TTL_MIN" envDefault:"1440" validate:"min=1"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Env != "local" && cfg.TokenHashSecret == InsecureHashSecret {
		return nil, fmt.Errorf("TOKEN_HASH_SECRET must be overridden when ENV=%s", cfg.Env)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
