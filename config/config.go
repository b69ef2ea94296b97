package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env         string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port        string `env:"PORT" envDefault:"3000" validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DataDir       string `env:"DATA_DIR" envDefault:".data" validate:"required"`
	HashingSecret string `env:"HASHING_SECRET,required" validate:"required,min=16"`
	MaxChecks     int    `env:"MAX_CHECKS" envDefault:"5" validate:"min=1,max=100"`

	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID" validate:"required_if=Env production,required_if=Env staging"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"  validate:"required_if=Env production,required_if=Env staging"`
	TwilioFromPhone  string `env:"TWILIO_FROM_PHONE"  validate:"required_if=Env production,required_if=Env staging"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
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
