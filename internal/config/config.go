package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	BaseURL     string `env:"BASE_URL"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	GoogleClientID      string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret  string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleOfflineAccess bool   `env:"GOOGLE_OFFLINE_ACCESS" envDefault:"true"`
	RevokeOnSignOut     bool   `env:"GOOGLE_REVOKE_ON_SIGN_OUT" envDefault:"false"`

	// SignInFlowTimeout bounds how long a consent screen may stay open.
	SignInFlowTimeout time.Duration `env:"SIGNIN_FLOW_TIMEOUT" envDefault:"5m"`

	RedisURL string `env:"REDIS_URL"`
}

// Load loads configuration from a .env file, if present, and the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.SignInFlowTimeout <= 0 {
		return nil, fmt.Errorf("SIGNIN_FLOW_TIMEOUT must be positive, got %s", cfg.SignInFlowTimeout)
	}

	return cfg, nil
}

// CallbackPath is where Google redirects after the consent screen
const CallbackPath = "/oauth/google/callback"

// RedirectURL returns the absolute OAuth redirect URL
func (c *Config) RedirectURL() string {
	return c.BaseURL + CallbackPath
}
