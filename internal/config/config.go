// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDolarAPIBaseURL is the public quotation API endpoint.
const DefaultDolarAPIBaseURL = "https://dolarapi.com"

// DefaultPendingTTL is how long a staged confirmation stays valid.
const DefaultPendingTTL = 60 * time.Second

// Config holds all configuration for the application.
type Config struct {
	TelegramBotToken string
	DatabaseURL      string
	DolarAPIBaseURL  string
	WebhookURL       string
	Port             string
	LogLevel         string
	ExchangeTimeout  time.Duration
	PendingTTL       time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DolarAPIBaseURL:  os.Getenv("DOLAR_API_BASE_URL"),
		WebhookURL:       os.Getenv("WEBHOOK_URL"),
		Port:             os.Getenv("PORT"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.DolarAPIBaseURL == "" {
		cfg.DolarAPIBaseURL = DefaultDolarAPIBaseURL
	}

	cfg.ExchangeTimeout = 5 * time.Second
	if timeoutStr := os.Getenv("EXCHANGE_TIMEOUT_SECONDS"); timeoutStr != "" {
		if s, err := strconv.Atoi(timeoutStr); err == nil && s > 0 {
			cfg.ExchangeTimeout = time.Duration(s) * time.Second
		}
	}

	cfg.PendingTTL = DefaultPendingTTL
	if ttlStr := os.Getenv("PENDING_TTL_SECONDS"); ttlStr != "" {
		if s, err := strconv.Atoi(ttlStr); err == nil && s > 0 {
			cfg.PendingTTL = time.Duration(s) * time.Second
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.TelegramBotToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN is required")
	}

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if c.WebhookURL != "" {
		if u, err := url.Parse(c.WebhookURL); err != nil || u.Scheme != "https" {
			errs = append(errs, "WEBHOOK_URL must be a valid https URL")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// WebhookEnabled reports whether the bot should run as a webhook
// instead of long polling.
func (c *Config) WebhookEnabled() bool {
	return c.WebhookURL != ""
}
