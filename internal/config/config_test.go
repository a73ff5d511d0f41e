package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
}

func TestLoad(t *testing.T) {
	t.Run("loads required config from env", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "test-token", cfg.TelegramBotToken)
		require.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
	})

	t.Run("applies defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, DefaultDolarAPIBaseURL, cfg.DolarAPIBaseURL)
		require.Equal(t, DefaultPendingTTL, cfg.PendingTTL)
		require.Equal(t, 5*time.Second, cfg.ExchangeTimeout)
		require.Equal(t, "8080", cfg.Port)
		require.False(t, cfg.WebhookEnabled())
	})

	t.Run("overrides from env", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DOLAR_API_BASE_URL", "https://quotes.example.com")
		t.Setenv("EXCHANGE_TIMEOUT_SECONDS", "3")
		t.Setenv("PENDING_TTL_SECONDS", "90")
		t.Setenv("PORT", "9090")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "https://quotes.example.com", cfg.DolarAPIBaseURL)
		require.Equal(t, 3*time.Second, cfg.ExchangeTimeout)
		require.Equal(t, 90*time.Second, cfg.PendingTTL)
		require.Equal(t, "9090", cfg.Port)
		require.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("ignores invalid durations", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("EXCHANGE_TIMEOUT_SECONDS", "abc")
		t.Setenv("PENDING_TTL_SECONDS", "-5")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 5*time.Second, cfg.ExchangeTimeout)
		require.Equal(t, DefaultPendingTTL, cfg.PendingTTL)
	})

	t.Run("missing token fails", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "")
		t.Setenv("DATABASE_URL", "postgres://localhost/test")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
	})

	t.Run("missing database URL fails", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "token")
		t.Setenv("DATABASE_URL", "")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("webhook URL must be https", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("WEBHOOK_URL", "http://insecure.example.com/hook")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "WEBHOOK_URL")
	})

	t.Run("valid webhook URL enables webhook mode", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("WEBHOOK_URL", "https://bot.example.com/hook")

		cfg, err := Load()
		require.NoError(t, err)
		require.True(t, cfg.WebhookEnabled())
	})
}
