// Package main is the entry point for the personal finance Telegram bot.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pagatodo/finanzas-bot/internal/bot"
	"github.com/pagatodo/finanzas-bot/internal/config"
	"github.com/pagatodo/finanzas-bot/internal/database"
	"github.com/pagatodo/finanzas-bot/internal/logger"
	"github.com/pagatodo/finanzas-bot/internal/observability"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("finanzas-bot %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)
	if cfg.WebhookEnabled() {
		logger.SetJSON()
	}

	shutdownTelemetry, err := observability.Setup(ctx, "finanzas-bot", version)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to set up telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Log.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Log.Info().Msg("Database initialized successfully")

	telegramBot, err := bot.New(cfg, pool)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create bot")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")
		cancel()
	}()

	if cfg.WebhookEnabled() {
		runWebhook(ctx, cfg, telegramBot)
		return
	}
	telegramBot.Start(ctx)
}

// runWebhook serves Telegram updates over HTTP until ctx is canceled.
func runWebhook(ctx context.Context, cfg *config.Config, telegramBot *bot.Bot) {
	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           telegramBot.WebhookHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	go func() {
		if err := telegramBot.StartWebhook(ctx); err != nil {
			logger.Log.Error().Err(err).Msg("Webhook processing stopped")
		}
	}()

	logger.Log.Info().Str("addr", addr).Msg("Listening for webhook updates")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal().Err(err).Msg("Webhook server failed")
	}
}
