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

	"github.com/shopspring/decimal"

	"github.com/NgigiN/lomba17/internal/api"
	"github.com/NgigiN/lomba17/internal/auth"
	"github.com/NgigiN/lomba17/internal/config"
	"github.com/NgigiN/lomba17/internal/discord"
	"github.com/NgigiN/lomba17/internal/logger"
	"github.com/NgigiN/lomba17/internal/recorder"
	"github.com/NgigiN/lomba17/internal/storage"
	"github.com/NgigiN/lomba17/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, !cfg.IsProduction)
	decimal.MarshalJSONWithoutQuotes = true

	db, err := storage.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("failed to initialize the database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	opts := api.Options{
		Config: cfg,
		DB:     db,
		Issuer: auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiryDuration),
		Logger: log,
	}

	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize the telegram bot")
		}
		client := telegram.NewClient(bot)
		responder := recorder.NewResponder(recorder.New(db, recorder.TelegramChannel), client)
		dispatcher := telegram.NewDispatcher(responder, client, db.FinanceSummary)

		switch cfg.TelegramMode {
		case config.TelegramWebhook:
			opts.Telegram = dispatcher
			log.Info().Str("bot", bot.Self.UserName).Msg("telegram bot receiving updates by webhook")
		case config.TelegramPolling:
			go telegram.NewPoller(bot, dispatcher).Listen(ctx)
		}
	}

	if cfg.DiscordEnabled() {
		bot, err := discord.NewBot(cfg, db, db.FinanceSummary, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize the discord bot")
		}
		if err := bot.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start the discord bot")
		}
		defer bot.Stop()
		opts.Discord = bot
	}

	router, err := api.NewRouter(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
