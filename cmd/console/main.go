package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/apiclient"
	"github.com/stemsi/exstem-console/internal/config"
	"github.com/stemsi/exstem-console/internal/console"
	"github.com/stemsi/exstem-console/internal/logger"
	"github.com/stemsi/exstem-console/internal/middleware"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ConsolePort).
		Str("api", cfg.APIBaseURL).
		Str("timezone", cfg.Location.String()).
		Msg("Starting ExStem console")

	// ─── API Client ────────────────────────────────────────────────────
	client := apiclient.NewClient(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(log),
	)

	// ─── Console Handler & Sessions ────────────────────────────────────
	h := console.NewHandler(client, console.Settings{
		PageSize:        cfg.PageSize,
		ExamChoiceLimit: cfg.ExamChoiceLimit,
		CreatedBy:       cfg.ConsoleUserID,
		Location:        cfg.Location,
	}, log)

	store := console.NewStore(cfg.SessionTTL, h.NewWorkspace, log)
	if err := store.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule session sweep")
	}
	defer store.Stop()

	// ─── Setup Router ──────────────────────────────────────────────────
	r, err := console.NewRouter(h, store, middleware.NewMetrics("exstem_console"), cfg.GinMode)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build console router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ConsolePort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ConsolePort).Msg("Console listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
