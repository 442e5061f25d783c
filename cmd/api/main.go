// Package main is the entry point for the manse API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heeguso/manse-api/internal/api"
	"github.com/heeguso/manse-api/internal/config"
	"github.com/heeguso/manse-api/internal/database"
	"github.com/heeguso/manse-api/internal/logger"
	"github.com/heeguso/manse-api/internal/solarterm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.Setup(cfg)

	log.Info("starting manse API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
	)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// Built-in KASI data plus any terms persisted by termgen or the admin
	// endpoint. Seeding happens before the server accepts traffic, so the
	// locator's in-memory table is effectively read-only afterwards.
	locator := solarterm.NewLocator(solarterm.KASITable(), solarterm.MeeusEphemeris{})
	stored, err := db.ListSolarTerms(ctx)
	if err != nil {
		return fmt.Errorf("load stored solar terms: %w", err)
	}
	for _, rec := range stored {
		locator.Seed(rec.Year, rec.Degree, rec.Time)
	}
	log.Info("solar term store loaded", slog.Int("stored_terms", len(stored)))

	handlers := api.NewHandlers(db, locator, cfg, log)
	router := api.SetupRoutes(handlers, cfg, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
