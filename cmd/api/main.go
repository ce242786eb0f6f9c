// Package main is the entry point for the rainbowfinder API server.
//
// It loads configuration, connects to Postgres, wires the weather and
// geocoding clients, and serves the HTTP API with graceful shutdown on
// SIGINT/SIGTERM.
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

	"rainbowfinder/internal/api"
	"rainbowfinder/internal/config"
	"rainbowfinder/internal/db"
	"rainbowfinder/internal/external"
	"rainbowfinder/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("rainbowfinder API starting",
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Database.URL.Unmask())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	extLogger := types.NewSlogLogger(logger)
	weather := external.NewOpenMeteoClient(
		&http.Client{Timeout: cfg.Weather.Timeout},
		cfg.Weather.BaseURL,
		extLogger,
	)
	geocoder := external.NewNominatimClient(
		&http.Client{Timeout: cfg.Geocoder.Timeout},
		cfg.Geocoder.BaseURL,
		extLogger,
	)

	srv, err := api.NewServer(api.ServerConfig{
		Weather:        weather,
		Geocoder:       geocoder,
		Users:          db.NewUserRepository(pool),
		Logger:         logger,
		ForecastHours:  cfg.Weather.ForecastHours,
		SearchRadiusKM: cfg.Predictor.SearchRadiusKM,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
