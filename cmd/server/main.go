package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/crystalclicker/internal/api"
	"github.com/mcoot/crystalclicker/internal/config"
	"github.com/mcoot/crystalclicker/internal/factory"
	"github.com/mcoot/crystalclicker/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ./crystal.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// Set up logging
	logger, syncLogs, err := logging.Open(logging.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		Output:   cfg.Log.Output,
		FilePath: cfg.Log.FilePath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "set up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = syncLogs() }()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		_ = syncLogs()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	balance, err := config.LoadBalance(cfg.BalancePath)
	if err != nil {
		return err
	}

	// Create application factory
	app, err := factory.New(factory.FromServerConfig(cfg, balance, logger))
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("closing storage", slog.String("error", err.Error()))
		}
	}()

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", app.Router())
	mux.Handle("/metrics", app.Metrics.Handler())

	server := api.NewServer(mux, cfg.Server, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
