// cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/opd-ai/go-starcruiser/pkg/config"
	"github.com/opd-ai/go-starcruiser/pkg/engine"
	"github.com/opd-ai/go-starcruiser/pkg/event"
	"github.com/opd-ai/go-starcruiser/pkg/health"
	"github.com/opd-ai/go-starcruiser/pkg/logging"
	"github.com/opd-ai/go-starcruiser/pkg/network"
	"github.com/opd-ai/go-starcruiser/pkg/resource"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON configuration file")
	writeDefault := flag.String("default", "", "Write the default configuration to this path and exit")
	flag.Parse()

	ctx := context.Background()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.NewLogger("info").Error(ctx, "Failed to load .env file", err)
		os.Exit(1)
	}

	if *writeDefault != "" {
		if err := saveDefaultConfig(*writeDefault); err != nil {
			logging.NewLogger("info").Error(ctx, "Failed to create default configuration", err,
				"config_path", *writeDefault,
			)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.NewLogger("info").Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel)
	if err := run(cfg, logger); err != nil {
		logger.Error(ctx, "Server stopped with error", err)
		os.Exit(1)
	}
}

func saveDefaultConfig(path string) error {
	data, err := json.MarshalIndent(config.Default(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func run(cfg *config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game, err := engine.NewGame(cfg.Game, logger, event.NewEventBus())
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	server := network.NewServer(game, cfg, logger)

	resources := resource.NewResourceManager(resource.Options{
		MaxMemoryMB:     int64(cfg.Health.MaxMemoryMB),
		CheckInterval:   cfg.Health.CheckInterval,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)
	if err := resources.Start(); err != nil {
		return err
	}

	checker := health.NewHealthChecker()
	checker.AddCheck(health.NewGameLoopHealthCheck(game.LastTick, cfg.Health.MaxTickAge))
	checker.AddCheck(health.NewNetworkHealthCheck(server.Listening))
	checker.AddCheck(resource.NewResourceHealthCheck(resources))

	tasks, cancel := context.WithCancel(ctx)
	defer cancel()

	resources.Go(tasks, "game", game.Run)
	resources.Go(tasks, "ticker", func(ctx context.Context) error {
		return game.RunTicker(ctx, cfg.Game.TickInterval)
	})
	resources.Go(tasks, "network", server.ListenAndServe)
	resources.Go(tasks, "health", func(ctx context.Context) error {
		return serveHealth(ctx, fmt.Sprintf(":%d", cfg.Server.HealthPort), checker.Handler(), logger)
	})

	logger.Info(ctx, "Starting server",
		"address", cfg.Server.Address,
		"health_port", cfg.Server.HealthPort,
		"tick_interval", cfg.Game.TickInterval,
		"checks", checker.Names(),
	)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info(context.Background(), "Shutting down server")
	case failure := <-resources.Failed():
		runErr = failure
	}

	cancel()
	if err := resources.Shutdown(context.Background()); err != nil {
		logger.Error(context.Background(), "Shutdown incomplete", err)
	}
	return runErr
}

func serveHealth(ctx context.Context, addr string, handler http.Handler, logger *logging.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Starting health check server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("health check server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("health check server shutdown: %w", err)
	}
	return nil
}
