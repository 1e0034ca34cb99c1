package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/sweepbot/internal/api"
	"github.com/mcoot/sweepbot/internal/factory"
	"github.com/mcoot/sweepbot/internal/web"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := factory.ConfigFromEnv(logger)
	if err != nil {
		return err
	}
	serverConfig, err := api.ServerConfigFromEnv()
	if err != nil {
		return err
	}

	app, err := factory.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(api.RouterConfig{
		Logger:    logger,
		Minefield: app.Minefield,
	}))
	mux.Handle("/metrics", app.Metrics.Handler())
	mux.Handle("/", web.NewRouter(web.RouterConfig{
		Logger:    logger,
		Minefield: app.Minefield,
	}))

	return api.NewServer(mux, serverConfig, logger).Run(ctx)
}
