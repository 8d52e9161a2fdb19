package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/olive/canteen/config"
	"github.com/olive/canteen/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	bootstrap.SetLogLevel(cfg.SlogLevel())
	logStartupInfo(ctx, logger, &cfg)

	app, err := bootstrap.BuildApp(ctx, bootstrap.AppOptions{Config: &cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close application resources failed", "error", cerr)
		}
	}()

	srv := bootstrap.NewHTTPServer(cfg.HTTP, app.Handler)
	return bootstrap.Serve(ctx, srv, cfg.HTTP.ShutdownTimeout, logger)
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting olive canteen portal",
		"addr", cfg.HTTP.Addr,
		"base_url", cfg.HTTP.BaseURL,
		"dev", cfg.IsDev,
		"auth_mode", cfg.Auth.Mode,
		"state_store", cfg.Auth.StateStore,
		"metrics_enabled", cfg.Observability.Metrics.IsEnabled(),
	)
}
