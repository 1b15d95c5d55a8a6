package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vv-overseas/edu-admin/internal/app/auditworker"
	"github.com/vv-overseas/edu-admin/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting audit worker", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := auditworker.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize audit worker", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("audit worker stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("audit worker stopped gracefully")
}
