package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/interview-ai/datasheet-ui/config"
	"github.com/interview-ai/datasheet-ui/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger(slog.LevelInfo)
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
	logger = bootstrap.InitLogger(cfg.Logging.SlogLevel())

	logStartupInfo(ctx, logger, &cfg)

	sink, closeSink := bootstrap.NewMetricsSink(ctx, cfg.Metrics, logger)
	defer func() {
		if cerr := closeSink(); cerr != nil {
			logger.ErrorContext(ctx, "close metrics sink failed", "error", cerr)
		}
	}()

	return bootstrap.RunHTTPServer(ctx, &bootstrap.HTTPServerConfig{
		Config:  &cfg,
		Metrics: sink,
		Logger:  logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting datasheet web frontend",
		"addr", cfg.HTTP.Addr,
		"api_base_url", cfg.API.ResolvedBaseURL(),
		"dev", cfg.IsDev,
		"metrics", cfg.Metrics.IsEnabled())
}
