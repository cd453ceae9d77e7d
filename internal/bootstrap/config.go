package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/interview-ai/datasheet-ui/config"
)

// InitLogger initializes the structured logger and installs it as the default.
func InitLogger(level slog.Level) *slog.Logger {
	return InitLoggerTo(os.Stdout, level)
}

// InitLoggerTo is InitLogger writing JSON lines to w.
func InitLoggerTo(w io.Writer, level slog.Level) *slog.Logger {
	return setDefaultLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// InitTextLoggerTo installs a human-readable logger on w, for terminal tools.
func InitTextLoggerTo(w io.Writer, level slog.Level) *slog.Logger {
	return setDefaultLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func setDefaultLogger(h slog.Handler) *slog.Logger {
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}
