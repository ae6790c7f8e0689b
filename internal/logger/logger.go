package logger

import (
	"log/slog"
	"os"

	"github.com/vnovel/novella/internal/config"
)

// Setup configures the global slog logger based on environment.
// Logs go to stderr so the player's terminal UI keeps stdout.
func Setup(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	if cfg.Environment == "production" {
		// JSON format for production
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		// Text format for development
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// WithScript adds the running script name to logger context
func WithScript(logger *slog.Logger, script string) *slog.Logger {
	return logger.With("script", script)
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
