package logger

import (
	"log/slog"
	"os"
)

// Logger is the process-wide structured logger with JSON output.
var Logger *slog.Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	Logger = slog.New(handler)
}

// NewLogger returns a logger scoped to the given component.
func NewLogger(name string) *slog.Logger {
	return Logger.With("component", name)
}

// SetLevel replaces the process logger with one at the given level.
func SetLevel(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	Logger = slog.New(handler)
}
