// Package logger builds the structured logger shared across the engine
// and its ambient wiring.
package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON structured logger writing to stdout at the given
// level ("debug", "info", "warn", "error"; unrecognized values fall back
// to info).
func New(level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
