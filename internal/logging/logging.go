// Package logging builds the console slog.Logger shared by all components.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New creates a text slog.Logger honoring the configured level string.
// Unknown values default to info so production runs stay quiet.
func New(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromString(level),
	})
	return slog.New(handler)
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
