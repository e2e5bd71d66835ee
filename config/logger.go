package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates the JSON logger used across the portal
func NewLogger(level string) *slog.Logger {
	return newLogger(os.Stdout, level)
}

// NewLoggerTo creates the same logger writing to w
func NewLoggerTo(w io.Writer, level string) *slog.Logger {
	return newLogger(w, level)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLogLevel(level)})
	return slog.New(handler)
}

// ParseLogLevel maps LOG_LEVEL values to slog levels, defaulting to info
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
