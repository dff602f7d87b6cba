// Package logging provides structured logging utilities.
//
// Text logs are written one line per record with colors on a terminal:
// [LEVEL] [SYSTEM] [HH:MM:SS] message key=value
//
// Format "json" switches to slog's JSON handler for log shippers.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/eshaffer321/saletrack/internal/infrastructure/config"
)

// NewLogger creates a structured logger writing to stdout
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	return NewLoggerTo(os.Stdout, cfg)
}

// NewLoggerTo creates a structured logger writing to w
func NewLoggerTo(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(NewConsoleHandler(w, opts))
}

// NewLoggerWithSystem creates a logger with a system prefix (e.g., "monitor", "ledger", "api")
func NewLoggerWithSystem(cfg config.LoggingConfig, system string) *slog.Logger {
	return NewLogger(cfg).With(systemKey, system)
}

// ParseLevel maps a config level name to a slog level, defaulting to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
