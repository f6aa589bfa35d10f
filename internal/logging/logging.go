// Package logging wraps log/slog with the level/format/output configuration
// shape used across the project's host builds. Grounded on
// pony-zhang-go_control/internal/logging/logger.go.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Config controls the slog handler built by New.
type Config struct {
	Level     string `yaml:"level"`      // debug, info, warn, error
	Format    string `yaml:"format"`     // text, json
	AddSource bool   `yaml:"add_source"`
}

func DefaultConfig() Config {
	return Config{Level: "info", Format: "text"}
}

// New builds a *slog.Logger writing to stderr per cfg.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
