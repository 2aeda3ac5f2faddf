package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ParseLogLevel converts a configured level name to a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q, allowed: debug, info, warn, error", level)
	}
}

// SetupLogger builds the process logger and installs it as the slog default.
// Unknown levels fall back to info; "text" selects the text handler, anything
// else emits JSON.
func SetupLogger(cfg LogConfig) *slog.Logger {
	level, err := ParseLogLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") || strings.EqualFold(cfg.Format, "console") {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	if err != nil {
		logger.Warn("falling back to info log level", slog.String("error", err.Error()))
	}
	slog.SetDefault(logger)
	return logger
}
