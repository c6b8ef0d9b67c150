// Package logger wraps log/slog with the level/format/output selection
// this server's config exposes, so every package logs through one
// consistently configured sink. Adapted from the teacher's
// pkg/logger/logger.go.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger so call sites use the familiar
// Info/Warn/Error/Debug API without importing slog directly.
type Logger struct {
	*slog.Logger
}

// Config selects level, output format, and destination.
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "text", "json"
	Output string // "stdout", "file"
	File   string // path to log file, when Output == "file"
}

var globalLogger *Logger

// New builds a Logger from config.
func New(config Config) *Logger {
	var level slog.Level
	switch strings.ToLower(config.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	writer := os.Stdout
	if config.Output == "file" && config.File != "" {
		if f, err := os.OpenFile(config.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			writer = f
		}
	}

	var handler slog.Handler
	if strings.ToLower(config.Format) == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	l := &Logger{Logger: slog.New(handler)}
	if globalLogger == nil {
		globalLogger = l
	}
	return l
}

// Global returns the process-wide logger, defaulting to info/text/stdout
// if none has been installed yet.
func Global() *Logger {
	if globalLogger == nil {
		return New(Config{Level: "info", Format: "text"})
	}
	return globalLogger
}

// SetGlobal installs l as the process-wide logger.
func SetGlobal(l *Logger) {
	globalLogger = l
}
