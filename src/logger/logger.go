package logger

import (
	"log/slog"
	"os"
	"strings"
)

var L *slog.Logger // Global logger instance

// InitLogger initializes the global logger.
// Call this once at application startup, after loading config.
func InitLogger(logLevelStr string) {
	var level slog.Level
	switch strings.ToLower(logLevelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		slog.Warn("Invalid LOG_LEVEL specified, defaulting to INFO", "configuredLevel", logLevelStr)
	}

	// Use JSON handler for structured logs
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	// For local development, TextHandler might be more readable:
	// handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	L = slog.New(handler)

	slog.SetDefault(L)
	L.Debug("Logger initialized", "level", level.String())
}
