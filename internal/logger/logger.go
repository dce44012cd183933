package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init initializes the global logger with the specified level and format.
// Output goes to w, or stderr when w is nil; stdout is reserved for the
// check result.
func Init(level, format string, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	slogLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	format, err = ParseFormat(format)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)

	return defaultLogger, nil
}

// ParseLevel maps a level name onto a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level '%s': must be debug, info, warn, or error", level)
	}
}

// ParseFormat normalizes a handler format name.
func ParseFormat(format string) (string, error) {
	switch f := strings.ToLower(format); f {
	case "text", "json":
		return f, nil
	default:
		return "", fmt.Errorf("invalid log format '%s': must be text or json", format)
	}
}

// Get returns the global logger instance
func Get() *slog.Logger {
	if defaultLogger == nil {
		// Fallback to default logger if Init wasn't called
		defaultLogger = slog.Default()
	}
	return defaultLogger
}
