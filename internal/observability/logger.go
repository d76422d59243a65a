// Package observability provides the structured logger and Prometheus
// metrics shared across a compilation pass.
package observability

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds a slog.Logger writing to stderr in the configured
// format ("json" or "text") at the configured level. Unknown levels fall
// back to info.
func NewLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.ToLower(format) == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
