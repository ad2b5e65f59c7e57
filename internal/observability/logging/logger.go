package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the client logger. Interactive commands want
// human-readable text on stderr so log lines never interleave with
// rendered output on stdout; json suits piping into a collector.
func NewLogger(service, level, format string) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler).With("service", service)
}

// NewNopLogger discards everything. For tests and for commands that
// must keep the terminal clean.
func NewNopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) slog.Level {
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
