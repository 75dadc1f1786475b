// Package logging builds the slog logger shared by the client, the
// controllers and the dev server.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// LookupLevel maps a level name, case-insensitively, to its slog level.
func LookupLevel(s string) (slog.Level, bool) {
	level, ok := levels[strings.ToLower(strings.TrimSpace(s))]
	return level, ok
}

// ParseLevel is LookupLevel with info for unknown names.
func ParseLevel(s string) slog.Level {
	if level, ok := LookupLevel(s); ok {
		return level
	}
	return slog.LevelInfo
}

// New returns a logger writing to stderr.
func New(level string, json bool) *slog.Logger {
	return NewWithWriter(os.Stderr, level, json)
}

// NewWithWriter returns a logger writing text or JSON records to w.
func NewWithWriter(w io.Writer, level string, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
