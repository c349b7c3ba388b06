// Package logging builds the structured logger of a run.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a logger writing to w. Format is "json" or "text".
// Verbosity 0 logs errors only, 1 adds info and 2 adds debug messages with
// their source location.
func NewLogger(w io.Writer, format string, verbosity int) *slog.Logger {
	level := Level(verbosity)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler

	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Level converts a verbosity count to a slog level.
func Level(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelError
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

// OpenJournal opens the journal file for appending, or returns stderr for
// an empty path. Closing the stderr journal is a no-op.
func OpenJournal(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{Writer: os.Stderr}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	return f, nil
}
