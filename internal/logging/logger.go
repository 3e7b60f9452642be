// Package logging configures the process-wide zerolog logger for Sidekick.
// Console output goes to stderr via a human-readable writer; an optional
// file sink receives the same events as JSON for persistent debugging.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures logger construction.
type Options struct {
	// Level is the minimum level to emit ("debug", "info", "warn", "error").
	Level string
	// File is an optional path for a JSON log file. Empty disables it.
	File string
	// NoColor disables colored console output.
	NoColor bool
}

// New builds a logger from options. A bad level string falls back to info
// rather than failing; a file that cannot be opened is an error because the
// caller asked for persistence.
func New(opts Options) (zerolog.Logger, error) {
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    opts.NoColor,
	}

	var w io.Writer = console
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return zerolog.Nop(), fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("open log file: %w", err)
		}
		w = zerolog.MultiLevelWriter(console, f)
	}

	logger := zerolog.New(w).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()

	return logger, nil
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
