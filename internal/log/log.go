// Package log provides constructors for zerolog loggers that write to a
// caller-chosen io.Writer, so a caller can pass a buffer-backed logger in
// tests. The constructors do not touch zerolog's global logger.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console-formatted logger writing to w, matching the
// teacher's CLI banner style (human-readable timestamps, colorized level
// tags; color is not turned off for non-terminal destinations).
func New(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(console).With().Timestamp().Logger()
}

// NewJSON returns a structured JSON logger, for non-interactive hosts
// (containers, systemd units) that ship logs to an aggregator rather than
// a human terminal.
func NewJSON(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).With().Timestamp().Logger()
}

// Default returns New(os.Stderr), the logger used when no explicit
// destination is configured.
func Default() zerolog.Logger {
	return New(os.Stderr)
}
