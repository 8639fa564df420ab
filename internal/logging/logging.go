// Package logging configures the diagnostic logger. Diagnostic output is
// separate from the results transcript and goes to stderr.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// RunIDField is the field holding the run identifier.
const RunIDField = "run"

// New creates a logger writing to w. Unknown levels fall back to info and
// any format other than json is rendered for humans.
func New(levelStr, formatStr string, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if formatStr != FormatJSON {
		out = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.TimeOnly}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// WithRunID tags every entry of logger with a fresh run identifier.
func WithRunID(logger zerolog.Logger) (zerolog.Logger, string) {
	id := ulid.Make().String()
	return logger.With().Str(RunIDField, id).Logger(), id
}

// ValidLevel reports whether s names a zerolog level.
func ValidLevel(s string) bool {
	_, err := zerolog.ParseLevel(strings.ToLower(s))
	return err == nil && s != ""
}
