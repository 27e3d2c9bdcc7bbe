// Package logging builds the zerolog loggers handed to every component.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// New returns a logger writing to w at level. pretty selects the console
// writer for terminals; otherwise one JSON object is written per line.
// An unknown level falls back to info.
func New(level string, w io.Writer, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: noColor(w)}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Component derives a child logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// noColor is true unless w is a terminal.
func noColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}
