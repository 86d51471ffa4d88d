// Package logging builds the zerolog logger used across the CLI.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w.
// Debug enables debug level; otherwise only warnings and errors are shown.
func New(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	cw := zerolog.NewConsoleWriter()
	cw.Out = w
	cw.TimeFormat = time.DateTime
	cw.NoColor = true

	return zerolog.New(cw).
		Level(level).
		With().
		Timestamp().
		Logger()
}
