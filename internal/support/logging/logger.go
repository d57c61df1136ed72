// Package logging builds the slog logger shared by every command.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Supported formats. Anything else selects JSON.
const (
	FormatJSON    = "json"
	FormatText    = "text"
	FormatDiscard = "discard"
)

// Options customize the slog logger construction.
type Options struct {
	Level     slog.Level
	Format    string
	AddSource bool
	// Output defaults to os.Stderr so stdout can carry the rendered document.
	Output io.Writer
}

// New returns a slog.Logger configured according to options (JSON by default).
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case FormatText, "console":
		handler = slog.NewTextHandler(out, handlerOpts)
	case FormatDiscard, "none":
		handler = slog.NewTextHandler(io.Discard, handlerOpts)
	default:
		handler = slog.NewJSONHandler(out, handlerOpts)
	}
	return slog.New(handler)
}
