package log

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// Format selects the log output encoding.
type Format string

const (
	// FormatConsole writes colored, human readable lines.
	FormatConsole Format = "console"
	// FormatText writes logfmt style key=value lines.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
)

// Options configures New.
type Options struct {
	// Verbose lowers the level from Warn to Debug.
	Verbose bool

	// Format defaults to FormatConsole.
	Format Format

	// NoColor disables ANSI colors for the console format.
	NoColor bool
}

// Level returns the slog level implied by the options.
func (o Options) Level() slog.Level {
	if o.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// New creates a logger writing to w. Sensitive values are always masked.
func New(w io.Writer, opts Options) *slog.Logger {
	var handler slog.Handler
	switch opts.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level()})
	case FormatText:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: opts.Level()})
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      opts.Level(),
			TimeFormat: time.Kitchen,
			NoColor:    opts.NoColor,
		})
	}
	return slog.New(NewSecureHandler(handler))
}

// NewSecureLogger returns a console logger for w.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return New(w, Options{Verbose: verbose})
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
