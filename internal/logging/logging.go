// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger setup.
type Options struct {
	Verbose bool
	// File, when set, receives a copy of every record and is rotated by size.
	File string
}

// Setup installs a text handler on stderr, teeing to a rotating file when
// opts.File is set. The returned closer releases the file.
func Setup(opts Options) io.Closer {
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
		}
		out = io.MultiWriter(os.Stderr, rotator)
		closer = rotator
	}
	slog.SetDefault(slog.New(NewHandler(out, opts.Verbose)))
	return closer
}

// NewHandler returns the text handler used by Setup.
func NewHandler(w io.Writer, verbose bool) slog.Handler {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
