package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger represents application logger.
type Logger struct {
	*slog.Logger
}

// New creates new Logger instance writing text records to stdout.
func New(level int) *Logger {
	return NewWithWriter(os.Stdout, level, false)
}

// NewWithWriter creates a Logger writing to w, as JSON when json is set.
func NewWithWriter(w io.Writer, level int, json bool) *Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(level)}
	if json {
		return &Logger{Logger: slog.New(slog.NewJSONHandler(w, opts))}
	}
	return &Logger{Logger: slog.New(slog.NewTextHandler(w, opts))}
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("component", name))}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
