package debug

import (
	"context"
	"io"
	"log/slog"
)

var logger = slog.New(nopHandler{})

// SetOutput sets the debug output destination. A nil writer disables logging.
func SetOutput(w io.Writer) {
	if w == nil || w == io.Discard {
		logger = slog.New(nopHandler{})
		return
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Log writes a debug message with optional key/value attributes
func Log(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	return logger.Enabled(context.Background(), slog.LevelDebug)
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }
