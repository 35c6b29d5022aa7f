package impulse

import (
	"context"
	"io"
	"log/slog"
)

// LevelTrace is below slog.LevelDebug and covers per-iteration solver records.
const LevelTrace = slog.LevelDebug - 4

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger replaces the package logger. A nil logger silences the package.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = l
}

func tracing() bool {
	return logger.Enabled(context.Background(), LevelTrace)
}

func traceLog(msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}
