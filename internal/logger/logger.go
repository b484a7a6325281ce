package logger

import (
	"io"
	"log/slog"
)

// New builds the JSON logger used by every host. Unknown levels fall back to info.
func New(out io.Writer, level string) *slog.Logger {
	var lvl slog.Level

	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl}))
}
