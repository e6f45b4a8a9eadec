package app

import (
	"io"
	"log/slog"

	"github.com/vk/nne/internal/config"
)

// newLogger creates a slog.Logger whose level is controlled by level. It does
// not set the global logger, allowing for isolated logger instances.
func newLogger(level *slog.LevelVar, formatStr string, outW io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}

// slogLevel maps a normalized level name to its slog.Level.
func slogLevel(levelStr string) slog.Level {
	switch levelStr {
	case config.LevelDebug:
		return slog.LevelDebug
	case config.LevelWarn:
		return slog.LevelWarn
	case config.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
