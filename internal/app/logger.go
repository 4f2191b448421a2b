package app

import (
	"io"
	"log/slog"
)

// levels maps the CLI's accepted log-level names onto slog levels.
var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger creates the App's isolated logger; it never touches the global
// default. An unknown level name falls back to warn, the CLI default: a
// build tool's stderr stays quiet unless something needs attention.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level, ok := levels[levelStr]
	if !ok {
		level = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(outW, handlerOpts))
}
