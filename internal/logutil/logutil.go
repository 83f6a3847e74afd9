// Package logutil builds slog loggers with an additional TRACE level.
package logutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

const LevelTrace slog.Level = -8

// NewLogger returns a text logger writing records of given level and above to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= LevelTrace,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				switch attr.Value.Any().(slog.Level) {
				case LevelTrace:
					attr.Value = slog.StringValue("TRACE")
				}
			case slog.SourceKey:
				if source, ok := attr.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			return attr
		},
	}))
}

// Discard returns a logger that drops all records.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// TraceEnabled reports whether the logger accepts TRACE records, nil logger accepts nothing.
func TraceEnabled(ctx context.Context, logger *slog.Logger) bool {
	return logger != nil && logger.Enabled(ctx, LevelTrace)
}

// Trace logs a TRACE record.
func Trace(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	if TraceEnabled(ctx, logger) {
		logger.Log(ctx, LevelTrace, msg, args...)
	}
}

// ParseLevel converts level name (trace, debug, info, warn, error) to slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}
