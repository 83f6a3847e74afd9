package logutil

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelTrace)
	Trace(context.Background(), logger, "enter", "rule", "expr")
	assert.Contains(t, buf.String(), "level=TRACE")
	assert.Contains(t, buf.String(), "rule=expr")
}

func TestTraceDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)
	Trace(context.Background(), logger, "enter")
	assert.Empty(t, buf.String())
	assert.False(t, TraceEnabled(context.Background(), nil))
	assert.False(t, TraceEnabled(context.Background(), Discard()))
}

func TestParseLevel(t *testing.T) {
	samples := map[string]slog.Level{
		"trace": LevelTrace,
		"DEBUG": slog.LevelDebug,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, level := range samples {
		l, e := ParseLevel(name)
		require.NoError(t, e)
		assert.Equal(t, level, l, name)
	}

	_, e := ParseLevel("loud")
	assert.Error(t, e)
}
