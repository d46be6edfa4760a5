// ABOUTME: Tests for logger construction
// ABOUTME: Covers level parsing, JSON output, and the colorized text handler

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/maze-gateway/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LoggingConfig{Level: "info", Format: "json"})

	logger.With("component", "store").Info("maze initialized", "maze", "m1")
	logger.Debug("dropped")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "maze initialized", rec["msg"])
	assert.Equal(t, "store", rec["component"])
	assert.Equal(t, "m1", rec["maze"])
}

func TestNew_Text(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	logger := New(&buf, config.LoggingConfig{Level: "debug", Format: "text"})

	logger.With("component", "gateway").Warn("upstream failed", "status", 502)
	logger.WithGroup("req").Debug("served", "id", "abc")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "WRN upstream failed")
	assert.Contains(t, lines[0], " component=gateway")
	assert.Contains(t, lines[0], " status=502")
	assert.Contains(t, lines[1], "DBG served")
	assert.Contains(t, lines[1], " req.id=abc")
}

func TestNew_TextLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LoggingConfig{Level: "error", Format: "text"})

	logger.Info("quiet")
	logger.Warn("quiet")
	assert.Empty(t, buf.String())
}
