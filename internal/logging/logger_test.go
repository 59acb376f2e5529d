package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cadvision/internal/config"
)

func TestBuild_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := Build(config.LoggingConfig{Level: "info", Format: "json"}, false, zapcore.AddSync(&buf))
	require.NoError(t, err)

	For(l, CategoryExtractor).Info("extraction written", zap.String("run_id", "r1"))
	l.Debug("hidden")
	require.NoError(t, l.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "extractor", entry["logger"])
	assert.Equal(t, "r1", entry["run_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestBuild_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	l, err := Build(config.LoggingConfig{Level: "error", Format: "console"}, true, zapcore.AddSync(&buf))
	require.NoError(t, err)

	l.Debug("model call started")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "model call started")
}

func TestBuild_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := Build(config.LoggingConfig{Level: "warn"}, false, zapcore.AddSync(&buf))
	require.NoError(t, err)

	l.Info("quiet")
	l.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestBuild_Invalid(t *testing.T) {
	_, err := Build(config.LoggingConfig{Level: "chatty"}, false, zapcore.AddSync(&bytes.Buffer{}))
	assert.Error(t, err)

	_, err = Build(config.LoggingConfig{Format: "xml"}, false, zapcore.AddSync(&bytes.Buffer{}))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, l)
}

func TestFor_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() { For(nil, CategoryCAD).Info("ok") })
}
