package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"warning", LogLevelWarn},
		{"Error", LogLevelError},
		{"loud", LogLevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.in), tt.in)
	}
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "UNKNOWN", LogLevel(9).String())
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf})

	l.Info("hidden")
	l.Warn("shown %d", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 1")

	// Derived loggers follow level changes of their parent.
	child := l.WithComponent("engine")
	l.SetLevel(LogLevelDebug)
	child.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
	assert.Contains(t, buf.String(), "component=engine")
}

func TestLoggerFieldsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf, JSON: true})
	l.WithFields(map[string]any{"note": "a.html", "line": 3}).Error("failed: %s", "boom")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "failed: boom", rec["msg"])
	assert.Equal(t, "a.html", rec["note"])
	assert.Equal(t, float64(3), rec["line"])
}

func TestNullLogger(t *testing.T) {
	assert.False(t, NullLogger.Enabled(LogLevelError))
	NullLogger.WithField("k", "v").Error("nothing")
	NullLogger.SetLevel(LogLevelDebug)
	assert.False(t, NullLogger.Enabled(LogLevelDebug))
}

func TestGlobalLogger(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	var buf bytes.Buffer
	SetLogger(NewLogger(LoggerConfig{Output: &buf}))
	GetLogger().Info("global")
	assert.True(t, strings.Contains(buf.String(), "global"))
}
