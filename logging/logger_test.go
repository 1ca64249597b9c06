package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.level.String())
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(LevelInfo, "json", &buf)

	logger.Info("hello", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestNewWithWriterLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(LevelError, "text", &buf)

	logger.Debug("drop me")
	logger.Info("drop me too")
	assert.Empty(t, buf.String())

	logger.Error("keep me")
	assert.Contains(t, buf.String(), "keep me")
}

func TestLogModelCall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(LevelInfo, "text", &buf)

	LogModelCall(logger, "gpt-4o", 10*time.Millisecond, nil)
	assert.Contains(t, buf.String(), "model call completed")

	buf.Reset()
	LogModelCall(logger, "gpt-4o", 10*time.Millisecond, errors.New("boom"))
	assert.Contains(t, buf.String(), "model call failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestLogToolCall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(LevelInfo, "text", &buf)

	LogToolCall(logger, "comedian", time.Millisecond, nil)
	assert.Contains(t, buf.String(), "tool call completed")

	buf.Reset()
	LogToolCall(logger, "comedian", time.Millisecond, errors.New("nope"))
	assert.Contains(t, buf.String(), "tool call failed")
}

func TestNoOpLoggerDoesNothing(t *testing.T) {
	var l Logger = NoOpLogger{}
	l.Debug("a")
	l.Info("b")
	l.Warn("c")
	l.Error("d")
}
