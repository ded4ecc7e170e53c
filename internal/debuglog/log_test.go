package debuglog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelOff, "OFF"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.level.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{" info ", LevelInfo},
		{"WARN", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"off", LevelOff},
		{"none", LevelOff},
		{"INVALID", LevelOff},
		{"", LevelOff},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseLogLevel(tt.input), "input %q", tt.input)
	}
}

func TestSetupWithLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	require.NoError(t, Setup(LevelInfo, logPath))
	assert.Equal(t, LevelInfo, GetLevel())

	Debugf("debug message")
	Infof("info message")
	Warnf("warn message")
	Errorf("error message")

	require.NoError(t, Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	logContent := string(content)
	assert.NotContains(t, logContent, "debug message")
	assert.Contains(t, logContent, "info message")
	assert.Contains(t, logContent, "warn message")
	assert.Contains(t, logContent, "error message")
	assert.Contains(t, logContent, "level=info")
}

func TestSetupCreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "folio.log")

	require.NoError(t, Setup(LevelDebug, logPath))
	Debugf("hello %s", "dir")
	require.NoError(t, Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello dir")
}

func TestSetupWithLevelOff(t *testing.T) {
	require.NoError(t, Setup(LevelOff))
	assert.Equal(t, LevelOff, GetLevel())

	// No logger is installed, so these must be no-ops.
	Debugf("debug message")
	Infof("info message")
	WithFields(map[string]any{"k": "v"}).Errorf("error message")
	assert.NoError(t, Close())
}

func TestFieldLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "field_test.log")

	require.NoError(t, Setup(LevelDebug, logPath))
	defer Close()

	logger := WithFields(map[string]any{
		"component": "test",
		"action":    "testing",
	}).With("count", 42)

	logger.Infof("test message with fields")

	require.NoError(t, Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	logContent := string(content)
	assert.Contains(t, logContent, "test message with fields")
	assert.Contains(t, logContent, "component=test")
	assert.Contains(t, logContent, "action=testing")
	assert.Contains(t, logContent, "count=42")
}

func TestSetLevel(t *testing.T) {
	SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, GetLevel())

	SetLevel(LevelError)
	assert.Equal(t, LevelError, GetLevel())

	SetLevel(LevelOff)
	assert.Equal(t, LevelOff, GetLevel())
}
