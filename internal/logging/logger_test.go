package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torc-lang/torc/internal/config"
)

func TestNew_JSONFormat_InfoLevel(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "json"}

	logger := New(cfg)
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.logger)
}

func TestNew_TextFormat_DebugLevel(t *testing.T) {
	cfg := config.LoggingConfig{Level: "debug", Format: "text"}

	logger := New(cfg)
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.logger)
}

func TestNew_AllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			logger := New(config.LoggingConfig{Level: level, Format: "json"})
			assert.NotNil(t, logger)
		})
	}
}

func TestLogger_With_ChainedCalls(t *testing.T) {
	logger := New(config.LoggingConfig{Level: "info", Format: "json"})

	logger1 := logger.With("key1", "value1")
	logger2 := logger1.With("key2", "value2")

	assert.NotNil(t, logger1)
	assert.NotNil(t, logger2)
	assert.NotEqual(t, logger, logger1)
	assert.NotEqual(t, logger1, logger2)
}

func TestLogger_WithContext_Success(t *testing.T) {
	logger := New(config.LoggingConfig{Level: "info", Format: "json"})

	contextLogger := logger.WithContext(context.Background())
	assert.Equal(t, logger, contextLogger)
}

func TestLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "debug", "json")

	logger.Debug("test debug message")

	output := buf.String()
	assert.Contains(t, output, "test debug message")
	assert.Contains(t, output, "DEBUG")
}

func TestLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "info", "json")

	logger.Info("test info message")

	output := buf.String()
	assert.Contains(t, output, "test info message")
	assert.Contains(t, output, "INFO")
}

func TestLogger_Warn(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "warn", "json")

	logger.Warn("test warning message")

	output := buf.String()
	assert.Contains(t, output, "test warning message")
	assert.Contains(t, output, "WARN")
}

func TestLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "error", "json")

	logger.Error("test error message")

	output := buf.String()
	assert.Contains(t, output, "test error message")
	assert.Contains(t, output, "ERROR")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "warn", "json")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestLogger_InfoContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "info", "json")

	logger.InfoContext(context.Background(), "info with context")

	output := buf.String()
	assert.Contains(t, output, "info with context")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("unknown"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestDefault_ReturnsLogger(t *testing.T) {
	logger := Default()
	assert.NotNil(t, logger)
}

func TestSetDefault_Success(t *testing.T) {
	originalLogger := Default()

	newLogger := New(config.LoggingConfig{Level: "debug", Format: "text"})
	SetDefault(newLogger)

	assert.Equal(t, newLogger, Default())
	assert.NotEqual(t, originalLogger, Default())

	SetDefault(originalLogger)
}

func TestLogger_JSONFormat_ValidJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "info", "json")

	logger.Info("test message", "key", "value")

	var jsonData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &jsonData))
	assert.Equal(t, "INFO", jsonData["level"])
	assert.Equal(t, "test message", jsonData["msg"])
	assert.Equal(t, "value", jsonData["key"])
}

func TestLogger_Integration_CompleteFlow(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "debug", "json")

	logger.Debug("step 1", "action", "start")
	logger.Info("step 2", "action", "processing")
	logger.Warn("step 3", "action", "warning")
	logger.Error("step 4", "action", "error")

	output := buf.String()
	assert.Contains(t, output, "step 1")
	assert.Contains(t, output, "step 2")
	assert.Contains(t, output, "step 3")
	assert.Contains(t, output, "step 4")

	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Len(t, lines, 4)
}

func newTestLogger(buf *bytes.Buffer, level, format string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: level == "debug",
	}

	if format == "json" {
		handler = slog.NewJSONHandler(buf, opts)
	} else {
		handler = slog.NewTextHandler(buf, opts)
	}

	return &Logger{logger: slog.New(handler)}
}
