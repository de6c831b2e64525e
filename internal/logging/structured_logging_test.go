package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("creates JSON logger with proper configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("minute pruned",
			slog.String("component", "raptor"),
			slog.Int("minute", 29100))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"minute pruned"`)
		assert.Contains(t, output, `"component":"raptor"`)
		assert.Contains(t, output, `"minute":29100`)
		assert.Contains(t, output, `"time":`)
	})

	t.Run("respects log level configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warning message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warning message")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{name: "debug", want: slog.LevelDebug},
		{name: "INFO", want: slog.LevelInfo},
		{name: "", want: slog.LevelInfo},
		{name: "warn", want: slog.LevelWarn},
		{name: "warning", want: slog.LevelWarn},
		{name: "error", want: slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLevel(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}

	_, err := ParseLevel("verbose")
	assert.ErrorContains(t, err, `unknown log level "verbose"`)
}

func TestLoggerHelpers(t *testing.T) {
	t.Run("LogError creates structured error log", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "failed to load feed", assert.AnError,
			slog.String("source", "http://example.com/gtfs.zip"),
			slog.String("component", "gtfs_loader"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to load feed"`)
		assert.Contains(t, output, `"error":"assert.AnError general error for testing"`)
		assert.Contains(t, output, `"source":"http://example.com/gtfs.zip"`)
		assert.Contains(t, output, `"component":"gtfs_loader"`)
	})

	t.Run("LogOperation skips zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "raptor_search",
			slog.String("direction", "forward"),
			slog.Int("paths", 3),
			slog.Duration("duration", 0))

		output := buf.String()
		assert.Contains(t, output, `"msg":"raptor_search"`)
		assert.Contains(t, output, `"direction":"forward"`)
		assert.Contains(t, output, `"paths":3`)
		assert.NotContains(t, output, `"duration"`)
	})

	t.Run("LogOperation keeps non-zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "gtfs_model_loaded", slog.Duration("duration", time.Second))

		assert.Contains(t, buf.String(), `"duration":1000000000`)
	})

	t.Run("nil logger is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogError(nil, "ignored", assert.AnError)
			LogOperation(nil, "ignored")
		})
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("stores and retrieves logger from context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		ctx := WithLogger(context.Background(), logger)
		retrievedLogger := FromContext(ctx)
		require.NotNil(t, retrievedLogger)

		retrievedLogger.Info("test from context")
		assert.Contains(t, buf.String(), "test from context")
	})

	t.Run("returns default logger when not in context", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		assert.Same(t, slog.Default(), logger)
	})
}

func TestFatalError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelError)

	err := FatalError(logger, "unable to load transit model", assert.AnError)

	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "unable to load transit model")

	output := buf.String()
	assert.Contains(t, output, `"level":"ERROR"`)
	assert.Contains(t, output, `"msg":"unable to load transit model"`)
}
