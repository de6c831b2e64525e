package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeClose(t *testing.T) {
	t.Run("closes a file without logging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		f, err := os.Create(filepath.Join(t.TempDir(), "paths.json"))
		require.NoError(t, err)

		SafeCloseWithLogging(f, logger, "write_paths")

		assert.Empty(t, buf.String())
	})

	t.Run("logs error when close fails", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(&errorCloser{err: assert.AnError}, logger, "http_response_body")

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to close resource"`)
		assert.Contains(t, output, `"operation":"http_response_body"`)
	})

	t.Run("nil closer", func(t *testing.T) {
		assert.NotPanics(t, func() { SafeCloseWithLogging(nil, nil, "noop") })
	})
}

func TestHandleDeferredError(t *testing.T) {
	t.Run("reports a deferred failure when the function succeeded", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		testFunc := func() (err error) {
			defer HandleDeferredError(&err, func() error {
				return assert.AnError
			}, logger, "close_output")
			return nil
		}

		err := testFunc()
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "close_output failed")

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"deferred operation failed"`)
	})

	t.Run("preserves original error when deferred operation also fails", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		originalError := assert.AnError
		testFunc := func() (err error) {
			defer HandleDeferredError(&err, func() error {
				return os.ErrClosed
			}, logger, "close_output")
			return originalError
		}

		err := testFunc()
		assert.Equal(t, originalError, err)
		assert.Contains(t, buf.String(), `"msg":"deferred operation failed"`)
	})
}

type errorCloser struct {
	err error
}

func (e *errorCloser) Close() error {
	return e.err
}
