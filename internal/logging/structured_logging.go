package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
)

// loggerKey is used to store the logger in context
type loggerKey struct{}

// NewStructuredLogger creates a new structured logger with JSON output
func NewStructuredLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler)
}

// ParseLevel maps a configured level name to a slog level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
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

// LogError logs err at error level under message with attrs appended.
func LogError(logger *slog.Logger, message string, err error, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), slog.LevelError, message,
		append([]slog.Attr{slog.String("error", err.Error())}, attrs...)...)
}

// LogOperation logs a completed operation at info level. A zero
// "duration" attribute is dropped.
func LogOperation(logger *slog.Logger, operation string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	attrs = slices.DeleteFunc(slices.Clone(attrs), func(attr slog.Attr) bool {
		return attr.Key == "duration" && attr.Value.Kind() == slog.KindDuration && attr.Value.Duration() == 0
	})
	logger.LogAttrs(context.Background(), slog.LevelInfo, operation, attrs...)
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retrieves a logger from the context, or returns a default logger
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return slog.Default()
}

// FatalError logs err at error level and returns it wrapped with message,
// so commands exit through their error return instead of log.Fatal
func FatalError(logger *slog.Logger, message string, err error) error {
	LogError(logger, message, err)
	return fmt.Errorf("%s: %w", message, err)
}
