package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// SafeCloseWithLogging closes closer and logs a failure instead of
// returning it. Used for response bodies and feed files that were only read.
func SafeCloseWithLogging(closer io.Closer, logger *slog.Logger, operation string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		LogError(logger, "failed to close resource", err,
			slog.String("operation", operation),
			slog.String("component", "resource_management"))
	}
}

// HandleDeferredError runs deferredOp and, if it fails, logs the failure and
// stores it in *err unless *err already holds an error.
//
//	defer HandleDeferredError(&err, f.Close, logger, "close_output")
func HandleDeferredError(err *error, deferredOp func() error, logger *slog.Logger, operation string) {
	if deferredOp == nil {
		return
	}
	opErr := deferredOp()
	if opErr == nil {
		return
	}
	LogError(logger, "deferred operation failed", opErr,
		slog.String("operation", operation),
		slog.String("component", "deferred_cleanup"))
	if *err == nil {
		*err = fmt.Errorf("%s failed: %w", operation, opErr)
	}
}
