package gtfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jamespfennell/gtfs"

	"github.com/karimhm/OpenTripPlanner/internal/logging"
	"github.com/karimhm/OpenTripPlanner/internal/transit"
	"github.com/karimhm/OpenTripPlanner/internal/utils"
)

var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// newBackOff is replaced in tests to avoid real sleeps.
var newBackOff = func() backoff.BackOff {
	return backoff.NewExponentialBackOff()
}

// LoadModel reads the feed named by config, parses it and builds the
// transit model for the configured service date.
func LoadModel(ctx context.Context, config Config, logger *slog.Logger) (*transit.Model, error) {
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	logger = logger.With(slog.String("component", "gtfs_loader"))
	start := time.Now()

	b, err := rawGtfsData(ctx, config, logger)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}

	serviceDate, err := utils.ParseServiceDate(config.ServiceDate, agencyLocation(staticData))
	if err != nil {
		return nil, fmt.Errorf("service date: %w", err)
	}

	model, err := BuildModel(staticData, Options{
		ServiceDate: serviceDate,
		WalkRadius:  config.WalkRadius,
		WalkSpeed:   config.WalkSpeed,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	stats := model.Stats()
	logging.LogOperation(logger, "gtfs_model_loaded",
		slog.String("source", config.Source),
		slog.String("service_date", serviceDate.Format("2006-01-02")),
		slog.Int("stops", stats.Stops),
		slog.Int("patterns", stats.Patterns),
		slog.Int("trips", stats.Trips),
		slog.Int("transfers", stats.Transfers),
		slog.Int("guaranteed_transfers", stats.GuaranteedTransfers),
		slog.Int("parse_warnings", len(staticData.Warnings)),
		slog.Duration("duration", time.Since(start)))

	return model, nil
}

func rawGtfsData(ctx context.Context, config Config, logger *slog.Logger) ([]byte, error) {
	if config.isLocalFile() {
		b, err := os.ReadFile(config.Source)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return b, nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), config.MaxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		logger.Warn("retrying GTFS download",
			slog.String("error", err.Error()),
			slog.Duration("wait", wait))
	}
	return backoff.RetryNotifyWithData(func() ([]byte, error) {
		return download(ctx, config, logger)
	}, policy, notify)
}

// download fetches the feed once. Client errors are permanent; server
// errors and throttling are retried.
func download(ctx context.Context, config Config, logger *slog.Logger) ([]byte, error) {
	if config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.RequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.Source, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	for key, value := range config.headers() {
		req.Header.Add(key, value)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, logger, "http_response_body")

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	default:
		return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status))
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS response: %w", err)
	}
	return b, nil
}

// agencyLocation is the timezone service dates are interpreted in, the
// same one the parser uses for calendar dates.
func agencyLocation(staticData *gtfs.Static) *time.Location {
	if len(staticData.Agencies) == 0 {
		return time.UTC
	}
	loc, err := time.LoadLocation(staticData.Agencies[0].Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
