package raptor

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/karimhm/OpenTripPlanner/internal/logging"
	"github.com/karimhm/OpenTripPlanner/internal/transit"
	"github.com/karimhm/OpenTripPlanner/internal/utils"
)

// Service runs searches over one transit model. It holds no per-search
// state and is safe for concurrent use.
type Service struct {
	model    *transit.Model
	logger   *slog.Logger
	observer Observer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithObserver registers an observer for the lifecycle events of every
// search.
func WithObserver(observer Observer) Option {
	return func(s *Service) {
		s.observer = observer
	}
}

func NewService(model *transit.Model, opts ...Option) *Service {
	s := &Service{model: model, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Route runs a Range-RAPTOR search. Cancellation is checked between
// minutes; a cancelled search returns the paths of the minutes that
// finished with StatusCancelled. The only error is ErrInvalidRequest.
func (s *Service) Route(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if err := req.Validate(s.model); err != nil {
		return nil, err
	}
	w, err := newWorker(s.model, req, s.observer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	result := &Result{RequestID: uuid.NewString(), Direction: req.Direction}
	logger := s.logger.With(slog.String("request_id", result.RequestID))
	s.observer.notify(Event{Phase: PhaseInit})

	minutes := slices.Collect(w.calc.RangeRaptorMinutes())
	var cancelled bool
	if req.Tuning.Parallelism > 1 && len(minutes) > 1 {
		result.Minutes, cancelled = w.runParallel(ctx, minutes, req.Tuning.Parallelism)
	} else {
		result.Minutes, cancelled = w.runSequential(ctx, minutes)
	}

	result.Paths = mergePaths(result.Minutes)
	result.Stats = summarize(result.Minutes, len(minutes))
	result.Status = status(result.Minutes, cancelled)

	for _, m := range result.Minutes {
		if m.Pruned {
			logger.Debug("minute pruned",
				slog.String("minute", utils.FormatTimeOfDay(m.Minute)),
				slog.String("reason", m.PruneReason))
		}
	}
	s.observer.notify(Event{Phase: PhaseDone})

	logging.LogOperation(logger, "raptor_search",
		slog.String("direction", req.Direction.String()),
		slog.Int("minutes", len(minutes)),
		slog.Int("minutes_run", result.Stats.MinutesRun),
		slog.Int("paths", len(result.Paths)),
		slog.String("status", result.Status.String()),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

func (w *worker) runSequential(ctx context.Context, minutes []int) ([]MinuteResult, bool) {
	results := make([]MinuteResult, 0, len(minutes))
	for _, minute := range minutes {
		if ctx.Err() != nil {
			return results, true
		}
		results = append(results, w.runMinute(minute))
	}
	return results, false
}

// runParallel runs each minute on its own arrival state. Minutes that have
// not started when ctx is done are skipped.
func (w *worker) runParallel(ctx context.Context, minutes []int, parallelism int) ([]MinuteResult, bool) {
	type indexed struct {
		index   int
		result  MinuteResult
		skipped bool
	}

	p := pool.NewWithResults[indexed]().WithMaxGoroutines(parallelism)
	for i, minute := range minutes {
		p.Go(func() indexed {
			if ctx.Err() != nil {
				return indexed{index: i, skipped: true}
			}
			return indexed{index: i, result: w.runMinute(minute)}
		})
	}
	done := p.Wait()

	slices.SortFunc(done, func(a, b indexed) int { return a.index - b.index })
	results := make([]MinuteResult, 0, len(done))
	cancelled := false
	for _, d := range done {
		if d.skipped {
			cancelled = true
			continue
		}
		results = append(results, d.result)
	}
	return results, cancelled
}

func status(minutes []MinuteResult, cancelled bool) Status {
	if cancelled {
		return StatusCancelled
	}
	for _, m := range minutes {
		if m.ReachedTransit {
			return StatusCompleted
		}
	}
	return StatusNoStopsReachable
}

// RunMinute runs the rounds of a single minute without the range loop.
// A one-shot search returns the same paths.
func RunMinute(model *transit.Model, req Request, minute int) (MinuteResult, error) {
	if err := req.Validate(model); err != nil {
		return MinuteResult{}, err
	}
	w, err := newWorker(model, req, nil)
	if err != nil {
		return MinuteResult{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return w.runMinute(minute), nil
}
