// Package raptor implements Range-RAPTOR: for every minute of a search
// window it runs rounds of "board the best trips, then walk transfers"
// over a read-only transit model and keeps the Pareto-optimal arrivals.
package raptor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/karimhm/OpenTripPlanner/internal/raptor/calculator"
	"github.com/karimhm/OpenTripPlanner/internal/transit"
)

var ErrInvalidRequest = errors.New("invalid search request")

var validate = validator.New(validator.WithRequiredStructEnabled())

// GuaranteedTransferPolicy decides what happens when an arrival matches a
// guaranteed transfer that cannot be made in time.
type GuaranteedTransferPolicy string

const (
	// PolicyFallback boards with an ordinary trip search instead.
	PolicyFallback GuaranteedTransferPolicy = "fallback"
	// PolicyReject does not board the pattern from that arrival.
	PolicyReject GuaranteedTransferPolicy = "reject"
)

// Tuning holds the algorithm settings. They are plain scalars and change
// performance or search depth, not the meaning of a query.
type Tuning struct {
	IterationStep            int                      `yaml:"iteration_step" validate:"gt=0"`
	BinarySearchThreshold    int                      `yaml:"binary_search_threshold" validate:"gte=0"`
	MaxRounds                int                      `yaml:"max_rounds" validate:"gte=1,lte=64"`
	Parallelism              int                      `yaml:"parallelism" validate:"gte=1,lte=256"`
	GuaranteedTransferPolicy GuaranteedTransferPolicy `yaml:"guaranteed_transfer_policy" validate:"oneof=fallback reject"`
}

func DefaultTuning() Tuning {
	return Tuning{
		IterationStep:            60,
		BinarySearchThreshold:    50,
		MaxRounds:                10,
		Parallelism:              1,
		GuaranteedTransferPolicy: PolicyFallback,
	}
}

// Request is one search. Times are seconds after midnight of the service
// day; calculator.TimeNotSet leaves a bound open. A forward search needs
// EarliestDepartureTime, a reverse search LatestArrivalTime.
type Request struct {
	Direction             calculator.Direction
	EarliestDepartureTime int `validate:"gte=-1"`
	LatestArrivalTime     int `validate:"gte=-1"`
	SearchWindowInSeconds int `validate:"gte=0"`

	Access []transit.AccessEgress `validate:"required,min=1,dive"`
	Egress []transit.AccessEgress `validate:"required,min=1,dive"`

	Slack  calculator.Slack
	Cost   CostParams
	Tuning Tuning

	// KeepArrivals keeps the per-round arrival state of every minute in
	// the result. It is dropped otherwise once paths are extracted.
	KeepArrivals bool
}

// Validate checks the request against model before any search state is
// allocated. All problems are reported wrapped in ErrInvalidRequest.
func (r Request) Validate(model *transit.Model) error {
	var errs []error
	if err := validate.Struct(r); err != nil {
		errs = append(errs, err)
	}

	switch r.Direction {
	case calculator.Forward:
		if r.EarliestDepartureTime == calculator.TimeNotSet {
			errs = append(errs, errors.New("forward search requires an earliest departure time"))
		}
	case calculator.Reverse:
		if r.LatestArrivalTime == calculator.TimeNotSet {
			errs = append(errs, errors.New("reverse search requires a latest arrival time"))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %d", calculator.ErrUnknownDirection, int(r.Direction)))
	}

	if r.EarliestDepartureTime != calculator.TimeNotSet && r.LatestArrivalTime != calculator.TimeNotSet &&
		r.LatestArrivalTime < r.EarliestDepartureTime {
		errs = append(errs, errors.New("latest arrival time is before earliest departure time"))
	}

	for _, leg := range slices.Concat(r.Access, r.Egress) {
		if leg.Stop >= model.NumberOfStops() {
			errs = append(errs, fmt.Errorf("%w: %d", transit.ErrUnknownStop, leg.Stop))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, errors.Join(errs...))
	}
	return nil
}

func (r Request) calculatorParams() calculator.Params {
	return calculator.Params{
		EarliestDepartureTime: r.EarliestDepartureTime,
		LatestArrivalTime:     r.LatestArrivalTime,
		SearchWindowInSeconds: r.SearchWindowInSeconds,
		IterationStep:         r.Tuning.IterationStep,
		BinarySearchThreshold: r.Tuning.BinarySearchThreshold,
	}
}
