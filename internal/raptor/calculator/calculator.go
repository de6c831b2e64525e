// Package calculator holds everything in a search that depends on the
// direction of time: arithmetic, dominance, iteration order, slack and the
// trip searches used to board a pattern. The relaxation worker is written
// against the Calculator interface and never branches on direction itself.
package calculator

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/karimhm/OpenTripPlanner/internal/transit"
)

// TimeNotSet marks an optional time parameter that was not given.
const TimeNotSet = -1

var ErrUnknownDirection = errors.New("unknown search direction")

type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts "forward"/"depart-after" and "reverse"/"arrive-by".
func ParseDirection(value string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "forward", "depart-after", "":
		return Forward, nil
	case "reverse", "arrive-by":
		return Reverse, nil
	default:
		return Forward, fmt.Errorf("%w: %q", ErrUnknownDirection, value)
	}
}

// Params is the part of a search request the calculator needs.
type Params struct {
	EarliestDepartureTime int
	LatestArrivalTime     int
	SearchWindowInSeconds int
	IterationStep         int
	BinarySearchThreshold int
}

// TransferIndex is the walking transfer graph in both directions.
type TransferIndex interface {
	TransfersFrom(stop int) []transit.Transfer
	ReverseTransfers(stop int) []transit.Transfer
}

// TransitArrival is a stop reached by riding a trip. Time is the stop
// arrival time in search direction with alight slack applied; TripTime is
// the trip's own time at the stop, before slack.
type TransitArrival struct {
	Trip     *transit.TripSchedule
	Stop     int
	Time     int
	TripTime int
}

// Calculator implements the direction-dependent operations of a search.
// "Board" and "alight" refer to the order of the search, which for a
// reverse search is the opposite of the order a passenger travels in.
type Calculator interface {
	Direction() Direction

	// PlusDuration moves time forward in search direction.
	PlusDuration(time, duration int) int
	// MinusDuration moves time backward in search direction.
	MinusDuration(time, duration int) int
	// Duration returns the elapsed time from timeA to timeB in search
	// direction, non-negative when timeB is reached after timeA.
	Duration(timeA, timeB int) int
	// IsBest reports whether subject is strictly better than candidate.
	IsBest(subject, candidate int) bool
	// UnreachedTime is worse than any reachable time.
	UnreachedTime() int

	ExceedsTimeLimit(time int) bool
	ExceedsTimeLimitReason() string

	// RangeRaptorMinutes yields the iteration minutes, latest-starting
	// first for a forward search and earliest-arriving first in reverse.
	RangeRaptorMinutes() iter.Seq[int]
	OneIterationOnly() bool
	// PatternStopIterator yields the stop positions of a pattern in the
	// order the search travels along it.
	PatternStopIterator(numberOfStops int) iter.Seq[int]

	// BoardTripTime is the trip time used when boarding at stopPos.
	BoardTripTime(trip *transit.TripSchedule, stopPos int) int
	// AlightTripTime is the trip time used when alighting at stopPos.
	AlightTripTime(trip *transit.TripSchedule, stopPos int) int
	// StopArrivalTime is the time a stop is reached after alighting at
	// stopPos, including slack.
	StopArrivalTime(trip *transit.TripSchedule, stopPos, alightSlack int) int
	// DepartureTime is the time a non-transit leg can start when the
	// traveller is ready at the given time.
	DepartureTime(leg transit.Leg, time int) int

	BoardingPossible(pattern *transit.Pattern, stopPos int) bool
	AlightingPossible(pattern *transit.Pattern, stopPos int) bool

	// Transfers lists the walking legs leaving stop in search direction.
	// ToStop is always the stop the leg reaches.
	Transfers(index TransferIndex, stop int) []transit.Transfer
	// OriginLegs splits the access and egress legs into the legs the search
	// starts from and the legs that reach the destination.
	OriginLegs(access, egress []transit.AccessEgress) (origin, destination []transit.AccessEgress)

	// GuaranteedTransfers lists the guaranteed transfers that can be used
	// to board pattern at stopPos.
	GuaranteedTransfers(pattern *transit.Pattern, stopPos int) []*transit.GuaranteedTransfer
	// FindTargetTripInGuaranteedTransfers matches the trip that produced
	// arrival against the guaranteed transfers. matched is true when one of
	// them starts from that trip; target is nil when the matched
	// connection cannot be made in time.
	FindTargetTripInGuaranteedTransfers(
		transfers []*transit.GuaranteedTransfer,
		arrival TransitArrival,
		alightSlack int,
		boardStopPos int,
	) (target *transit.TripSchedule, matched bool)

	CreateTripSearch(timetable *transit.Timetable) TripSearch
	// CreateExactTripSearch returns a search that only accepts trips
	// boardable within iterationStep of the time limit.
	CreateExactTripSearch(timetable *transit.Timetable) TripSearch

	SlackProvider(slack Slack) SlackProvider
}

// New returns the calculator for direction.
func New(direction Direction, params Params) (Calculator, error) {
	if params.IterationStep <= 0 {
		return nil, fmt.Errorf("iteration step must be positive, got %d", params.IterationStep)
	}
	if params.SearchWindowInSeconds < 0 {
		return nil, fmt.Errorf("search window must be non-negative, got %d", params.SearchWindowInSeconds)
	}

	switch direction {
	case Forward:
		if params.EarliestDepartureTime == TimeNotSet {
			return nil, errors.New("forward search requires an earliest departure time")
		}
		return &forward{params: params}, nil
	case Reverse:
		if params.LatestArrivalTime == TimeNotSet {
			return nil, errors.New("reverse search requires a latest arrival time")
		}
		return &reverse{params: params}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(direction))
	}
}

// numberOfMinutes is ceil(window / step), at least one.
func numberOfMinutes(p Params) int {
	if p.SearchWindowInSeconds <= p.IterationStep {
		return 1
	}
	return (p.SearchWindowInSeconds + p.IterationStep - 1) / p.IterationStep
}
