package calculator

import (
	"iter"
	"math"

	"github.com/karimhm/OpenTripPlanner/internal/transit"
	"github.com/karimhm/OpenTripPlanner/internal/utils"
)

// reverse searches from the destination back toward the origin. Clock time
// decreases as the search progresses, so a later time is better and the
// search "boards" a trip where the passenger alights from it.
type reverse struct {
	params Params
}

func (r *reverse) Direction() Direction { return Reverse }

func (r *reverse) PlusDuration(time, duration int) int  { return time - duration }
func (r *reverse) MinusDuration(time, duration int) int { return time + duration }
func (r *reverse) Duration(timeA, timeB int) int        { return timeA - timeB }

func (r *reverse) IsBest(subject, candidate int) bool { return subject > candidate }

func (r *reverse) UnreachedTime() int { return math.MinInt32 }

func (r *reverse) ExceedsTimeLimit(time int) bool {
	return r.params.EarliestDepartureTime != TimeNotSet && r.IsBest(r.params.EarliestDepartureTime, time)
}

func (r *reverse) ExceedsTimeLimitReason() string {
	return "the departure time exceeds the time limit, depart too early: " + utils.FormatTimeOfDay(r.params.EarliestDepartureTime)
}

func (r *reverse) RangeRaptorMinutes() iter.Seq[int] {
	n := numberOfMinutes(r.params)
	lat := r.params.LatestArrivalTime
	return increasing(lat-(n-1)*r.params.IterationStep, lat, r.params.IterationStep)
}

func (r *reverse) OneIterationOnly() bool {
	return r.params.SearchWindowInSeconds <= r.params.IterationStep
}

func (r *reverse) PatternStopIterator(numberOfStops int) iter.Seq[int] {
	return decreasing(numberOfStops-1, 0, 1)
}

func (r *reverse) BoardTripTime(trip *transit.TripSchedule, stopPos int) int {
	return trip.Arrival(stopPos)
}

func (r *reverse) AlightTripTime(trip *transit.TripSchedule, stopPos int) int {
	return trip.Departure(stopPos)
}

func (r *reverse) StopArrivalTime(trip *transit.TripSchedule, stopPos, alightSlack int) int {
	return r.PlusDuration(trip.Departure(stopPos), alightSlack)
}

func (r *reverse) DepartureTime(leg transit.Leg, time int) int {
	return leg.LatestArrivalTime(time)
}

func (r *reverse) BoardingPossible(pattern *transit.Pattern, stopPos int) bool {
	return pattern.AlightingPossibleAt(stopPos)
}

func (r *reverse) AlightingPossible(pattern *transit.Pattern, stopPos int) bool {
	return pattern.BoardingPossibleAt(stopPos)
}

func (r *reverse) Transfers(index TransferIndex, stop int) []transit.Transfer {
	return index.ReverseTransfers(stop)
}

func (r *reverse) OriginLegs(access, egress []transit.AccessEgress) ([]transit.AccessEgress, []transit.AccessEgress) {
	return egress, access
}

func (r *reverse) GuaranteedTransfers(pattern *transit.Pattern, stopPos int) []*transit.GuaranteedTransfer {
	return pattern.GuaranteedTransfersFrom(stopPos)
}

// FindTargetTripInGuaranteedTransfers looks for the trip feeding the
// transfer: arrival.Trip is the trip the passenger continues on.
func (r *reverse) FindTargetTripInGuaranteedTransfers(
	transfers []*transit.GuaranteedTransfer,
	arrival TransitArrival,
	alightSlack int,
	boardStopPos int,
) (*transit.TripSchedule, bool) {
	if arrival.Trip == nil || len(transfers) == 0 {
		return nil, false
	}
	sourcePos := arrival.Trip.FindDepartureStopPosition(arrival.TripTime, arrival.Stop)
	if sourcePos < 0 {
		return nil, false
	}
	return findGuaranteedTarget(r, transfers, boardStopPos, r.MinusDuration(arrival.Time, alightSlack),
		func(tx *transit.GuaranteedTransfer) bool {
			return tx.FromStopPos == boardStopPos && tx.MatchesTo(arrival.Trip, sourcePos)
		},
		func(tx *transit.GuaranteedTransfer) *transit.TripSchedule { return tx.FromTrip },
	)
}

func (r *reverse) CreateTripSearch(timetable *transit.Timetable) TripSearch {
	return newAlightSearch(timetable, r.params.BinarySearchThreshold)
}

func (r *reverse) CreateExactTripSearch(timetable *transit.Timetable) TripSearch {
	return newExactMatchSearch(r, r.CreateTripSearch(timetable), r.params.IterationStep)
}

func (r *reverse) SlackProvider(slack Slack) SlackProvider {
	return slackProvider{board: slack.Alight, alight: slack.Board, transfer: slack.Transfer}
}
