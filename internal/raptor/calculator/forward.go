package calculator

import (
	"iter"
	"math"

	"github.com/karimhm/OpenTripPlanner/internal/transit"
	"github.com/karimhm/OpenTripPlanner/internal/utils"
)

// forward searches from the origin toward the destination: boarding uses
// departure times, time grows and earlier is better.
type forward struct {
	params Params
}

func (f *forward) Direction() Direction { return Forward }

func (f *forward) PlusDuration(time, duration int) int  { return time + duration }
func (f *forward) MinusDuration(time, duration int) int { return time - duration }
func (f *forward) Duration(timeA, timeB int) int        { return timeB - timeA }

func (f *forward) IsBest(subject, candidate int) bool { return subject < candidate }

func (f *forward) UnreachedTime() int { return math.MaxInt32 }

func (f *forward) ExceedsTimeLimit(time int) bool {
	return f.params.LatestArrivalTime != TimeNotSet && f.IsBest(f.params.LatestArrivalTime, time)
}

func (f *forward) ExceedsTimeLimitReason() string {
	return "the arrival time exceeds the time limit, arrive too late: " + utils.FormatTimeOfDay(f.params.LatestArrivalTime)
}

func (f *forward) RangeRaptorMinutes() iter.Seq[int] {
	n := numberOfMinutes(f.params)
	edt := f.params.EarliestDepartureTime
	return decreasing(edt+(n-1)*f.params.IterationStep, edt, f.params.IterationStep)
}

func (f *forward) OneIterationOnly() bool {
	return f.params.SearchWindowInSeconds <= f.params.IterationStep
}

func (f *forward) PatternStopIterator(numberOfStops int) iter.Seq[int] {
	return increasing(0, numberOfStops-1, 1)
}

func (f *forward) BoardTripTime(trip *transit.TripSchedule, stopPos int) int {
	return trip.Departure(stopPos)
}

func (f *forward) AlightTripTime(trip *transit.TripSchedule, stopPos int) int {
	return trip.Arrival(stopPos)
}

func (f *forward) StopArrivalTime(trip *transit.TripSchedule, stopPos, alightSlack int) int {
	return f.PlusDuration(trip.Arrival(stopPos), alightSlack)
}

func (f *forward) DepartureTime(leg transit.Leg, time int) int {
	return leg.EarliestDepartureTime(time)
}

func (f *forward) BoardingPossible(pattern *transit.Pattern, stopPos int) bool {
	return pattern.BoardingPossibleAt(stopPos)
}

func (f *forward) AlightingPossible(pattern *transit.Pattern, stopPos int) bool {
	return pattern.AlightingPossibleAt(stopPos)
}

func (f *forward) Transfers(index TransferIndex, stop int) []transit.Transfer {
	return index.TransfersFrom(stop)
}

func (f *forward) OriginLegs(access, egress []transit.AccessEgress) ([]transit.AccessEgress, []transit.AccessEgress) {
	return access, egress
}

func (f *forward) GuaranteedTransfers(pattern *transit.Pattern, stopPos int) []*transit.GuaranteedTransfer {
	return pattern.GuaranteedTransfersTo(stopPos)
}

func (f *forward) FindTargetTripInGuaranteedTransfers(
	transfers []*transit.GuaranteedTransfer,
	arrival TransitArrival,
	alightSlack int,
	boardStopPos int,
) (*transit.TripSchedule, bool) {
	if arrival.Trip == nil || len(transfers) == 0 {
		return nil, false
	}
	sourcePos := arrival.Trip.FindArrivalStopPosition(arrival.TripTime, arrival.Stop)
	if sourcePos < 0 {
		return nil, false
	}
	return findGuaranteedTarget(f, transfers, boardStopPos, f.MinusDuration(arrival.Time, alightSlack),
		func(tx *transit.GuaranteedTransfer) bool {
			return tx.ToStopPos == boardStopPos && tx.MatchesFrom(arrival.Trip, sourcePos)
		},
		func(tx *transit.GuaranteedTransfer) *transit.TripSchedule { return tx.ToTrip },
	)
}

func (f *forward) CreateTripSearch(timetable *transit.Timetable) TripSearch {
	return newBoardSearch(timetable, f.params.BinarySearchThreshold)
}

func (f *forward) CreateExactTripSearch(timetable *transit.Timetable) TripSearch {
	return newExactMatchSearch(f, f.CreateTripSearch(timetable), f.params.IterationStep)
}

func (f *forward) SlackProvider(slack Slack) SlackProvider {
	return slackProvider{board: slack.Board, alight: slack.Alight, transfer: slack.Transfer}
}
