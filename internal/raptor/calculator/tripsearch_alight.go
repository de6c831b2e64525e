package calculator

import "github.com/karimhm/OpenTripPlanner/internal/transit"

// alightSearch is the reverse search's board search: it finds the latest
// trip arriving at or before a time limit.
type alightSearch struct {
	timetable *transit.Timetable
	threshold int
}

func newAlightSearch(timetable *transit.Timetable, binarySearchThreshold int) *alightSearch {
	return &alightSearch{timetable: timetable, threshold: binarySearchThreshold}
}

func (s *alightSearch) Search(timeLimit, stopPos int) (TripSearchResult, bool) {
	index := s.findLastAlightableTrip(timeLimit, stopPos)
	if index < 0 {
		return TripSearchResult{}, false
	}
	trip := s.timetable.Trip(index)
	return TripSearchResult{Trip: trip, TripIndex: index, StopPos: stopPos, Time: trip.Arrival(stopPos)}, true
}

// findLastAlightableTrip mirrors boardSearch.findFirstBoardableTrip. Trips
// below lower arrive in time, trips from upper on arrive too late.
func (s *alightSearch) findLastAlightableTrip(timeLimit, stopPos int) int {
	lower, upper := 0, s.timetable.NumberOfTrips()
	for upper-lower > s.threshold {
		mid := lower + (upper-lower)/2
		if s.timetable.Trip(mid).Arrival(stopPos) <= timeLimit {
			lower = mid + 1
		} else {
			upper = mid
		}
	}
	for i := upper - 1; i >= lower; i-- {
		if s.timetable.Trip(i).Arrival(stopPos) <= timeLimit {
			return i
		}
	}
	return lower - 1
}
