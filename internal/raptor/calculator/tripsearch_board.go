package calculator

import "github.com/karimhm/OpenTripPlanner/internal/transit"

// boardSearch finds the earliest trip departing at or after a time limit.
type boardSearch struct {
	timetable *transit.Timetable
	threshold int
}

func newBoardSearch(timetable *transit.Timetable, binarySearchThreshold int) *boardSearch {
	return &boardSearch{timetable: timetable, threshold: binarySearchThreshold}
}

func (s *boardSearch) Search(timeLimit, stopPos int) (TripSearchResult, bool) {
	index := s.findFirstBoardableTrip(timeLimit, stopPos)
	if index < 0 {
		return TripSearchResult{}, false
	}
	trip := s.timetable.Trip(index)
	return TripSearchResult{Trip: trip, TripIndex: index, StopPos: stopPos, Time: trip.Departure(stopPos)}, true
}

// findFirstBoardableTrip narrows [lower, upper) by bisection until at most
// threshold trips remain and finishes with a linear scan. Trips below lower
// depart too early, trips from upper on depart in time.
func (s *boardSearch) findFirstBoardableTrip(timeLimit, stopPos int) int {
	n := s.timetable.NumberOfTrips()
	lower, upper := 0, n
	for upper-lower > s.threshold {
		mid := lower + (upper-lower)/2
		if s.timetable.Trip(mid).Departure(stopPos) >= timeLimit {
			upper = mid
		} else {
			lower = mid + 1
		}
	}
	for i := lower; i < upper; i++ {
		if s.timetable.Trip(i).Departure(stopPos) >= timeLimit {
			return i
		}
	}
	if upper < n {
		return upper
	}
	return -1
}
