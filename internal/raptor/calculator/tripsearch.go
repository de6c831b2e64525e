package calculator

import "github.com/karimhm/OpenTripPlanner/internal/transit"

// TripSearchResult is the trip found by a TripSearch.
type TripSearchResult struct {
	Trip      *transit.TripSchedule
	TripIndex int
	StopPos   int
	// Time is the trip's board time at StopPos in search direction.
	Time int
}

// TripSearch finds the best trip of one timetable to board at a stop
// position. A search that finds nothing returns ok == false; that is a
// normal outcome, not an error.
type TripSearch interface {
	// Search returns the best trip boardable at stopPos no earlier (in
	// search direction) than timeLimit.
	Search(timeLimit, stopPos int) (TripSearchResult, bool)
}
