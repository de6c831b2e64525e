package transit

// TripSchedule is one scheduled run of a pattern. Times are seconds after
// midnight of the service day. A TripSchedule is immutable once its
// timetable has been built.
type TripSchedule struct {
	id         string
	index      int
	pattern    int
	stops      []int
	arrivals   []int
	departures []int
}

func (t *TripSchedule) ID() string {
	return t.id
}

// Index is the position of the trip in its pattern's sorted timetable.
func (t *TripSchedule) Index() int {
	return t.index
}

// PatternIndex is the index of the pattern the trip belongs to.
func (t *TripSchedule) PatternIndex() int {
	return t.pattern
}

func (t *TripSchedule) NumberOfStops() int {
	return len(t.arrivals)
}

// Arrival returns the arrival time at the given stop position.
func (t *TripSchedule) Arrival(stopPosInPattern int) int {
	return t.arrivals[stopPosInPattern]
}

// Departure returns the departure time at the given stop position.
func (t *TripSchedule) Departure(stopPosInPattern int) int {
	return t.departures[stopPosInPattern]
}

// FindArrivalStopPosition returns the stop position where the trip arrives
// at stop at exactly arrivalTime, or -1. The search starts at the end of
// the pattern, so for a pattern visiting a stop twice the last visit wins.
func (t *TripSchedule) FindArrivalStopPosition(arrivalTime, stop int) int {
	for i := len(t.stops) - 1; i >= 0; i-- {
		if t.stops[i] == stop && t.arrivals[i] == arrivalTime {
			return i
		}
	}
	return -1
}

// FindDepartureStopPosition returns the stop position where the trip
// departs from stop at exactly departureTime, or -1.
func (t *TripSchedule) FindDepartureStopPosition(departureTime, stop int) int {
	for i := 0; i < len(t.stops); i++ {
		if t.stops[i] == stop && t.departures[i] == departureTime {
			return i
		}
	}
	return -1
}

// Timetable holds the trips of one pattern sorted by departure at the first
// stop. No trip overtakes another, so the order also holds for the arrival
// and departure times at every other stop position.
type Timetable struct {
	trips []*TripSchedule
}

func (tt *Timetable) NumberOfTrips() int {
	return len(tt.trips)
}

func (tt *Timetable) Trip(index int) *TripSchedule {
	return tt.trips[index]
}

// FindTrip returns the trip with the given id, or nil.
func (tt *Timetable) FindTrip(id string) *TripSchedule {
	for _, trip := range tt.trips {
		if trip.id == id {
			return trip
		}
	}
	return nil
}
