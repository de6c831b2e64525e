package calculator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karimhm/OpenTripPlanner/internal/transit"
)

const rideTime = 600

// timetableOf builds a two-stop pattern whose trips depart the first stop
// at the given times and arrive at the second rideTime seconds later.
func timetableOf(t *testing.T, departures []int) *transit.Timetable {
	t.Helper()
	b := transit.NewModelBuilder()
	a := b.AddStop("A", "A", 0, 0)
	c := b.AddStop("B", "B", 0, 0)
	trips := make([]transit.TripSpec, len(departures))
	for i, dep := range departures {
		trips[i] = transit.TripSpec{
			ID:         fmt.Sprintf("t%d", i),
			Arrivals:   []int{dep, dep + rideTime},
			Departures: []int{dep, dep + rideTime},
		}
	}
	b.AddPattern(transit.PatternSpec{ID: "P", Stops: []int{a, c}, Trips: trips})
	model, err := b.Build()
	require.NoError(t, err)
	return model.Pattern(0).Timetable()
}

// departuresWithRepeats returns n sorted departures where every third value
// repeats the previous one.
func departuresWithRepeats(n int) []int {
	deps := make([]int, n)
	time := 1000
	for i := range deps {
		if i%3 != 2 {
			time += 45
		}
		deps[i] = time
	}
	return deps
}

func linearFirstDeparting(tt *transit.Timetable, timeLimit, stopPos int) int {
	for i := 0; i < tt.NumberOfTrips(); i++ {
		if tt.Trip(i).Departure(stopPos) >= timeLimit {
			return i
		}
	}
	return -1
}

func linearLastArriving(tt *transit.Timetable, timeLimit, stopPos int) int {
	for i := tt.NumberOfTrips() - 1; i >= 0; i-- {
		if tt.Trip(i).Arrival(stopPos) <= timeLimit {
			return i
		}
	}
	return -1
}

func TestTripSearch_BinaryMatchesLinearScan(t *testing.T) {
	sizes := []int{1, 2, 3, 7, 49, 50, 51, 52, 120, 500}
	thresholds := []int{0, 1, 8, 50}

	for _, n := range sizes {
		tt := timetableOf(t, departuresWithRepeats(n))
		first := tt.Trip(0).Departure(0)
		last := tt.Trip(n - 1).Arrival(1)

		for _, threshold := range thresholds {
			t.Run(fmt.Sprintf("n=%d/threshold=%d", n, threshold), func(t *testing.T) {
				board := newBoardSearch(tt, threshold)
				alight := newAlightSearch(tt, threshold)

				for timeLimit := first - 60; timeLimit <= last+60; timeLimit += 7 {
					for stopPos := 0; stopPos < 2; stopPos++ {
						want := linearFirstDeparting(tt, timeLimit, stopPos)
						got, ok := board.Search(timeLimit, stopPos)
						require.Equal(t, want >= 0, ok, "board at %d pos %d", timeLimit, stopPos)
						if ok {
							require.Equal(t, want, got.TripIndex, "board at %d pos %d", timeLimit, stopPos)
						}

						want = linearLastArriving(tt, timeLimit, stopPos)
						got, ok = alight.Search(timeLimit, stopPos)
						require.Equal(t, want >= 0, ok, "alight at %d pos %d", timeLimit, stopPos)
						if ok {
							require.Equal(t, want, got.TripIndex, "alight at %d pos %d", timeLimit, stopPos)
						}
					}
				}
			})
		}
	}
}

func TestBoardSearch(t *testing.T) {
	tt := timetableOf(t, []int{100, 200, 300, 400})
	search := newBoardSearch(tt, 2)

	tests := []struct {
		name      string
		timeLimit int
		stopPos   int
		wantIndex int
		wantFound bool
	}{
		{name: "exact departure", timeLimit: 200, wantIndex: 1, wantFound: true},
		{name: "between departures", timeLimit: 201, wantIndex: 2, wantFound: true},
		{name: "before first", timeLimit: 0, wantIndex: 0, wantFound: true},
		{name: "after last", timeLimit: 401, wantFound: false},
		{name: "second stop", timeLimit: 850, stopPos: 1, wantIndex: 2, wantFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := search.Search(tt.timeLimit, tt.stopPos)
			assert.Equal(t, tt.wantFound, ok)
			if tt.wantFound {
				assert.Equal(t, tt.wantIndex, got.TripIndex)
				assert.Equal(t, tt.stopPos, got.StopPos)
				assert.Equal(t, got.Trip.Departure(tt.stopPos), got.Time)
			}
		})
	}
}

func TestAlightSearch(t *testing.T) {
	tt := timetableOf(t, []int{100, 200, 300, 400})
	search := newAlightSearch(tt, 2)

	tests := []struct {
		name      string
		timeLimit int
		stopPos   int
		wantIndex int
		wantFound bool
	}{
		{name: "exact arrival", timeLimit: 800, stopPos: 1, wantIndex: 1, wantFound: true},
		{name: "between arrivals", timeLimit: 899, stopPos: 1, wantIndex: 1, wantFound: true},
		{name: "after last", timeLimit: 5000, stopPos: 1, wantIndex: 3, wantFound: true},
		{name: "before first", timeLimit: 699, stopPos: 1, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := search.Search(tt.timeLimit, tt.stopPos)
			assert.Equal(t, tt.wantFound, ok)
			if tt.wantFound {
				assert.Equal(t, tt.wantIndex, got.TripIndex)
				assert.Equal(t, got.Trip.Arrival(tt.stopPos), got.Time)
			}
		})
	}
}

func TestExactMatchSearch(t *testing.T) {
	tt := timetableOf(t, []int{28800, 30600})

	t.Run("forward", func(t *testing.T) {
		calc := mustCalculator(t, Forward, Params{EarliestDepartureTime: 28800, LatestArrivalTime: TimeNotSet, SearchWindowInSeconds: 300, IterationStep: 60, BinarySearchThreshold: 50})
		search := calc.CreateExactTripSearch(tt)

		got, ok := search.Search(28800, 0)
		require.True(t, ok)
		assert.Equal(t, 0, got.TripIndex)

		got, ok = search.Search(28741, 0)
		require.True(t, ok, "within one step of the departure")
		assert.Equal(t, 0, got.TripIndex)

		_, ok = search.Search(28740, 0)
		assert.False(t, ok, "a full step before the departure is not exact")

		_, ok = search.Search(28860, 0)
		assert.False(t, ok, "next trip leaves half an hour later")
	})

	t.Run("reverse", func(t *testing.T) {
		calc := mustCalculator(t, Reverse, Params{EarliestDepartureTime: TimeNotSet, LatestArrivalTime: 31200, SearchWindowInSeconds: 300, IterationStep: 60, BinarySearchThreshold: 50})
		search := calc.CreateExactTripSearch(tt)

		got, ok := search.Search(31200, 1)
		require.True(t, ok)
		assert.Equal(t, 1, got.TripIndex)

		_, ok = search.Search(31260, 1)
		assert.False(t, ok)

		got, ok = search.Search(31259, 1)
		require.True(t, ok)
		assert.Equal(t, 31200, got.Time)
	})
}

func TestTripSearch_EmptyTimetable(t *testing.T) {
	tt := timetableOf(t, nil)
	for _, search := range []TripSearch{newBoardSearch(tt, 0), newAlightSearch(tt, 0)} {
		_, ok := search.Search(100, 0)
		assert.False(t, ok)
	}
}
