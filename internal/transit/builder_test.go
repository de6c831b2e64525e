package transit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeStopBuilder() (*ModelBuilder, []int) {
	b := NewModelBuilder()
	a := b.AddStop("A", "Stop A", 0, 0)
	bb := b.AddStop("B", "Stop B", 0, 0.01)
	c := b.AddStop("C", "Stop C", 0, 0.02)
	return b, []int{a, bb, c}
}

func TestModelBuilder_SortsTimetable(t *testing.T) {
	b, stops := threeStopBuilder()
	b.AddPattern(PatternSpec{
		ID:    "P1",
		Stops: stops,
		Trips: []TripSpec{
			{ID: "late", Arrivals: []int{200, 300, 400}, Departures: []int{200, 310, 400}},
			{ID: "early", Arrivals: []int{100, 200, 300}, Departures: []int{100, 210, 300}},
		},
	})

	model, err := b.Build()
	require.NoError(t, err)

	tt := model.Pattern(0).Timetable()
	require.Equal(t, 2, tt.NumberOfTrips())
	assert.Equal(t, "early", tt.Trip(0).ID())
	assert.Equal(t, "late", tt.Trip(1).ID())
	assert.Equal(t, 1, tt.Trip(1).Index())
	assert.Equal(t, 0, tt.Trip(1).PatternIndex())
	assert.Equal(t, []int{0}, model.PatternsForStop(stops[1]))
}

func TestModelBuilder_RejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name    string
		spec    func(stops []int) PatternSpec
		wantErr error
	}{
		{
			name:    "empty pattern",
			spec:    func([]int) PatternSpec { return PatternSpec{ID: "empty"} },
			wantErr: ErrEmptyPattern,
		},
		{
			name:    "single stop pattern",
			spec:    func(s []int) PatternSpec { return PatternSpec{ID: "one", Stops: s[:1]} },
			wantErr: ErrPatternTooShort,
		},
		{
			name:    "unknown stop",
			spec:    func([]int) PatternSpec { return PatternSpec{ID: "bad", Stops: []int{0, 42}} },
			wantErr: ErrUnknownStop,
		},
		{
			name: "stop times length mismatch",
			spec: func(s []int) PatternSpec {
				return PatternSpec{ID: "short", Stops: s, Trips: []TripSpec{
					{ID: "t", Arrivals: []int{1, 2}, Departures: []int{1, 2}},
				}}
			},
			wantErr: ErrStopTimesMismatch,
		},
		{
			name: "times going backwards",
			spec: func(s []int) PatternSpec {
				return PatternSpec{ID: "back", Stops: s, Trips: []TripSpec{
					{ID: "t", Arrivals: []int{100, 90, 200}, Departures: []int{100, 95, 200}},
				}}
			},
			wantErr: ErrInvalidTripTimes,
		},
		{
			name: "overtaking trips",
			spec: func(s []int) PatternSpec {
				return PatternSpec{ID: "overtake", Stops: s, Trips: []TripSpec{
					{ID: "slow", Arrivals: []int{100, 300, 500}, Departures: []int{100, 300, 500}},
					{ID: "fast", Arrivals: []int{110, 200, 300}, Departures: []int{110, 200, 300}},
				}}
			},
			wantErr: ErrUnsortedTimetable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, stops := threeStopBuilder()
			b.AddPattern(tt.spec(stops))

			model, err := b.Build()
			assert.Nil(t, model)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestModelBuilder_Transfers(t *testing.T) {
	b, stops := threeStopBuilder()
	b.AddTransfer(stops[0], stops[1], 120)

	model, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []Transfer{{FromStop: stops[0], ToStop: stops[1], Duration: 120}}, model.TransfersFrom(stops[0]))
	assert.Equal(t, []Transfer{{FromStop: stops[1], ToStop: stops[0], Duration: 120}}, model.ReverseTransfers(stops[1]))
	assert.Empty(t, model.TransfersFrom(stops[1]))

	t.Run("rejects self transfer", func(t *testing.T) {
		b, stops := threeStopBuilder()
		b.AddTransfer(stops[0], stops[0], 10)
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrInvalidTransfer)
	})

	t.Run("rejects duplicate stop id", func(t *testing.T) {
		b, _ := threeStopBuilder()
		b.AddStop("A", "again", 0, 0)
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrDuplicateStop)
	})
}

func TestModelBuilder_GuaranteedTransfers(t *testing.T) {
	b, stops := threeStopBuilder()
	p1 := b.AddPattern(PatternSpec{
		ID:    "P1",
		Stops: stops[:2],
		Trips: []TripSpec{{ID: "in", Arrivals: []int{0, 100}, Departures: []int{0, 100}}},
	})
	p2 := b.AddPattern(PatternSpec{
		ID:    "P2",
		Stops: stops[1:],
		Trips: []TripSpec{{ID: "out", Arrivals: []int{150, 300}, Departures: []int{150, 300}}},
	})
	b.AddGuaranteedTransfer(GuaranteedTransferSpec{
		FromPattern: p1, FromTripID: "in", FromStopPos: 1,
		ToPattern: p2, ToTripID: "out", ToStopPos: 0,
	})

	model, err := b.Build()
	require.NoError(t, err)

	from := model.Pattern(p1).GuaranteedTransfersFrom(1)
	to := model.Pattern(p2).GuaranteedTransfersTo(0)
	require.Len(t, from, 1)
	require.Len(t, to, 1)
	assert.Same(t, from[0], to[0])

	in := model.Pattern(p1).Timetable().Trip(0)
	out := model.Pattern(p2).Timetable().Trip(0)
	assert.True(t, from[0].MatchesFrom(in, 1))
	assert.False(t, from[0].MatchesFrom(in, 0))
	assert.True(t, from[0].MatchesTo(out, 0))
	assert.Equal(t, 1, model.Stats().GuaranteedTransfers)

	t.Run("unknown trip fails", func(t *testing.T) {
		b, stops := threeStopBuilder()
		p := b.AddPattern(PatternSpec{ID: "P", Stops: stops[:2]})
		b.AddGuaranteedTransfer(GuaranteedTransferSpec{FromPattern: p, FromTripID: "x", ToPattern: p, ToTripID: "y"})
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrUnknownTrip)
	})
}

func TestTripSchedule_FindStopPosition(t *testing.T) {
	b := NewModelBuilder()
	a := b.AddStop("A", "A", 0, 0)
	c := b.AddStop("C", "C", 0, 0)
	// A loop pattern visits A twice.
	b.AddPattern(PatternSpec{
		ID:    "loop",
		Stops: []int{a, c, a},
		Trips: []TripSpec{{ID: "t", Arrivals: []int{100, 200, 300}, Departures: []int{110, 210, 310}}},
	})
	model, err := b.Build()
	require.NoError(t, err)

	trip := model.Pattern(0).Timetable().Trip(0)
	assert.Equal(t, 2, trip.FindArrivalStopPosition(300, a))
	assert.Equal(t, 0, trip.FindDepartureStopPosition(110, a))
	assert.Equal(t, -1, trip.FindArrivalStopPosition(110, a))
	assert.Equal(t, -1, trip.FindDepartureStopPosition(210, a))
	assert.Equal(t, []int{0}, model.PatternsForStop(a))
}
