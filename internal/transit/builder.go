package transit

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Errors returned by ModelBuilder.Build. Malformed input is rejected while
// the model is built and never reaches a search.
var (
	ErrEmptyPattern      = errors.New("pattern has no stops")
	ErrPatternTooShort   = errors.New("pattern has fewer than two stops")
	ErrUnknownStop       = errors.New("unknown stop")
	ErrDuplicateStop     = errors.New("duplicate stop id")
	ErrStopTimesMismatch = errors.New("stop times do not match pattern length")
	ErrInvalidTripTimes  = errors.New("trip times decrease along the pattern")
	ErrUnsortedTimetable = errors.New("inconsistent trip ordering")
	ErrUnknownPattern    = errors.New("unknown pattern")
	ErrUnknownTrip       = errors.New("unknown trip")
	ErrInvalidTransfer   = errors.New("invalid transfer")
)

// TripSpec describes one trip of a pattern before the timetable is sorted.
type TripSpec struct {
	ID         string
	Arrivals   []int
	Departures []int
}

// PatternSpec describes a pattern. NoBoarding and NoAlighting are optional
// and, when set, must have one entry per stop position.
type PatternSpec struct {
	ID          string
	RouteID     string
	Stops       []int
	NoBoarding  []bool
	NoAlighting []bool
	Trips       []TripSpec
}

// GuaranteedTransferSpec names both trips of a guaranteed transfer by
// pattern index and trip id.
type GuaranteedTransferSpec struct {
	FromPattern int
	FromTripID  string
	FromStopPos int
	ToPattern   int
	ToTripID    string
	ToStopPos   int
}

// ModelBuilder collects stops, patterns and transfers and validates them
// into a Model. It is not safe for concurrent use.
type ModelBuilder struct {
	stops      []Stop
	stopIndex  map[string]int
	patterns   []PatternSpec
	transfers  []Transfer
	guaranteed []GuaranteedTransferSpec
	errs       []error
}

func NewModelBuilder() *ModelBuilder {
	return &ModelBuilder{stopIndex: make(map[string]int)}
}

// AddStop registers a stop and returns its index. Adding an id twice is
// reported by Build.
func (b *ModelBuilder) AddStop(id, name string, lat, lon float64) int {
	if existing, ok := b.stopIndex[id]; ok {
		b.errs = append(b.errs, fmt.Errorf("%w: %s", ErrDuplicateStop, id))
		return existing
	}
	index := len(b.stops)
	b.stops = append(b.stops, Stop{Index: index, ID: id, Name: name, Latitude: lat, Longitude: lon})
	b.stopIndex[id] = index
	return index
}

// AddPattern registers a pattern and returns the index it will have in the
// built model.
func (b *ModelBuilder) AddPattern(spec PatternSpec) int {
	b.patterns = append(b.patterns, spec)
	return len(b.patterns) - 1
}

func (b *ModelBuilder) AddTransfer(fromStop, toStop, duration int) {
	b.transfers = append(b.transfers, Transfer{FromStop: fromStop, ToStop: toStop, Duration: duration})
}

func (b *ModelBuilder) AddGuaranteedTransfer(spec GuaranteedTransferSpec) {
	b.guaranteed = append(b.guaranteed, spec)
}

// Build validates everything added so far and returns the model. All
// validation errors are joined into the returned error.
func (b *ModelBuilder) Build() (*Model, error) {
	errs := slices.Clone(b.errs)
	nStops := len(b.stops)

	m := &Model{
		stops:            b.stops,
		stopIndex:        b.stopIndex,
		patternsByStop:   make([][]int, nStops),
		transfersFrom:    make([][]Transfer, nStops),
		reverseTransfers: make([][]Transfer, nStops),
	}

	for i, spec := range b.patterns {
		p, err := buildPattern(i, spec, nStops)
		if err != nil {
			errs = append(errs, fmt.Errorf("pattern %q: %w", spec.ID, err))
			continue
		}
		m.patterns = append(m.patterns, p)
	}

	for _, tx := range b.transfers {
		if err := validateTransfer(tx, nStops); err != nil {
			errs = append(errs, err)
			continue
		}
		m.transfersFrom[tx.FromStop] = append(m.transfersFrom[tx.FromStop], tx)
		m.reverseTransfers[tx.ToStop] = append(m.reverseTransfers[tx.ToStop], tx.reversed())
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, p := range m.patterns {
		for pos, stop := range p.stops {
			if pos > 0 && slices.Contains(p.stops[:pos], stop) {
				continue
			}
			m.patternsByStop[stop] = append(m.patternsByStop[stop], p.index)
		}
	}

	for _, spec := range b.guaranteed {
		if err := m.linkGuaranteedTransfer(spec); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return m, nil
}

func buildPattern(index int, spec PatternSpec, nStops int) (*Pattern, error) {
	n := len(spec.Stops)
	switch {
	case n == 0:
		return nil, ErrEmptyPattern
	case n == 1:
		return nil, ErrPatternTooShort
	}
	for _, stop := range spec.Stops {
		if stop < 0 || stop >= nStops {
			return nil, fmt.Errorf("%w: %d", ErrUnknownStop, stop)
		}
	}

	noBoarding, err := positionFlags(spec.NoBoarding, n)
	if err != nil {
		return nil, fmt.Errorf("boarding flags: %w", err)
	}
	noAlight, err := positionFlags(spec.NoAlighting, n)
	if err != nil {
		return nil, fmt.Errorf("alighting flags: %w", err)
	}

	stops := slices.Clone(spec.Stops)
	trips := make([]*TripSchedule, 0, len(spec.Trips))
	for _, ts := range spec.Trips {
		if len(ts.Arrivals) != n || len(ts.Departures) != n {
			return nil, fmt.Errorf("trip %q: %w", ts.ID, ErrStopTimesMismatch)
		}
		for pos := 0; pos < n; pos++ {
			if ts.Departures[pos] < ts.Arrivals[pos] || (pos > 0 && ts.Arrivals[pos] < ts.Departures[pos-1]) {
				return nil, fmt.Errorf("trip %q at position %d: %w", ts.ID, pos, ErrInvalidTripTimes)
			}
		}
		trips = append(trips, &TripSchedule{
			id:         ts.ID,
			pattern:    index,
			stops:      stops,
			arrivals:   slices.Clone(ts.Arrivals),
			departures: slices.Clone(ts.Departures),
		})
	}

	slices.SortStableFunc(trips, func(a, b *TripSchedule) int {
		return cmp.Or(
			cmp.Compare(a.departures[0], b.departures[0]),
			cmp.Compare(a.arrivals[n-1], b.arrivals[n-1]),
		)
	})

	for i, trip := range trips {
		trip.index = i
		if i == 0 {
			continue
		}
		prev := trips[i-1]
		for pos := 0; pos < n; pos++ {
			if trip.departures[pos] < prev.departures[pos] || trip.arrivals[pos] < prev.arrivals[pos] {
				return nil, fmt.Errorf("trip %q overtakes %q at position %d: %w", trip.id, prev.id, pos, ErrUnsortedTimetable)
			}
		}
	}

	return &Pattern{
		index:          index,
		id:             spec.ID,
		routeID:        spec.RouteID,
		stops:          stops,
		noBoarding:     noBoarding,
		noAlight:       noAlight,
		timetable:      &Timetable{trips: trips},
		guaranteedFrom: make(map[int][]*GuaranteedTransfer),
		guaranteedTo:   make(map[int][]*GuaranteedTransfer),
	}, nil
}

func positionFlags(flags []bool, n int) ([]bool, error) {
	if flags == nil {
		return make([]bool, n), nil
	}
	if len(flags) != n {
		return nil, ErrStopTimesMismatch
	}
	return slices.Clone(flags), nil
}

func validateTransfer(tx Transfer, nStops int) error {
	if tx.FromStop < 0 || tx.FromStop >= nStops || tx.ToStop < 0 || tx.ToStop >= nStops {
		return fmt.Errorf("%w: %d -> %d: %w", ErrInvalidTransfer, tx.FromStop, tx.ToStop, ErrUnknownStop)
	}
	if tx.FromStop == tx.ToStop {
		return fmt.Errorf("%w: %d -> %d: same stop", ErrInvalidTransfer, tx.FromStop, tx.ToStop)
	}
	if tx.Duration < 0 {
		return fmt.Errorf("%w: %d -> %d: negative duration", ErrInvalidTransfer, tx.FromStop, tx.ToStop)
	}
	return nil
}

func (m *Model) linkGuaranteedTransfer(spec GuaranteedTransferSpec) error {
	from, err := m.resolveTrip(spec.FromPattern, spec.FromTripID, spec.FromStopPos)
	if err != nil {
		return fmt.Errorf("guaranteed transfer from: %w", err)
	}
	to, err := m.resolveTrip(spec.ToPattern, spec.ToTripID, spec.ToStopPos)
	if err != nil {
		return fmt.Errorf("guaranteed transfer to: %w", err)
	}

	tx := &GuaranteedTransfer{
		FromTrip:    from,
		FromStopPos: spec.FromStopPos,
		ToTrip:      to,
		ToStopPos:   spec.ToStopPos,
	}
	fromPattern := m.patterns[spec.FromPattern]
	toPattern := m.patterns[spec.ToPattern]
	fromPattern.guaranteedFrom[spec.FromStopPos] = append(fromPattern.guaranteedFrom[spec.FromStopPos], tx)
	toPattern.guaranteedTo[spec.ToStopPos] = append(toPattern.guaranteedTo[spec.ToStopPos], tx)
	m.guaranteedCount++
	return nil
}

func (m *Model) resolveTrip(patternIndex int, tripID string, stopPos int) (*TripSchedule, error) {
	if patternIndex < 0 || patternIndex >= len(m.patterns) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPattern, patternIndex)
	}
	p := m.patterns[patternIndex]
	if stopPos < 0 || stopPos >= len(p.stops) {
		return nil, fmt.Errorf("%w: position %d in pattern %q", ErrUnknownStop, stopPos, p.id)
	}
	trip := p.timetable.FindTrip(tripID)
	if trip == nil {
		return nil, fmt.Errorf("%w: %q in pattern %q", ErrUnknownTrip, tripID, p.id)
	}
	return trip, nil
}
