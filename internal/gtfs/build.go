package gtfs

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/jamespfennell/gtfs"

	"github.com/karimhm/OpenTripPlanner/internal/transit"
	"github.com/karimhm/OpenTripPlanner/internal/utils"
)

var ErrInvalidOptions = errors.New("invalid model options")

// Options controls how a parsed feed becomes a transit model.
type Options struct {
	// ServiceDate keeps only trips whose service runs on that day. The zero
	// value keeps every trip.
	ServiceDate time.Time
	WalkRadius  float64
	WalkSpeed   float64
	Logger      *slog.Logger
}

// tripCandidate is a trip resolved against the model's stop indexes and
// converted to seconds since midnight.
type tripCandidate struct {
	id          string
	routeID     string
	serviceID   string
	blockID     string
	stops       []int
	noBoarding  []bool
	noAlighting []bool
	arrivals    []int
	departures  []int
}

// buildReport counts what happened to the feed's trips.
type buildReport struct {
	inactive   int
	invalid    int
	expanded   int
	siblings   int
	interlined int
	transfers  int
	generated  int
	suppressed int
}

// BuildModel converts a parsed static feed into a transit model. Trips with
// the same route and stop sequence share a pattern unless one overtakes
// another, in which case the overtaking trip moves to a sibling pattern.
func BuildModel(static *gtfs.Static, opts Options) (*transit.Model, error) {
	if err := utils.ValidateRadius(opts.WalkRadius); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if opts.WalkRadius > 0 && opts.WalkSpeed <= 0 {
		return nil, fmt.Errorf("%w: walk speed must be positive", ErrInvalidOptions)
	}
	logger := cmp.Or(opts.Logger, slog.Default())

	var report buildReport
	b := transit.NewModelBuilder()

	stopIndex := make(map[string]int, len(static.Stops))
	for i := range static.Stops {
		stop := &static.Stops[i]
		if stop.Type == gtfs.StopType_Station {
			continue
		}
		stopIndex[stop.Id] = b.AddStop(stop.Id, stop.Name, deref(stop.Latitude), deref(stop.Longitude))
	}

	var candidates []tripCandidate
	for i := range static.Trips {
		trip := &static.Trips[i]
		if !opts.ServiceDate.IsZero() && !serviceActive(trip.Service, opts.ServiceDate) {
			report.inactive++
			continue
		}
		c, err := newTripCandidate(trip, stopIndex)
		if err != nil {
			report.invalid++
			logger.Debug("skipping trip", slog.String("trip_id", trip.ID), slog.String("reason", err.Error()))
			continue
		}
		if len(trip.Frequencies) == 0 {
			candidates = append(candidates, c)
			continue
		}
		expanded := c.expand(trip.Frequencies)
		report.expanded += len(expanded)
		candidates = append(candidates, expanded...)
	}

	tripPattern := addPatterns(b, candidates, &report)
	addInterlining(b, candidates, tripPattern, &report)
	addTransfers(b, static, stopIndex, servedStops(candidates), opts, &report)

	model, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("error building transit model: %w", err)
	}

	logger.Debug("transit model built",
		slog.Int("trips_inactive", report.inactive),
		slog.Int("trips_invalid", report.invalid),
		slog.Int("trips_from_frequencies", report.expanded),
		slog.Int("sibling_patterns", report.siblings),
		slog.Int("interlined_trips", report.interlined),
		slog.Int("feed_transfers", report.transfers),
		slog.Int("generated_transfers", report.generated),
		slog.Int("suppressed_transfers", report.suppressed))

	return model, nil
}

func newTripCandidate(trip *gtfs.ScheduledTrip, stopIndex map[string]int) (tripCandidate, error) {
	n := len(trip.StopTimes)
	if n < 2 {
		return tripCandidate{}, fmt.Errorf("%d stop times", n)
	}
	c := tripCandidate{
		id:          trip.ID,
		routeID:     trip.Route.Id,
		serviceID:   trip.Service.Id,
		blockID:     trip.BlockID,
		stops:       make([]int, n),
		noBoarding:  make([]bool, n),
		noAlighting: make([]bool, n),
		arrivals:    make([]int, n),
		departures:  make([]int, n),
	}
	for pos, st := range trip.StopTimes {
		index, ok := stopIndex[st.Stop.Id]
		if !ok {
			return tripCandidate{}, fmt.Errorf("stop %q is not a boarding location", st.Stop.Id)
		}
		c.stops[pos] = index
		c.arrivals[pos] = int(st.ArrivalTime / time.Second)
		c.departures[pos] = int(st.DepartureTime / time.Second)
		c.noBoarding[pos] = st.PickupType == gtfs.PickupDropOffPolicy_No
		c.noAlighting[pos] = st.DropOffType == gtfs.PickupDropOffPolicy_No

		if c.departures[pos] < c.arrivals[pos] || (pos > 0 && c.arrivals[pos] < c.departures[pos-1]) {
			return tripCandidate{}, fmt.Errorf("times decrease at stop sequence %d", st.StopSequence)
		}
	}
	return c, nil
}

// expand turns a frequency based trip into one concrete trip per headway.
// The stop times of the template are shifted so the first departure lands
// on each start time.
func (c tripCandidate) expand(frequencies []gtfs.Frequency) []tripCandidate {
	var trips []tripCandidate
	for _, f := range frequencies {
		headway := int(f.Headway / time.Second)
		if headway <= 0 {
			continue
		}
		end := int(f.EndTime / time.Second)
		for start := int(f.StartTime / time.Second); start < end; start += headway {
			trips = append(trips, c.shifted(start))
		}
	}
	return trips
}

func (c tripCandidate) shifted(start int) tripCandidate {
	offset := start - c.departures[0]
	shift := func(times []int) []int {
		out := make([]int, len(times))
		for i, t := range times {
			out[i] = t + offset
		}
		return out
	}
	trip := c
	trip.id = c.id + "@" + utils.FormatTimeOfDay(start)
	trip.blockID = ""
	trip.arrivals = shift(c.arrivals)
	trip.departures = shift(c.departures)
	return trip
}

// patternKey groups trips running the same route over the same stops with
// the same pickup and drop-off restrictions.
func (c tripCandidate) patternKey() string {
	var sb strings.Builder
	sb.WriteString(c.routeID)
	for pos, stop := range c.stops {
		fmt.Fprintf(&sb, "|%d", stop)
		if c.noBoarding[pos] {
			sb.WriteByte('b')
		}
		if c.noAlighting[pos] {
			sb.WriteByte('a')
		}
	}
	return sb.String()
}

func (c tripCandidate) overtakes(prev tripCandidate) bool {
	for pos := range c.stops {
		if c.departures[pos] < prev.departures[pos] || c.arrivals[pos] < prev.arrivals[pos] {
			return true
		}
	}
	return false
}

func (c tripCandidate) spec() transit.TripSpec {
	return transit.TripSpec{ID: c.id, Arrivals: c.arrivals, Departures: c.departures}
}

func compareCandidates(a, b tripCandidate) int {
	return cmp.Or(
		cmp.Compare(a.departures[0], b.departures[0]),
		cmp.Compare(a.arrivals[len(a.arrivals)-1], b.arrivals[len(b.arrivals)-1]),
	)
}

// addPatterns registers one or more patterns per group and returns the
// pattern index of every trip id.
func addPatterns(b *transit.ModelBuilder, candidates []tripCandidate, report *buildReport) map[string]int {
	var keys []string
	groups := make(map[string][]tripCandidate)
	for _, c := range candidates {
		key := c.patternKey()
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], c)
	}

	tripPattern := make(map[string]int, len(candidates))
	perRoute := make(map[string]int)
	for _, key := range keys {
		trips := groups[key]
		slices.SortStableFunc(trips, compareCandidates)

		var siblings [][]tripCandidate
		for _, trip := range trips {
			placed := false
			for i, sibling := range siblings {
				if !trip.overtakes(sibling[len(sibling)-1]) {
					siblings[i] = append(sibling, trip)
					placed = true
					break
				}
			}
			if !placed {
				siblings = append(siblings, []tripCandidate{trip})
			}
		}
		report.siblings += len(siblings) - 1

		first := trips[0]
		number := perRoute[first.routeID]
		perRoute[first.routeID]++
		for i, sibling := range siblings {
			id := fmt.Sprintf("%s:%d", first.routeID, number)
			if i > 0 {
				id = fmt.Sprintf("%s:%d", id, i)
			}
			spec := transit.PatternSpec{
				ID:          id,
				RouteID:     first.routeID,
				Stops:       first.stops,
				NoBoarding:  first.noBoarding,
				NoAlighting: first.noAlighting,
			}
			for _, trip := range sibling {
				spec.Trips = append(spec.Trips, trip.spec())
			}
			index := b.AddPattern(spec)
			for _, trip := range sibling {
				tripPattern[trip.id] = index
			}
		}
	}
	return tripPattern
}

// addInterlining links consecutive trips of a block that end and start at
// the same stop. Passengers stay on the vehicle, so the connection is
// guaranteed.
func addInterlining(b *transit.ModelBuilder, candidates []tripCandidate, tripPattern map[string]int, report *buildReport) {
	blocks := make(map[string][]tripCandidate)
	var keys []string
	for _, c := range candidates {
		if c.blockID == "" {
			continue
		}
		key := c.blockID + "|" + c.serviceID
		if _, ok := blocks[key]; !ok {
			keys = append(keys, key)
		}
		blocks[key] = append(blocks[key], c)
	}

	for _, key := range keys {
		trips := blocks[key]
		slices.SortStableFunc(trips, compareCandidates)
		for i := 1; i < len(trips); i++ {
			prev, next := trips[i-1], trips[i]
			last := len(prev.stops) - 1
			if prev.stops[last] != next.stops[0] || next.departures[0] < prev.arrivals[last] {
				continue
			}
			b.AddGuaranteedTransfer(transit.GuaranteedTransferSpec{
				FromPattern: tripPattern[prev.id],
				FromTripID:  prev.id,
				FromStopPos: last,
				ToPattern:   tripPattern[next.id],
				ToTripID:    next.id,
				ToStopPos:   0,
			})
			report.interlined++
		}
	}
}

func servedStops(candidates []tripCandidate) []int {
	var stops []int
	seen := make(map[int]bool)
	for _, c := range candidates {
		for _, stop := range c.stops {
			if !seen[stop] {
				seen[stop] = true
				stops = append(stops, stop)
			}
		}
	}
	slices.Sort(stops)
	return stops
}

// serviceActive reports whether service runs on date. Added and removed
// dates from calendar_dates.txt override the weekly pattern.
func serviceActive(service *gtfs.Service, date time.Time) bool {
	if service == nil {
		return false
	}
	for _, d := range service.RemovedDates {
		if sameDay(d, date) {
			return false
		}
	}
	for _, d := range service.AddedDates {
		if sameDay(d, date) {
			return true
		}
	}
	day := dayOnly(date)
	if day.Before(dayOnly(service.StartDate)) || day.After(dayOnly(service.EndDate)) {
		return false
	}
	switch date.Weekday() {
	case time.Monday:
		return service.Monday
	case time.Tuesday:
		return service.Tuesday
	case time.Wednesday:
		return service.Wednesday
	case time.Thursday:
		return service.Thursday
	case time.Friday:
		return service.Friday
	case time.Saturday:
		return service.Saturday
	default:
		return service.Sunday
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dayOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
