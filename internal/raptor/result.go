package raptor

import (
	"cmp"
	"slices"

	"github.com/karimhm/OpenTripPlanner/internal/raptor/calculator"
	"github.com/karimhm/OpenTripPlanner/internal/raptor/pareto"
)

// Status tells how a search ended. None of them is an error.
type Status int

const (
	StatusCompleted Status = iota
	// StatusCancelled means the context was done before every minute ran.
	// The paths of the minutes that finished are still returned.
	StatusCancelled
	// StatusNoStopsReachable means no minute reached any stop by transit.
	StatusNoStopsReachable
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusNoStopsReachable:
		return "no_stops_reachable"
	default:
		return "unknown"
	}
}

// MinuteResult is the outcome of one iteration minute.
type MinuteResult struct {
	Minute         int
	Rounds         int
	Pruned         bool
	PruneReason    string
	PrunedArrivals int
	ReachedTransit bool
	ArrivalCount   int
	Destinations   []DestinationArrival
	Paths          []Path
	// Arrivals is only kept when the request asks for it.
	Arrivals *Arrivals
}

type Stats struct {
	Minutes        int
	MinutesRun     int
	MinutesPruned  int
	Rounds         int
	Arrivals       int
	PrunedArrivals int
}

type Result struct {
	RequestID string
	Direction calculator.Direction
	Status    Status
	Paths     []Path
	// Minutes holds the minutes that ran, in iteration order.
	Minutes []MinuteResult
	Stats   Stats
}

// pathDominates orders paths by departure (later is better), arrival,
// transfers and cost. Paths equal in all four are ordered by signature and
// minute, so merging minutes gives the same set in any order.
func pathDominates(x, y Path) bool {
	if x.StartTime < y.StartTime || x.EndTime > y.EndTime || x.Transfers > y.Transfers || x.Cost > y.Cost {
		return false
	}
	if x.StartTime != y.StartTime || x.EndTime != y.EndTime || x.Transfers != y.Transfers || x.Cost != y.Cost {
		return true
	}
	return cmp.Or(cmp.Compare(x.signature(), y.signature()), cmp.Compare(x.Minute, y.Minute)) <= 0
}

// mergePaths takes the Pareto union of the paths of all minutes.
func mergePaths(minutes []MinuteResult) []Path {
	set := pareto.New(pathDominates)
	for _, m := range minutes {
		for _, p := range m.Paths {
			set.Add(p)
		}
	}
	paths := slices.Clone(set.Items())
	slices.SortFunc(paths, comparePaths)
	return paths
}

func comparePaths(a, b Path) int {
	return cmp.Or(
		cmp.Compare(a.StartTime, b.StartTime),
		cmp.Compare(a.EndTime, b.EndTime),
		cmp.Compare(a.Transfers, b.Transfers),
		cmp.Compare(a.Cost, b.Cost),
		cmp.Compare(a.signature(), b.signature()),
		cmp.Compare(a.Minute, b.Minute),
	)
}

func summarize(minutes []MinuteResult, total int) Stats {
	stats := Stats{Minutes: total}
	for _, m := range minutes {
		stats.MinutesRun++
		if m.Pruned {
			stats.MinutesPruned++
		}
		stats.Rounds += m.Rounds
		stats.Arrivals += m.ArrivalCount
		stats.PrunedArrivals += m.PrunedArrivals
	}
	return stats
}
