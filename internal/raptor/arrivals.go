package raptor

import (
	"iter"
	"slices"

	"github.com/karimhm/OpenTripPlanner/internal/raptor/calculator"
	"github.com/karimhm/OpenTripPlanner/internal/raptor/pareto"
)

// Kind tells how a stop was reached.
type Kind int

const (
	KindAccess Kind = iota
	KindTransit
	KindTransfer
)

func (k Kind) String() string {
	switch k {
	case KindAccess:
		return "access"
	case KindTransit:
		return "transit"
	case KindTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Ref points at an arrival by round and position in that round's arena.
type Ref struct {
	Round int
	Index int
}

// noRef is the back-pointer of access arrivals.
var noRef = Ref{Round: -1, Index: -1}

func (r Ref) Valid() bool {
	return r.Round >= 0
}

// Arrival is one way of reaching a stop in a round. Times are in search
// direction. Prev leads back toward the search origin.
type Arrival struct {
	Kind  Kind
	Stop  int
	Round int
	Time  int
	Cost  int
	Prev  Ref

	// Transit arrivals only.
	Pattern   int
	TripIndex int
	BoardPos  int
	AlightPos int
	BoardTime int
	// TripTime is the trip's time at AlightPos before slack.
	TripTime  int

	// Guaranteed is set when the trip was boarded through a guaranteed
	// transfer.
	Guaranteed bool

	// Access and transfer arrivals only.
	Duration int
}

// Transfers is the number of transfers used to reach the stop.
func (a Arrival) Transfers() int {
	return max(a.Round-1, 0)
}

type roundState struct {
	arena   []Arrival
	bags    map[int]*pareto.Set[int]
	touched []int
}

// Arrivals is the state of one iteration minute: for each round an
// append-only arena of arrivals plus, per stop, the indexes of those that
// are still non-dominated. Earlier rounds are never changed once the next
// round has started.
type Arrivals struct {
	calc   calculator.Calculator
	rounds []*roundState
}

func newArrivals(calc calculator.Calculator) *Arrivals {
	a := &Arrivals{calc: calc}
	a.nextRound()
	return a
}

// Round is the index of the round being filled.
func (a *Arrivals) Round() int {
	return len(a.rounds) - 1
}

// NumberOfRounds counts round 0.
func (a *Arrivals) NumberOfRounds() int {
	return len(a.rounds)
}

func (a *Arrivals) nextRound() {
	a.rounds = append(a.rounds, &roundState{bags: make(map[int]*pareto.Set[int])})
}

// weaklyDominates reports whether x is at least as good as y in time and
// cost. The transfer count is covered by the round the records are in.
func (a *Arrivals) weaklyDominates(x, y *Arrival) bool {
	return !a.calc.IsBest(y.Time, x.Time) && x.Cost <= y.Cost
}

// add records arrival in the current round unless a record for the same
// stop in this or an earlier round is at least as good. Records of the
// current round it dominates are dropped from the stop's bag.
func (a *Arrivals) add(arrival Arrival) (Ref, bool) {
	k := a.Round()
	arrival.Round = k

	for _, rs := range a.rounds {
		bag := rs.bags[arrival.Stop]
		if bag == nil {
			continue
		}
		for _, i := range bag.Items() {
			if a.weaklyDominates(&rs.arena[i], &arrival) {
				return Ref{}, false
			}
		}
	}

	rs := a.rounds[k]
	bag := rs.bags[arrival.Stop]
	if bag == nil {
		bag = pareto.New(func(x, y int) bool {
			return a.weaklyDominates(&rs.arena[x], &rs.arena[y])
		})
		rs.bags[arrival.Stop] = bag
		rs.touched = append(rs.touched, arrival.Stop)
	}
	index := len(rs.arena)
	rs.arena = append(rs.arena, arrival)
	bag.Add(index)
	return Ref{Round: k, Index: index}, true
}

func (a *Arrivals) Get(ref Ref) Arrival {
	return a.rounds[ref.Round].arena[ref.Index]
}

// Refs yields the retained arrivals at stop in round.
func (a *Arrivals) Refs(round, stop int) iter.Seq[Ref] {
	return func(yield func(Ref) bool) {
		if round < 0 || round >= len(a.rounds) {
			return
		}
		bag := a.rounds[round].bags[stop]
		if bag == nil {
			return
		}
		for i := range bag.All() {
			if !yield(Ref{Round: round, Index: i}) {
				return
			}
		}
	}
}

// MarkedStops returns the stops that received a record in round, in
// ascending order.
func (a *Arrivals) MarkedStops(round int) []int {
	if round < 0 || round >= len(a.rounds) {
		return nil
	}
	stops := slices.Clone(a.rounds[round].touched)
	slices.Sort(stops)
	return stops
}

// Best returns the best time any retained record reached stop with, over
// all rounds, and whether the stop was reached at all.
func (a *Arrivals) Best(stop int) (int, bool) {
	best, found := a.calc.UnreachedTime(), false
	for round := range a.rounds {
		for ref := range a.Refs(round, stop) {
			if t := a.Get(ref).Time; a.calc.IsBest(t, best) {
				best, found = t, true
			}
		}
	}
	return best, found
}

// Count is the number of retained records.
func (a *Arrivals) Count() int {
	n := 0
	for _, rs := range a.rounds {
		for _, bag := range rs.bags {
			n += bag.Len()
		}
	}
	return n
}

// ReachedByTransit reports whether any stop was reached by riding a trip.
func (a *Arrivals) ReachedByTransit() bool {
	for _, rs := range a.rounds {
		for _, bag := range rs.bags {
			for _, i := range bag.Items() {
				if rs.arena[i].Kind == KindTransit {
					return true
				}
			}
		}
	}
	return false
}
