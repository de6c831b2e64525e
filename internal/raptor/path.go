package raptor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/karimhm/OpenTripPlanner/internal/raptor/calculator"
)

// NoStop marks the street end of an access or egress leg.
const NoStop = -1

type LegKind int

const (
	LegAccess LegKind = iota
	LegTransit
	LegTransfer
	LegEgress
)

func (k LegKind) String() string {
	switch k {
	case LegAccess:
		return "access"
	case LegTransit:
		return "transit"
	case LegTransfer:
		return "transfer"
	case LegEgress:
		return "egress"
	default:
		return "unknown"
	}
}

// Leg is one part of a path in clock order. Pattern is -1 and TripID is
// empty for legs that do not ride a trip.
type Leg struct {
	Kind       LegKind
	FromStop   int
	ToStop     int
	StartTime  int
	EndTime    int
	Pattern    int
	TripID     string
	TripIndex  int
	BoardPos   int
	AlightPos  int
	Guaranteed bool
}

func (l Leg) Duration() int {
	return l.EndTime - l.StartTime
}

// flipped turns a leg recorded in reverse search order into clock order.
func (l Leg) flipped() Leg {
	l.FromStop, l.ToStop = l.ToStop, l.FromStop
	l.StartTime, l.EndTime = l.EndTime, l.StartTime
	l.BoardPos, l.AlightPos = l.AlightPos, l.BoardPos
	switch l.Kind {
	case LegAccess:
		l.Kind = LegEgress
	case LegEgress:
		l.Kind = LegAccess
	}
	return l
}

// Path is an itinerary from origin to destination. Times are clock times;
// Minute is the iteration minute that found it.
type Path struct {
	StartTime int
	EndTime   int
	Transfers int
	Cost      int
	Minute    int
	Legs      []Leg
}

func (p Path) Duration() int {
	return p.EndTime - p.StartTime
}

// Stops returns the stops the path visits in travel order.
func (p Path) Stops() []int {
	var stops []int
	for _, leg := range p.Legs {
		for _, stop := range []int{leg.FromStop, leg.ToStop} {
			if stop == NoStop || (len(stops) > 0 && stops[len(stops)-1] == stop) {
				continue
			}
			stops = append(stops, stop)
		}
	}
	return stops
}

// TransitLegs returns the legs riding a trip.
func (p Path) TransitLegs() []Leg {
	var legs []Leg
	for _, leg := range p.Legs {
		if leg.Kind == LegTransit {
			legs = append(legs, leg)
		}
	}
	return legs
}

// signature identifies the legs of a path for tie-breaking and
// de-duplication. Two paths with the same signature travel identically.
func (p Path) signature() string {
	var b strings.Builder
	for _, leg := range p.Legs {
		fmt.Fprintf(&b, "%d:%d>%d@%d-%d", leg.Kind, leg.FromStop, leg.ToStop, leg.StartTime, leg.EndTime)
		if leg.Kind == LegTransit {
			fmt.Fprintf(&b, "#%d/%s/%d-%d", leg.Pattern, leg.TripID, leg.BoardPos, leg.AlightPos)
		}
		b.WriteByte(';')
	}
	return b.String()
}

// path follows the back-pointers of d to the search origin. Legs are
// collected destination first in search order and then put in clock order.
// The access leg is shifted to end just in time for the first boarding.
func (w *worker) path(state *Arrivals, d DestinationArrival, minute int) Path {
	last := state.Get(d.Arrival)
	legs := []Leg{{
		Kind:      LegEgress,
		FromStop:  last.Stop,
		ToStop:    NoStop,
		StartTime: w.calc.DepartureTime(d.Leg, last.Time),
		EndTime:   d.Time,
		Pattern:   -1,
	}}

	for ref := d.Arrival; ref.Valid(); {
		a := state.Get(ref)
		switch a.Kind {
		case KindTransit:
			pattern := w.model.Pattern(a.Pattern)
			legs = append(legs, Leg{
				Kind:       LegTransit,
				FromStop:   pattern.StopIndex(a.BoardPos),
				ToStop:     a.Stop,
				StartTime:  a.BoardTime,
				EndTime:    a.TripTime,
				Pattern:    a.Pattern,
				TripID:     pattern.Timetable().Trip(a.TripIndex).ID(),
				TripIndex:  a.TripIndex,
				BoardPos:   a.BoardPos,
				AlightPos:  a.AlightPos,
				Guaranteed: a.Guaranteed,
			})
		case KindTransfer:
			legs = append(legs, Leg{
				Kind:      LegTransfer,
				FromStop:  state.Get(a.Prev).Stop,
				ToStop:    a.Stop,
				StartTime: w.calc.MinusDuration(a.Time, a.Duration),
				EndTime:   a.Time,
				Pattern:   -1,
			})
		case KindAccess:
			end := w.calc.MinusDuration(legs[len(legs)-1].StartTime, w.slack.BoardSlack(1))
			legs = append(legs, Leg{
				Kind:      LegAccess,
				FromStop:  NoStop,
				ToStop:    a.Stop,
				StartTime: w.calc.MinusDuration(end, a.Duration),
				EndTime:   end,
				Pattern:   -1,
			})
		}
		ref = a.Prev
	}

	// The only place outside the calculator that looks at the direction:
	// a forward search collected the legs backwards in time, a reverse
	// search collected them in clock order but with each leg inverted.
	if w.calc.Direction() == calculator.Forward {
		slices.Reverse(legs)
	} else {
		for i := range legs {
			legs[i] = legs[i].flipped()
		}
	}

	return Path{
		StartTime: legs[0].StartTime,
		EndTime:   legs[len(legs)-1].EndTime,
		Transfers: d.Transfers(),
		Cost:      d.Cost,
		Minute:    minute,
		Legs:      legs,
	}
}
