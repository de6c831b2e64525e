// Package raptortest builds small transit models for tests.
package raptortest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karimhm/OpenTripPlanner/internal/transit"
	"github.com/karimhm/OpenTripPlanner/internal/utils"
)

// T parses a time of day like "08:00" or "08:00:30" and panics on bad
// input. It keeps test tables readable.
func T(value string) int {
	seconds, err := utils.ParseTimeOfDay(value)
	if err != nil {
		panic(err)
	}
	return seconds
}

// Trip describes a trip by one token per stop: "08:10" when arrival and
// departure are equal, or "08:10/08:12" for arrival/departure.
func Trip(id string, times string) transit.TripSpec {
	tokens := strings.Fields(times)
	spec := transit.TripSpec{
		ID:         id,
		Arrivals:   make([]int, len(tokens)),
		Departures: make([]int, len(tokens)),
	}
	for i, token := range tokens {
		arrival, departure, found := strings.Cut(token, "/")
		spec.Arrivals[i] = T(arrival)
		spec.Departures[i] = spec.Arrivals[i]
		if found {
			spec.Departures[i] = T(departure)
		}
	}
	return spec
}

// Network wraps a transit.ModelBuilder with stops named by id.
type Network struct {
	t       testing.TB
	builder *transit.ModelBuilder
	stops   map[string]int
	lat     float64
}

func NewNetwork(t testing.TB) *Network {
	return &Network{t: t, builder: transit.NewModelBuilder(), stops: make(map[string]int)}
}

// Stop returns the index of the stop, adding it on first use.
func (n *Network) Stop(id string) int {
	if index, ok := n.stops[id]; ok {
		return index
	}
	index := n.builder.AddStop(id, "Stop "+id, n.lat, 0)
	n.lat += 0.01
	n.stops[id] = index
	return index
}

// Pattern adds a pattern visiting the space separated stop ids and returns
// its index.
func (n *Network) Pattern(id, stops string, trips ...transit.TripSpec) int {
	var indexes []int
	for _, stop := range strings.Fields(stops) {
		indexes = append(indexes, n.Stop(stop))
	}
	return n.builder.AddPattern(transit.PatternSpec{ID: id, RouteID: id, Stops: indexes, Trips: trips})
}

// PatternSpec adds a pattern with full control over its flags.
func (n *Network) PatternSpec(spec transit.PatternSpec) int {
	return n.builder.AddPattern(spec)
}

func (n *Network) Transfer(from, to string, seconds int) {
	n.builder.AddTransfer(n.Stop(from), n.Stop(to), seconds)
}

func (n *Network) Guaranteed(spec transit.GuaranteedTransferSpec) {
	n.builder.AddGuaranteedTransfer(spec)
}

func (n *Network) Build() *transit.Model {
	n.t.Helper()
	model, err := n.builder.Build()
	require.NoError(n.t, err)
	return model
}

// Leg is an access or egress leg to the named stop.
func (n *Network) Leg(stop string, seconds int) transit.AccessEgress {
	return transit.AccessEgress{Stop: n.Stop(stop), Duration: seconds}
}
