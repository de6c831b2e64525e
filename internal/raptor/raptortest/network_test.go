package raptortest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrip(t *testing.T) {
	trip := Trip("Trip1", "08:00 08:10/08:12 08:25")
	assert.Equal(t, []int{28800, 29400, 30300}, trip.Arrivals)
	assert.Equal(t, []int{28800, 29520, 30300}, trip.Departures)
	assert.Panics(t, func() { Trip("bad", "8") })
}

func TestNetwork(t *testing.T) {
	n := NewNetwork(t)
	p := n.Pattern("P", "A B C", Trip("t", "08:00 08:10 08:20"))
	n.Transfer("C", "D", 90)
	model := n.Build()

	require.Equal(t, 4, model.NumberOfStops())
	assert.Equal(t, n.Stop("B"), model.Pattern(p).StopIndex(1))
	assert.Equal(t, 1, model.Stats().Transfers)
	assert.Equal(t, n.Stop("D"), n.Leg("D", 30).Stop)
}
