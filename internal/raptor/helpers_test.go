package raptor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karimhm/OpenTripPlanner/internal/raptor/calculator"
	"github.com/karimhm/OpenTripPlanner/internal/transit"
)

func forwardRequest(edt, window int, access, egress transit.AccessEgress) Request {
	return Request{
		Direction:             calculator.Forward,
		EarliestDepartureTime: edt,
		LatestArrivalTime:     calculator.TimeNotSet,
		SearchWindowInSeconds: window,
		Access:                []transit.AccessEgress{access},
		Egress:                []transit.AccessEgress{egress},
		Cost:                  DefaultCostParams(),
		Tuning:                DefaultTuning(),
	}
}

func reverseRequest(lat, window int, access, egress transit.AccessEgress) Request {
	req := forwardRequest(calculator.TimeNotSet, window, access, egress)
	req.Direction = calculator.Reverse
	req.LatestArrivalTime = lat
	return req
}

func route(t *testing.T, model *transit.Model, req Request, opts ...Option) *Result {
	t.Helper()
	result, err := NewService(model, opts...).Route(context.Background(), req)
	require.NoError(t, err)
	return result
}

func tripIDs(p Path) []string {
	var ids []string
	for _, leg := range p.TransitLegs() {
		ids = append(ids, leg.TripID)
	}
	return ids
}
