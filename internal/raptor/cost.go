package raptor

import "math"

// CostParams configures the generalized cost. Board cost is in seconds and
// the reluctance factors weigh seconds spent waiting, riding and walking.
type CostParams struct {
	BoardCost         int     `yaml:"board_cost" validate:"gte=0"`
	WaitReluctance    float64 `yaml:"wait_reluctance" validate:"gte=0"`
	TransitReluctance float64 `yaml:"transit_reluctance" validate:"gte=0"`
	WalkReluctance    float64 `yaml:"walk_reluctance" validate:"gte=0"`
}

func DefaultCostParams() CostParams {
	return CostParams{
		BoardCost:         60,
		WaitReluctance:    1.0,
		TransitReluctance: 1.0,
		WalkReluctance:    2.0,
	}
}

// costModel computes costs in centi-seconds so they stay integers.
type costModel struct {
	boardCost int
	wait      int
	transit   int
	walk      int
}

func newCostModel(p CostParams) costModel {
	return costModel{
		boardCost: p.BoardCost * 100,
		wait:      toFactor(p.WaitReluctance),
		transit:   toFactor(p.TransitReluctance),
		walk:      toFactor(p.WalkReluctance),
	}
}

func toFactor(reluctance float64) int {
	return int(math.Round(reluctance * 100))
}

// boarding is the cost of getting on a vehicle after waiting for it. Time
// spent before the first boarding is free, so the same trip reached from
// different iteration minutes costs the same.
func (c costModel) boarding(round, waitTime int) int {
	if round <= 1 {
		return c.boardCost
	}
	return c.boardCost + c.wait*waitTime
}

func (c costModel) riding(duration int) int {
	return c.transit * duration
}

func (c costModel) walking(duration int) int {
	return c.walk * duration
}
