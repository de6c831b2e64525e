package calculator

import "github.com/karimhm/OpenTripPlanner/internal/transit"

// findGuaranteedTarget returns the target of the first transfer accepted by
// matches whose boarding time at boardStopPos is not better than deadline.
// The deadline is the trip time of the arrival with the alight slack taken
// back out, so the guarantee is not charged slack a second time.
func findGuaranteedTarget(
	c Calculator,
	transfers []*transit.GuaranteedTransfer,
	boardStopPos int,
	deadline int,
	matches func(*transit.GuaranteedTransfer) bool,
	target func(*transit.GuaranteedTransfer) *transit.TripSchedule,
) (*transit.TripSchedule, bool) {
	matched := false
	for _, tx := range transfers {
		if !matches(tx) {
			continue
		}
		matched = true
		trip := target(tx)
		if !c.IsBest(c.BoardTripTime(trip, boardStopPos), deadline) {
			return trip, true
		}
	}
	return nil, matched
}
