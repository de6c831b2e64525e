package transit

// Leg is a non-transit connection with a fixed duration: a walking transfer
// between stops or an access/egress leg produced by the street search.
type Leg interface {
	DurationInSeconds() int
	// EarliestDepartureTime returns the earliest time the leg can start
	// when the traveller is ready at requestedDepartureTime.
	EarliestDepartureTime(requestedDepartureTime int) int
	// LatestArrivalTime returns the latest time the leg can end when the
	// traveller must be at its end no later than requestedArrivalTime.
	LatestArrivalTime(requestedArrivalTime int) int
}

// Transfer is a walking leg between two stops.
type Transfer struct {
	FromStop int
	ToStop   int
	Duration int
}

func (t Transfer) DurationInSeconds() int {
	return t.Duration
}

func (t Transfer) EarliestDepartureTime(requestedDepartureTime int) int {
	return requestedDepartureTime
}

func (t Transfer) LatestArrivalTime(requestedArrivalTime int) int {
	return requestedArrivalTime
}

// reversed swaps the ends of the transfer.
func (t Transfer) reversed() Transfer {
	return Transfer{FromStop: t.ToStop, ToStop: t.FromStop, Duration: t.Duration}
}

// AccessEgress connects the query origin or destination with a stop.
type AccessEgress struct {
	Stop     int `validate:"gte=0"`
	Duration int `validate:"gte=0"`
}

func (a AccessEgress) DurationInSeconds() int {
	return a.Duration
}

func (a AccessEgress) EarliestDepartureTime(requestedDepartureTime int) int {
	return requestedDepartureTime
}

func (a AccessEgress) LatestArrivalTime(requestedArrivalTime int) int {
	return requestedArrivalTime
}
