package transit

// Pattern is a route variant: an ordered stop sequence shared by all the
// trips of its timetable.
type Pattern struct {
	index      int
	id         string
	routeID    string
	stops      []int
	noBoarding []bool
	noAlight   []bool
	timetable  *Timetable

	// guaranteedFrom is owned by this pattern and keyed by the stop position
	// the "from" trip alights at. guaranteedTo holds references to transfers
	// owned by other patterns, keyed by the "to" boarding position.
	guaranteedFrom map[int][]*GuaranteedTransfer
	guaranteedTo   map[int][]*GuaranteedTransfer
}

func (p *Pattern) Index() int {
	return p.index
}

func (p *Pattern) ID() string {
	return p.id
}

func (p *Pattern) RouteID() string {
	return p.routeID
}

func (p *Pattern) NumberOfStops() int {
	return len(p.stops)
}

// StopIndex returns the stop visited at the given position.
func (p *Pattern) StopIndex(stopPosInPattern int) int {
	return p.stops[stopPosInPattern]
}

func (p *Pattern) Timetable() *Timetable {
	return p.timetable
}

// BoardingPossibleAt reports whether passengers may board at the position.
func (p *Pattern) BoardingPossibleAt(stopPosInPattern int) bool {
	return !p.noBoarding[stopPosInPattern]
}

// AlightingPossibleAt reports whether passengers may alight at the position.
func (p *Pattern) AlightingPossibleAt(stopPosInPattern int) bool {
	return !p.noAlight[stopPosInPattern]
}

// GuaranteedTransfersFrom lists the guaranteed transfers whose "from" trip
// belongs to this pattern and alights at the given position.
func (p *Pattern) GuaranteedTransfersFrom(stopPosInPattern int) []*GuaranteedTransfer {
	return p.guaranteedFrom[stopPosInPattern]
}

// GuaranteedTransfersTo lists the guaranteed transfers whose "to" trip
// belongs to this pattern and boards at the given position.
func (p *Pattern) GuaranteedTransfersTo(stopPosInPattern int) []*GuaranteedTransfer {
	return p.guaranteedTo[stopPosInPattern]
}

// GuaranteedTransfer is an operator-declared connection between two trips.
// It overrides the normal board, alight and transfer slack.
type GuaranteedTransfer struct {
	FromTrip    *TripSchedule
	FromStopPos int
	ToTrip      *TripSchedule
	ToStopPos   int
}

// MatchesFrom reports whether trip alighting at stopPos is the source of
// the transfer.
func (tx *GuaranteedTransfer) MatchesFrom(trip *TripSchedule, stopPos int) bool {
	return tx.FromTrip == trip && tx.FromStopPos == stopPos
}

// MatchesTo reports whether trip boarding at stopPos is the target of the
// transfer.
func (tx *GuaranteedTransfer) MatchesTo(trip *TripSchedule, stopPos int) bool {
	return tx.ToTrip == trip && tx.ToStopPos == stopPos
}
