package transit

// Stop is a physical or virtual stop location. Routing only uses its index.
type Stop struct {
	Index     int
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
}

// Model is the read-only transit data shared by all searches on one
// dataset version. It is never mutated after Build.
type Model struct {
	stops            []Stop
	stopIndex        map[string]int
	patterns         []*Pattern
	patternsByStop   [][]int
	transfersFrom    [][]Transfer
	reverseTransfers [][]Transfer
	guaranteedCount  int
}

// Stats summarises the model for logging and the stats command.
type Stats struct {
	Stops               int
	Patterns            int
	Trips               int
	Transfers           int
	GuaranteedTransfers int
}

func (m *Model) NumberOfStops() int {
	return len(m.stops)
}

func (m *Model) Stop(index int) Stop {
	return m.stops[index]
}

// StopByID returns the index of the stop with the given id.
func (m *Model) StopByID(id string) (int, bool) {
	index, ok := m.stopIndex[id]
	return index, ok
}

func (m *Model) NumberOfPatterns() int {
	return len(m.patterns)
}

func (m *Model) Pattern(index int) *Pattern {
	return m.patterns[index]
}

// PatternsForStop returns the indexes of all patterns visiting stop, in
// ascending order.
func (m *Model) PatternsForStop(stop int) []int {
	return m.patternsByStop[stop]
}

// TransfersFrom returns the walking transfers leaving stop.
func (m *Model) TransfersFrom(stop int) []Transfer {
	return m.transfersFrom[stop]
}

// ReverseTransfers returns the walking transfers arriving at stop with
// their ends swapped, so FromStop is stop. This is the adjacency a search
// moving backward in time walks along.
func (m *Model) ReverseTransfers(stop int) []Transfer {
	return m.reverseTransfers[stop]
}

func (m *Model) Stats() Stats {
	stats := Stats{
		Stops:               len(m.stops),
		Patterns:            len(m.patterns),
		GuaranteedTransfers: m.guaranteedCount,
	}
	for _, p := range m.patterns {
		stats.Trips += p.timetable.NumberOfTrips()
	}
	for _, txs := range m.transfersFrom {
		stats.Transfers += len(txs)
	}
	return stats
}
