package raptor

// Phase is a step of the search lifecycle.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseIteratingMinutes
	PhaseRunningRound
	PhaseTransferring
	PhaseNextMinute
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseIteratingMinutes:
		return "iterating_minutes"
	case PhaseRunningRound:
		return "running_round"
	case PhaseTransferring:
		return "transferring"
	case PhaseNextMinute:
		return "next_minute"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event is passed to an Observer on every phase change. Minute and Round
// are zero when they do not apply.
type Event struct {
	Phase  Phase
	Minute int
	Round  int
}

// Observer receives lifecycle events. With parallelism above one it is
// called from several goroutines at once.
type Observer func(Event)

func (o Observer) notify(e Event) {
	if o != nil {
		o(e)
	}
}
