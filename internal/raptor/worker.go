package raptor

import (
	"slices"

	"github.com/karimhm/OpenTripPlanner/internal/raptor/calculator"
	"github.com/karimhm/OpenTripPlanner/internal/raptor/pareto"
	"github.com/karimhm/OpenTripPlanner/internal/transit"
)

// DestinationArrival is a way of reaching the destination: the transit
// arrival the last leg starts from plus that leg.
type DestinationArrival struct {
	Arrival Ref
	Leg     transit.AccessEgress
	Time    int
	Cost    int
	Round   int
}

func (d DestinationArrival) Transfers() int {
	return d.Round - 1
}

// patternRide is a trip boarded on the pattern being routed.
type patternRide struct {
	prev       Ref
	trip       *transit.TripSchedule
	tripIndex  int
	boardPos   int
	boardTime  int
	cost       int
	guaranteed bool
}

// worker runs the rounds of one iteration minute. It only reads the model
// and request, so one worker can serve minutes on several goroutines.
type worker struct {
	model    *transit.Model
	req      Request
	calc     calculator.Calculator
	slack    calculator.SlackProvider
	cost     costModel
	origin   []transit.AccessEgress
	egress   map[int][]transit.AccessEgress
	observer Observer

	// firstMinute is the minute RangeRaptorMinutes yields first.
	firstMinute int
}

func newWorker(model *transit.Model, req Request, observer Observer) (*worker, error) {
	calc, err := calculator.New(req.Direction, req.calculatorParams())
	if err != nil {
		return nil, err
	}
	origin, destination := calc.OriginLegs(req.Access, req.Egress)
	egress := make(map[int][]transit.AccessEgress)
	for _, leg := range destination {
		egress[leg.Stop] = append(egress[leg.Stop], leg)
	}
	w := &worker{
		model:    model,
		req:      req,
		calc:     calc,
		slack:    calc.SlackProvider(req.Slack),
		cost:     newCostModel(req.Cost),
		origin:   origin,
		egress:   egress,
		observer: observer,
	}
	for minute := range calc.RangeRaptorMinutes() {
		w.firstMinute = minute
		break
	}
	return w, nil
}

// minuteRun is the mutable state of one minute.
type minuteRun struct {
	*worker
	minute       int
	state        *Arrivals
	destinations *pareto.Set[DestinationArrival]
	result       *MinuteResult
}

func (w *worker) runMinute(minute int) MinuteResult {
	result := MinuteResult{Minute: minute}
	w.observer.notify(Event{Phase: PhaseIteratingMinutes, Minute: minute})
	defer w.observer.notify(Event{Phase: PhaseNextMinute, Minute: minute})

	if w.calc.ExceedsTimeLimit(minute) {
		result.Pruned = true
		result.PruneReason = w.calc.ExceedsTimeLimitReason()
		return result
	}

	run := &minuteRun{
		worker:       w,
		minute:       minute,
		state:        newArrivals(w.calc),
		destinations: pareto.New(w.destinationDominates),
		result:       &result,
	}
	run.seed(minute)

	for round := 1; round <= w.req.Tuning.MaxRounds; round++ {
		if len(run.state.MarkedStops(round-1)) == 0 {
			break
		}
		run.state.nextRound()
		result.Rounds = round

		w.observer.notify(Event{Phase: PhaseRunningRound, Minute: minute, Round: round})
		run.routeTransit(round)

		reached := run.transitArrivals(round)
		run.reachDestination(reached, round)

		w.observer.notify(Event{Phase: PhaseTransferring, Minute: minute, Round: round})
		run.transfer(reached)
	}

	result.ReachedTransit = run.state.ReachedByTransit()
	result.ArrivalCount = run.state.Count()
	result.Destinations = slices.Clone(run.destinations.Items())
	for _, d := range result.Destinations {
		result.Paths = append(result.Paths, w.path(run.state, d, minute))
	}
	if w.req.KeepArrivals {
		result.Arrivals = run.state
	}
	return result
}

// seed fills round 0 with the legs leaving the search origin.
func (r *minuteRun) seed(minute int) {
	for _, leg := range r.origin {
		time := r.calc.PlusDuration(r.calc.DepartureTime(leg, minute), leg.Duration)
		if r.calc.ExceedsTimeLimit(time) {
			r.result.PrunedArrivals++
			continue
		}
		r.state.add(Arrival{
			Kind:     KindAccess,
			Stop:     leg.Stop,
			Time:     time,
			Cost:     r.cost.walking(leg.Duration),
			Prev:     noRef,
			Duration: leg.Duration,
		})
	}
}

// patternsTouched returns, in ascending order, the patterns visiting a
// stop marked in round.
func (r *minuteRun) patternsTouched(round int) []int {
	seen := make(map[int]struct{})
	var patterns []int
	for _, stop := range r.state.MarkedStops(round) {
		for _, p := range r.model.PatternsForStop(stop) {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				patterns = append(patterns, p)
			}
		}
	}
	slices.Sort(patterns)
	return patterns
}

// tripSearch uses the exact-match search in round 1 of every range search
// minute except the first. The first minute boards any later trip, so trips
// leaving after the window end are still found.
func (r *minuteRun) tripSearch(pattern *transit.Pattern, round int) calculator.TripSearch {
	if round == 1 && !r.calc.OneIterationOnly() && r.minute != r.firstMinute {
		return r.calc.CreateExactTripSearch(pattern.Timetable())
	}
	return r.calc.CreateTripSearch(pattern.Timetable())
}

func (r *minuteRun) routeTransit(round int) {
	for _, index := range r.patternsTouched(round - 1) {
		pattern := r.model.Pattern(index)
		search := r.tripSearch(pattern, round)

		var current int
		rides := pareto.New(func(x, y patternRide) bool {
			return r.rideDominates(x, y, current)
		})

		for pos := range r.calc.PatternStopIterator(pattern.NumberOfStops()) {
			current = pos
			if rides.Len() > 0 && r.calc.AlightingPossible(pattern, pos) {
				for _, ride := range rides.Items() {
					r.alight(pattern, ride, pos)
				}
			}
			if r.calc.BoardingPossible(pattern, pos) {
				for ref := range r.state.Refs(round-1, pattern.StopIndex(pos)) {
					r.board(rides, search, pattern, ref, pos, round)
				}
			}
		}
	}
}

// rideDominates compares two rides at stop position pos: x is at least as
// good when its trip is not later there and riding on from pos costs no
// more.
func (r *minuteRun) rideDominates(x, y patternRide, pos int) bool {
	tx := r.calc.BoardTripTime(x.trip, pos)
	ty := r.calc.BoardTripTime(y.trip, pos)
	return !r.calc.IsBest(ty, tx) && r.rideCostAt(x, tx) <= r.rideCostAt(y, ty)
}

func (r *minuteRun) rideCostAt(ride patternRide, tripTime int) int {
	return ride.cost + r.cost.riding(r.calc.Duration(ride.boardTime, tripTime))
}

func (r *minuteRun) alight(pattern *transit.Pattern, ride patternRide, pos int) {
	tripTime := r.calc.AlightTripTime(ride.trip, pos)
	time := r.calc.StopArrivalTime(ride.trip, pos, r.slack.AlightSlack())
	if r.calc.ExceedsTimeLimit(time) {
		r.result.PrunedArrivals++
		return
	}
	r.state.add(Arrival{
		Kind:      KindTransit,
		Stop:      pattern.StopIndex(pos),
		Time:      time,
		Cost:      r.rideCostAt(ride, tripTime),
		Prev:      ride.prev,
		Pattern:   pattern.Index(),
		TripIndex: ride.tripIndex,
		BoardPos:  ride.boardPos,
		AlightPos: pos,
		BoardTime: ride.boardTime,
		TripTime:  tripTime,

		Guaranteed: ride.guaranteed,
	})
}

// board tries the guaranteed transfers first when the previous leg was a
// trip, and otherwise searches the timetable with normal slack.
func (r *minuteRun) board(rides *pareto.Set[patternRide], search calculator.TripSearch, pattern *transit.Pattern, ref Ref, pos, round int) {
	prev := r.state.Get(ref)

	if prev.Kind == KindTransit {
		if txs := r.calc.GuaranteedTransfers(pattern, pos); len(txs) > 0 {
			arrival := calculator.TransitArrival{
				Trip:     r.model.Pattern(prev.Pattern).Timetable().Trip(prev.TripIndex),
				Stop:     prev.Stop,
				Time:     prev.Time,
				TripTime: prev.TripTime,
			}
			target, matched := r.calc.FindTargetTripInGuaranteedTransfers(txs, arrival, r.slack.AlightSlack(), pos)
			if target != nil {
				r.addRide(rides, ref, prev, target, target.Index(), pos, round, true)
				return
			}
			if matched && r.req.Tuning.GuaranteedTransferPolicy == PolicyReject {
				return
			}
		}
	}

	limit := r.calc.PlusDuration(prev.Time, r.slack.BoardSlack(round))
	found, ok := search.Search(limit, pos)
	if !ok {
		return
	}
	r.addRide(rides, ref, prev, found.Trip, found.TripIndex, pos, round, false)
}

func (r *minuteRun) addRide(rides *pareto.Set[patternRide], ref Ref, prev Arrival, trip *transit.TripSchedule, tripIndex, pos, round int, guaranteed bool) {
	boardTime := r.calc.BoardTripTime(trip, pos)
	wait := max(r.calc.Duration(prev.Time, boardTime), 0)
	rides.Add(patternRide{
		prev:       ref,
		trip:       trip,
		tripIndex:  tripIndex,
		boardPos:   pos,
		boardTime:  boardTime,
		cost:       prev.Cost + r.cost.boarding(round, wait),
		guaranteed: guaranteed,
	})
}

// transitArrivals lists the transit arrivals retained in round, in stop
// order.
func (r *minuteRun) transitArrivals(round int) []Ref {
	var refs []Ref
	for _, stop := range r.state.MarkedStops(round) {
		for ref := range r.state.Refs(round, stop) {
			if r.state.Get(ref).Kind == KindTransit {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

func (r *minuteRun) reachDestination(reached []Ref, round int) {
	for _, ref := range reached {
		a := r.state.Get(ref)
		for _, leg := range r.egress[a.Stop] {
			time := r.calc.PlusDuration(r.calc.DepartureTime(leg, a.Time), leg.Duration)
			if r.calc.ExceedsTimeLimit(time) {
				r.result.PrunedArrivals++
				continue
			}
			r.destinations.Add(DestinationArrival{
				Arrival: ref,
				Leg:     leg,
				Time:    time,
				Cost:    a.Cost + r.cost.walking(leg.Duration),
				Round:   round,
			})
		}
	}
}

// transfer walks from every transit arrival of the round. Walking never
// follows another walk.
func (r *minuteRun) transfer(reached []Ref) {
	for _, ref := range reached {
		a := r.state.Get(ref)
		for _, tx := range r.calc.Transfers(r.model, a.Stop) {
			time := r.calc.PlusDuration(r.calc.DepartureTime(tx, a.Time), tx.Duration)
			if r.calc.ExceedsTimeLimit(time) {
				r.result.PrunedArrivals++
				continue
			}
			r.state.add(Arrival{
				Kind:     KindTransfer,
				Stop:     tx.ToStop,
				Time:     time,
				Cost:     a.Cost + r.cost.walking(tx.Duration),
				Prev:     ref,
				Duration: tx.Duration,
			})
		}
	}
}

func (w *worker) destinationDominates(x, y DestinationArrival) bool {
	return !w.calc.IsBest(y.Time, x.Time) && x.Round <= y.Round && x.Cost <= y.Cost
}
