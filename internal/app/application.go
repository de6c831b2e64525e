package app

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/karimhm/OpenTripPlanner/internal/config"
	"github.com/karimhm/OpenTripPlanner/internal/gtfs"
	"github.com/karimhm/OpenTripPlanner/internal/raptor"
	"github.com/karimhm/OpenTripPlanner/internal/raptor/calculator"
	"github.com/karimhm/OpenTripPlanner/internal/transit"
	"github.com/karimhm/OpenTripPlanner/internal/utils"
)

var ErrUnknownStopID = errors.New("unknown stop id")

// Application holds the dependencies shared by the CLI commands: the
// configuration, the logger, the transit model of one service day and the
// router searching it.
type Application struct {
	Config config.Config
	Logger *slog.Logger
	Model  *transit.Model
	Router *raptor.Service
}

// New loads the transit model described by cfg and wires the router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Application, error) {
	model, err := gtfs.LoadModel(ctx, cfg.GTFS, logger)
	if err != nil {
		return nil, err
	}
	return NewWithModel(cfg, logger, model), nil
}

// NewWithModel wires an application around an already built model.
func NewWithModel(cfg config.Config, logger *slog.Logger, model *transit.Model) *Application {
	return &Application{
		Config: cfg,
		Logger: logger,
		Model:  model,
		Router: raptor.NewService(model, raptor.WithLogger(logger)),
	}
}

// PlanQuery is a search between stops named by their feed ids. Time is the
// earliest departure for a forward search and the latest arrival for a
// reverse one.
type PlanQuery struct {
	From         []string
	To           []string
	Direction    calculator.Direction
	Time         int
	SearchWindow int
}

// Request turns a query into a router request using the configured slack,
// cost and tuning. Access and egress legs reach every stop within the walk
// radius of a named stop.
func (app *Application) Request(query PlanQuery) (raptor.Request, error) {
	access, err := app.legs(query.From)
	if err != nil {
		return raptor.Request{}, fmt.Errorf("from: %w", err)
	}
	egress, err := app.legs(query.To)
	if err != nil {
		return raptor.Request{}, fmt.Errorf("to: %w", err)
	}

	req := raptor.Request{
		Direction:             query.Direction,
		EarliestDepartureTime: calculator.TimeNotSet,
		LatestArrivalTime:     calculator.TimeNotSet,
		SearchWindowInSeconds: query.SearchWindow,
		Access:                access,
		Egress:                egress,
		Slack:                 app.Config.Slack,
		Cost:                  app.Config.Cost,
		Tuning:                app.Config.Tuning,
	}
	if query.Direction == calculator.Reverse {
		req.LatestArrivalTime = query.Time
	} else {
		req.EarliestDepartureTime = query.Time
	}
	return req, nil
}

// Plan builds the request for query and runs it.
func (app *Application) Plan(ctx context.Context, query PlanQuery) (*raptor.Result, error) {
	req, err := app.Request(query)
	if err != nil {
		return nil, err
	}
	return app.Router.Route(ctx, req)
}

func (app *Application) legs(stopIDs []string) ([]transit.AccessEgress, error) {
	if len(stopIDs) == 0 {
		return nil, errors.New("at least one stop id is required")
	}

	durations := make(map[int]int)
	var order []int
	keep := func(stop, duration int) {
		current, seen := durations[stop]
		if !seen {
			order = append(order, stop)
		}
		if !seen || duration < current {
			durations[stop] = duration
		}
	}

	for _, id := range stopIDs {
		if err := utils.ValidateID(id); err != nil {
			return nil, fmt.Errorf("stop id %q: %w", id, err)
		}
		origin, ok := app.Model.StopByID(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStopID, id)
		}
		keep(origin, 0)
		for stop, seconds := range app.nearbyStops(origin) {
			keep(stop, seconds)
		}
	}

	legs := make([]transit.AccessEgress, 0, len(order))
	for _, stop := range order {
		legs = append(legs, transit.AccessEgress{Stop: stop, Duration: durations[stop]})
	}
	return legs, nil
}

// nearbyStops yields the served stops within the walk radius of origin with
// their walking time in seconds.
func (app *Application) nearbyStops(origin int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		radius := app.Config.GTFS.WalkRadius
		if radius <= 0 {
			return
		}
		from := app.Model.Stop(origin)
		latDeg, lonDeg := utils.BoundingBox(from.Latitude, radius)
		for index := range app.Model.NumberOfStops() {
			to := app.Model.Stop(index)
			if index == origin || len(app.Model.PatternsForStop(index)) == 0 {
				continue
			}
			if to.Latitude-from.Latitude > latDeg || from.Latitude-to.Latitude > latDeg ||
				to.Longitude-from.Longitude > lonDeg || from.Longitude-to.Longitude > lonDeg {
				continue
			}
			meters := utils.Haversine(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
			if meters > radius {
				continue
			}
			if !yield(index, utils.WalkSeconds(meters, app.Config.GTFS.WalkSpeed)) {
				return
			}
		}
	}
}
