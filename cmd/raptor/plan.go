package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/karimhm/OpenTripPlanner/internal/app"
	"github.com/karimhm/OpenTripPlanner/internal/config"
	"github.com/karimhm/OpenTripPlanner/internal/logging"
	"github.com/karimhm/OpenTripPlanner/internal/raptor"
	"github.com/karimhm/OpenTripPlanner/internal/raptor/calculator"
	"github.com/karimhm/OpenTripPlanner/internal/utils"
)

func planCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "search the Pareto optimal journeys between stops",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "from",
				Usage:    "origin stop id, repeatable",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "to",
				Usage:    "destination stop id, repeatable",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "time",
				Usage:    "departure time as HH:MM[:SS], or the arrival time with --arrive-by",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "arrive-by",
				Usage: "search backward from the arrival time",
			},
			&cli.DurationFlag{
				Name:  "window",
				Usage: "search window, zero runs a single iteration",
			},
			&cli.IntFlag{
				Name:  "max-rounds",
				Usage: "maximum number of boardings, overrides tuning.max_rounds",
			},
			&cli.IntFlag{
				Name:  "parallelism",
				Usage: "iteration minutes searched concurrently, overrides tuning.parallelism",
			},
			&cli.StringFlag{
				Name:  "guaranteed-transfers",
				Usage: "fallback or reject, overrides tuning.guaranteed_transfer_policy",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "text or json",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "write the result to this file instead of stdout",
			},
		},
		Action: runPlan,
	}
}

func runPlan(c *cli.Context) (err error) {
	searchTime, err := utils.ParseTimeOfDay(c.String("time"))
	if err != nil {
		return fmt.Errorf("--time: %w", err)
	}
	direction := calculator.Forward
	if c.Bool("arrive-by") {
		direction = calculator.Reverse
	}
	format := c.String("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("--format: unknown format %q", format)
	}

	application, err := loadApplication(c, func(cfg *config.Config) {
		if c.IsSet("max-rounds") {
			cfg.Tuning.MaxRounds = c.Int("max-rounds")
		}
		if c.IsSet("parallelism") {
			cfg.Tuning.Parallelism = c.Int("parallelism")
		}
		if c.IsSet("guaranteed-transfers") {
			cfg.Tuning.GuaranteedTransferPolicy = raptor.GuaranteedTransferPolicy(c.String("guaranteed-transfers"))
		}
	})
	if err != nil {
		return err
	}

	result, err := application.Plan(c.Context, app.PlanQuery{
		From:         c.StringSlice("from"),
		To:           c.StringSlice("to"),
		Direction:    direction,
		Time:         searchTime,
		SearchWindow: int(c.Duration("window") / time.Second),
	})
	if err != nil {
		return err
	}

	out := c.App.Writer
	if path := c.String("output"); path != "" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("--output: %w", createErr)
		}
		defer logging.HandleDeferredError(&err, f.Close, application.Logger, "close_output")
		out = f
	}

	if format == "json" {
		return writeJSON(out, application.Model, result)
	}
	return writeText(out, application.Model, result)
}
