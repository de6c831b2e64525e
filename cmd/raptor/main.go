package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/karimhm/OpenTripPlanner/internal/app"
	"github.com/karimhm/OpenTripPlanner/internal/config"
	"github.com/karimhm/OpenTripPlanner/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "raptor",
		Usage:     "plan transit journeys over a GTFS feed with Range RAPTOR",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"RAPTOR_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "gtfs",
				Usage:   "GTFS zip file or URL, overrides gtfs.source",
				EnvVars: []string{"RAPTOR_GTFS"},
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "service date as YYYY-MM-DD, overrides gtfs.service_date",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Commands: []*cli.Command{
			planCommand(),
			statsCommand(),
		},
	}
}

// loadApplication reads the configuration with the command line applied
// on top and loads the transit model.
func loadApplication(c *cli.Context, overrides ...func(*config.Config)) (*app.Application, error) {
	flags := func(cfg *config.Config) {
		if c.IsSet("gtfs") {
			cfg.GTFS.Source = c.String("gtfs")
		}
		if c.IsSet("date") {
			cfg.GTFS.ServiceDate = c.String("date")
		}
		if c.IsSet("log-level") {
			cfg.LogLevel = c.String("log-level")
		}
	}

	cfg, err := config.Load(c.String("config"), append([]func(*config.Config){flags}, overrides...)...)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewStructuredLogger(c.App.ErrWriter, level)

	application, err := app.New(logging.WithLogger(c.Context, logger), cfg, logger)
	if err != nil {
		return nil, logging.FatalError(logger, "unable to load transit model", err)
	}
	return application, nil
}
