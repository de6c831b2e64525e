package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/karimhm/OpenTripPlanner/internal/gtfs"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print statistics of the transit model built from the feed",
		Action: func(c *cli.Context) error {
			application, err := loadApplication(c)
			if err != nil {
				return err
			}

			stats := application.Model.Stats()
			lat, lon, latSpan, lonSpan := gtfs.RegionBounds(application.Model)

			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "service date\t%s\n", application.Config.GTFS.ServiceDate)
			fmt.Fprintf(tw, "stops\t%d\n", stats.Stops)
			fmt.Fprintf(tw, "patterns\t%d\n", stats.Patterns)
			fmt.Fprintf(tw, "trips\t%d\n", stats.Trips)
			fmt.Fprintf(tw, "transfers\t%d\n", stats.Transfers)
			fmt.Fprintf(tw, "guaranteed transfers\t%d\n", stats.GuaranteedTransfers)
			fmt.Fprintf(tw, "center\t%.5f,%.5f\n", lat, lon)
			fmt.Fprintf(tw, "span\t%.5f,%.5f\n", latSpan, lonSpan)
			return tw.Flush()
		},
	}
}
