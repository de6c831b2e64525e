package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/karimhm/OpenTripPlanner/internal/raptor"
	"github.com/karimhm/OpenTripPlanner/internal/transit"
	"github.com/karimhm/OpenTripPlanner/internal/utils"
)

type resultJSON struct {
	RequestID     string     `json:"requestId"`
	Direction     string     `json:"direction"`
	Status        string     `json:"status"`
	Minutes       int        `json:"minutes"`
	MinutesPruned int        `json:"minutesPruned"`
	Rounds        int        `json:"rounds"`
	Paths         []pathJSON `json:"paths"`
}

type pathJSON struct {
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	DurationSeconds int       `json:"durationSeconds"`
	Transfers       int       `json:"transfers"`
	Cost            float64   `json:"cost"`
	Legs            []legJSON `json:"legs"`
}

type legJSON struct {
	Mode       string `json:"mode"`
	From       string `json:"from"`
	To         string `json:"to"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Pattern    string `json:"pattern,omitempty"`
	Trip       string `json:"trip,omitempty"`
	Guaranteed bool   `json:"guaranteed,omitempty"`
}

func writeJSON(w io.Writer, model *transit.Model, result *raptor.Result) error {
	out := resultJSON{
		RequestID:     result.RequestID,
		Direction:     result.Direction.String(),
		Status:        result.Status.String(),
		Minutes:       result.Stats.Minutes,
		MinutesPruned: result.Stats.MinutesPruned,
		Rounds:        result.Stats.Rounds,
		Paths:         make([]pathJSON, 0, len(result.Paths)),
	}
	for _, p := range result.Paths {
		path := pathJSON{
			StartTime:       utils.FormatTimeOfDay(p.StartTime),
			EndTime:         utils.FormatTimeOfDay(p.EndTime),
			DurationSeconds: p.Duration(),
			Transfers:       p.Transfers,
			Cost:            float64(p.Cost) / 100,
		}
		for _, leg := range p.Legs {
			l := legJSON{
				Mode:       legMode(leg),
				From:       stopName(model, leg.FromStop, "origin"),
				To:         stopName(model, leg.ToStop, "destination"),
				StartTime:  utils.FormatTimeOfDay(leg.StartTime),
				EndTime:    utils.FormatTimeOfDay(leg.EndTime),
				Trip:       leg.TripID,
				Guaranteed: leg.Guaranteed,
			}
			if leg.Kind == raptor.LegTransit {
				l.Pattern = model.Pattern(leg.Pattern).ID()
			}
			path.Legs = append(path.Legs, l)
		}
		out.Paths = append(out.Paths, path)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, model *transit.Model, result *raptor.Result) error {
	fmt.Fprintf(w, "%s search %s: %d paths, %d minutes (%d pruned), %d rounds\n",
		result.Direction, result.Status, len(result.Paths),
		result.Stats.Minutes, result.Stats.MinutesPruned, result.Stats.Rounds)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, p := range result.Paths {
		fmt.Fprintf(tw, "\n%d.\t%s - %s\t%s\t%d transfers\tcost %.2f\n", i+1,
			utils.FormatTimeOfDay(p.StartTime), utils.FormatTimeOfDay(p.EndTime),
			utils.FormatDuration(p.Duration()), p.Transfers, float64(p.Cost)/100)
		for _, leg := range p.Legs {
			route := ""
			if leg.Kind == raptor.LegTransit {
				route = model.Pattern(leg.Pattern).ID() + " " + leg.TripID
				if leg.Guaranteed {
					route += " (guaranteed)"
				}
			}
			fmt.Fprintf(tw, "\t%s\t%s -> %s\t%s - %s\t%s\n",
				legMode(leg),
				stopName(model, leg.FromStop, "origin"), stopName(model, leg.ToStop, "destination"),
				utils.FormatTimeOfDay(leg.StartTime), utils.FormatTimeOfDay(leg.EndTime),
				route)
		}
	}
	return tw.Flush()
}

func legMode(leg raptor.Leg) string {
	if leg.Kind == raptor.LegTransit {
		return "ride"
	}
	return "walk"
}

func stopName(model *transit.Model, stop int, street string) string {
	if stop == raptor.NoStop {
		return street
	}
	return model.Stop(stop).ID
}
