package gtfs

import (
	"cmp"
	"math"
	"slices"

	"github.com/jamespfennell/gtfs"

	"github.com/karimhm/OpenTripPlanner/internal/transit"
	"github.com/karimhm/OpenTripPlanner/internal/utils"
)

type stopPair struct {
	from, to int
}

// addTransfers registers the feed's transfers.txt rules and then walking
// transfers between served stops within the walk radius. A feed rule for a
// pair, including "not possible", always wins over a generated transfer.
func addTransfers(b *transit.ModelBuilder, static *gtfs.Static, stopIndex map[string]int, served []int, opts Options, report *buildReport) {
	coords := make(map[int]*gtfs.Stop, len(stopIndex))
	for i := range static.Stops {
		stop := &static.Stops[i]
		if index, ok := stopIndex[stop.Id]; ok && stop.Latitude != nil && stop.Longitude != nil {
			coords[index] = stop
		}
	}

	ruled := make(map[stopPair]bool)
	for _, tx := range static.Transfers {
		from, fromOk := stopIndex[tx.From.Id]
		to, toOk := stopIndex[tx.To.Id]
		if !fromOk || !toOk || from == to {
			continue
		}
		pair := stopPair{from, to}
		if ruled[pair] {
			continue
		}
		ruled[pair] = true

		if tx.Type == gtfs.TransferType_NotPossible {
			report.suppressed++
			continue
		}
		b.AddTransfer(from, to, feedTransferDuration(tx, coords[from], coords[to], opts.WalkSpeed))
		report.transfers++
	}

	if opts.WalkRadius <= 0 {
		return
	}

	// Sorting by latitude bounds the inner scan to the radius band.
	located := slices.DeleteFunc(slices.Clone(served), func(stop int) bool { return coords[stop] == nil })
	slices.SortFunc(located, func(a, b int) int {
		return cmp.Compare(*coords[a].Latitude, *coords[b].Latitude)
	})
	for i, a := range located {
		sa := coords[a]
		latDeg, lonDeg := utils.BoundingBox(*sa.Latitude, opts.WalkRadius)
		for _, c := range located[i+1:] {
			sc := coords[c]
			if *sc.Latitude-*sa.Latitude > latDeg {
				break
			}
			if math.Abs(*sc.Longitude-*sa.Longitude) > lonDeg {
				continue
			}
			meters := utils.Haversine(*sa.Latitude, *sa.Longitude, *sc.Latitude, *sc.Longitude)
			if meters > opts.WalkRadius {
				continue
			}
			seconds := utils.WalkSeconds(meters, opts.WalkSpeed)
			for _, pair := range []stopPair{{a, c}, {c, a}} {
				if ruled[pair] {
					continue
				}
				b.AddTransfer(pair.from, pair.to, seconds)
				report.generated++
			}
		}
	}
}

// feedTransferDuration uses min_transfer_time when present. Otherwise a
// timed transfer is instant and any other rule costs the straight line walk.
func feedTransferDuration(tx gtfs.Transfer, from, to *gtfs.Stop, walkSpeed float64) int {
	if tx.MinTransferTime != nil {
		return max(int(*tx.MinTransferTime), 0)
	}
	if tx.Type == gtfs.TransferType_Timed || from == nil || to == nil {
		return 0
	}
	return utils.WalkSeconds(utils.Haversine(*from.Latitude, *from.Longitude, *to.Latitude, *to.Longitude), walkSpeed)
}
