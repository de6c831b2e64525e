package gtfs

import "github.com/karimhm/OpenTripPlanner/internal/transit"

// RegionBounds returns the center and span of the stops served by at least
// one pattern. Stops without coordinates are ignored.
func RegionBounds(model *transit.Model) (lat, lon, latSpan, lonSpan float64) {
	var minLat, maxLat, minLon, maxLon float64
	first := true
	for index := range model.NumberOfStops() {
		stop := model.Stop(index)
		if len(model.PatternsForStop(index)) == 0 || (stop.Latitude == 0 && stop.Longitude == 0) {
			continue
		}
		if first {
			minLat, maxLat = stop.Latitude, stop.Latitude
			minLon, maxLon = stop.Longitude, stop.Longitude
			first = false
			continue
		}
		minLat = min(minLat, stop.Latitude)
		maxLat = max(maxLat, stop.Latitude)
		minLon = min(minLon, stop.Longitude)
		maxLon = max(maxLon, stop.Longitude)
	}

	lat = (minLat + maxLat) / 2
	lon = (minLon + maxLon) / 2
	latSpan = maxLat - minLat
	lonSpan = maxLon - minLon

	return lat, lon, latSpan, lonSpan
}
