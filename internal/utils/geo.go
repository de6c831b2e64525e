package utils

import "math"

const earthRadiusMeters = 6_371_000

// Haversine returns the great-circle distance in meters between two lat/lon points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// BoundingBox returns the degree offsets covering radiusMeters around lat.
// Used to cheaply discard stop pairs before computing Haversine.
func BoundingBox(lat, radiusMeters float64) (latDeg, lonDeg float64) {
	latDeg = radiusMeters / earthRadiusMeters * (180 / math.Pi)
	lonDeg = latDeg / math.Cos(toRad(lat))
	return latDeg, lonDeg
}

// WalkSeconds converts a distance to whole seconds at speed m/s, rounding up.
func WalkSeconds(meters, speed float64) int {
	if speed <= 0 {
		return 0
	}
	return int(math.Ceil(meters / speed))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
