package opt

import (
	"math"

	"dispatchopt/internal/model"
)

const earthRadiusM = 6371000.0

// HaversineMeters returns the great-circle distance between two points,
// truncated to whole meters. Every distance-sensitive strategy and the solver
// matrix builder use this one metric; mixing metrics within a job is not
// allowed.
func HaversineMeters(a, b model.GeoPoint) int {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return int(earthRadiusM * c)
}
