package spatial

import (
	"github.com/golang/geo/s2"
)

const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// ImpliedSpeedKmh is the average speed needed to cover the great-circle
// distance between two fixes in the given number of seconds.
// Non-positive durations yield 0.
func ImpliedSpeedKmh(lat1, lon1, lat2, lon2, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	km := HaversineDistance(lat1, lon1, lat2, lon2) / 1000
	return km / (seconds / 3600)
}
