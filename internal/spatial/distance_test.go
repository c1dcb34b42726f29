package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// Warsaw to Krakow, roughly 252 km.
	d := HaversineDistance(52.2297, 21.0122, 50.0647, 19.9450)
	assert.InDelta(t, 252_000, d, 1500)

	assert.Zero(t, HaversineDistance(10, 10, 10, 10))
}

func TestHaversineDistanceOneDegreeOfLatitude(t *testing.T) {
	d := HaversineDistance(0, 0, 1, 0)
	assert.InDelta(t, EarthRadiusKm*1000*3.141592653589793/180, d, 0.01)
}

func TestImpliedSpeedKmh(t *testing.T) {
	// 0.001 deg of latitude is about 111 m; over 60 s that is ~6.7 km/h.
	v := ImpliedSpeedKmh(50, 20, 50.001, 20, 60)
	assert.InDelta(t, 6.67, v, 0.05)

	assert.Zero(t, ImpliedSpeedKmh(50, 20, 50.001, 20, 0))
}
