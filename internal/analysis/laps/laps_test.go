package laps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noszczynski/bike-stats-sub000/internal/models"
)

var t0 = time.Date(2024, 8, 10, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// ride returns samples every 10 s covering total meters in steps of step meters.
func ride(total, step float64) []models.Trackpoint {
	var out []models.Trackpoint
	for i := 0; ; i++ {
		d := float64(i) * step
		if d > total {
			d = total
		}
		out = append(out, models.Trackpoint{
			Seq:          i,
			Timestamp:    t0.Add(time.Duration(i) * 10 * time.Second),
			DistanceM:    ptr(d),
			SpeedMS:      ptr(step / 10),
			HeartRateBPM: ptr(130 + i%10),
		})
		if d >= total {
			return out
		}
	}
}

func TestValidateTargetDistance(t *testing.T) {
	assert.ErrorIs(t, ValidateTargetDistance(100), ErrInvalidTargetDistance)
	assert.ErrorIs(t, ValidateTargetDistance(50000.1), ErrInvalidTargetDistance)
	assert.ErrorIs(t, ValidateTargetDistance(-5), ErrInvalidTargetDistance)
	assert.NoError(t, ValidateTargetDistance(100.5))
	assert.NoError(t, ValidateTargetDistance(50000))
}

func TestGenerateThreeLaps(t *testing.T) {
	laps, err := Generate(ride(12400, 100), 5000)
	require.NoError(t, err)
	require.Len(t, laps, 3)

	for i, lap := range laps {
		assert.Equal(t, i+1, lap.LapNumber)
		assert.Equal(t, models.LapSourceDistance, lap.Source)
	}
	assert.Equal(t, 5000.0, laps[0].DistanceM)
	assert.Equal(t, 5000.0, laps[1].DistanceM)
	assert.Equal(t, 2400.0, laps[2].DistanceM)

	// The boundary sample is shared by adjacent laps.
	assert.Equal(t, laps[0].EndTime, laps[1].StartTime)
	assert.Equal(t, t0.Add(500*time.Second), laps[0].EndTime)
	assert.Equal(t, 500.0, laps[0].ElapsedTimeS)
	assert.Equal(t, laps[0].ElapsedTimeS, laps[0].MovingTimeS)
}

func TestGenerateClosedLapsReachTarget(t *testing.T) {
	laps, err := Generate(ride(9000, 370), 1000)
	require.NoError(t, err)
	for _, lap := range laps[:len(laps)-1] {
		assert.GreaterOrEqual(t, lap.DistanceM, 1000.0)
	}
}

func TestGenerateNoTrailingLapForBoundarySample(t *testing.T) {
	laps, err := Generate(ride(10000, 100), 5000)
	require.NoError(t, err)
	assert.Len(t, laps, 2)
}

func TestGenerateShortRideIsOneShortLap(t *testing.T) {
	laps, err := Generate(ride(300, 100), 5000)
	require.NoError(t, err)
	require.Len(t, laps, 1)
	assert.Equal(t, 300.0, laps[0].DistanceM)
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(ride(1000, 100), 50)
	assert.ErrorIs(t, err, ErrInvalidTargetDistance)

	_, err = Generate([]models.Trackpoint{{Timestamp: t0, HeartRateBPM: ptr(120)}}, 1000)
	assert.ErrorIs(t, err, ErrNoDistanceData)

	_, err = Generate(nil, 1000)
	assert.ErrorIs(t, err, ErrNoDistanceData)

	_, err = Generate([]models.Trackpoint{{Timestamp: t0, DistanceM: ptr(0.0)}}, 1000)
	assert.ErrorIs(t, err, ErrDistanceTooShort)
}

func TestGenerateStatistics(t *testing.T) {
	points := []models.Trackpoint{
		{Timestamp: t0, DistanceM: ptr(0.0), SpeedMS: ptr(4.0), HeartRateBPM: ptr(120), AltitudeM: ptr(100.0),
			Latitude: ptr(50.0), Longitude: ptr(20.0)},
		{Timestamp: t0.Add(10 * time.Second), DistanceM: ptr(60.0), SpeedMS: ptr(8.0), CadenceRPM: ptr(90), AltitudeM: ptr(104.0)},
		{Timestamp: t0.Add(20 * time.Second), DistanceM: ptr(120.0), HeartRateBPM: ptr(140), CadenceRPM: ptr(80), AltitudeM: ptr(101.0)},
		{Timestamp: t0.Add(30 * time.Second), DistanceM: ptr(180.0), SpeedMS: ptr(6.0), AltitudeM: ptr(103.0),
			Latitude: ptr(50.001), Longitude: ptr(20.001)},
	}
	laps, err := Generate(points, 500)
	require.NoError(t, err)
	require.Len(t, laps, 1)

	lap := laps[0]
	assert.Equal(t, 180.0, lap.DistanceM)
	assert.Equal(t, 30.0, lap.ElapsedTimeS)
	assert.InDelta(t, 6.0, *lap.AvgSpeedMS, 1e-9)
	assert.Equal(t, 8.0, *lap.MaxSpeedMS)
	assert.InDelta(t, 130.0, *lap.AvgHeartRateBPM, 1e-9)
	assert.Equal(t, 140.0, *lap.MaxHeartRateBPM)
	assert.InDelta(t, 85.0, *lap.AvgCadenceRPM, 1e-9)
	assert.Equal(t, 90.0, *lap.MaxCadenceRPM)
	assert.InDelta(t, 6.0, *lap.TotalElevationGainM, 1e-9)
	assert.Equal(t, 50.0, *lap.StartLatitude)
	assert.Equal(t, 20.001, *lap.EndLongitude)
}

func TestGenerateMissingChannelsStayNil(t *testing.T) {
	points := []models.Trackpoint{
		{Timestamp: t0, DistanceM: ptr(0.0)},
		{Timestamp: t0.Add(time.Minute), DistanceM: ptr(400.0)},
	}
	laps, err := Generate(points, 200)
	require.NoError(t, err)
	require.Len(t, laps, 1)
	assert.Nil(t, laps[0].AvgSpeedMS)
	assert.Nil(t, laps[0].MaxHeartRateBPM)
	assert.Nil(t, laps[0].TotalElevationGainM)
	assert.Nil(t, laps[0].StartLatitude)
}

func TestGenerateClampsNegativeDistance(t *testing.T) {
	points := []models.Trackpoint{
		{Timestamp: t0, DistanceM: ptr(500.0)},
		{Timestamp: t0.Add(time.Minute), DistanceM: ptr(450.0)},
	}
	laps, err := Generate(points, 200)
	require.NoError(t, err)
	assert.Zero(t, laps[0].DistanceM)
}

func TestGenerateSkipsSamplesWithoutDistance(t *testing.T) {
	points := ride(1000, 100)
	points = append(points, models.Trackpoint{Timestamp: t0.Add(time.Hour), HeartRateBPM: ptr(200)})

	laps, err := Generate(points, 500)
	require.NoError(t, err)
	require.Len(t, laps, 2)
	assert.Less(t, *laps[1].MaxHeartRateBPM, 200.0)
}
