// Package laps re-segments a trackpoint sequence into fixed-distance laps.
package laps

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/noszczynski/bike-stats-sub000/internal/models"
)

// Target distance bounds in meters; the lower bound is exclusive.
const (
	MinTargetDistanceM = 100.0
	MaxTargetDistanceM = 50000.0
)

var (
	ErrInvalidTargetDistance = errors.New("laps: target distance must be greater than 100 m and at most 50000 m")
	ErrNoDistanceData        = errors.New("laps: no trackpoints with distance data")
	ErrDistanceTooShort      = errors.New("laps: unable to generate laps, distance too short")
)

// ValidateTargetDistance checks m against (100, 50000].
func ValidateTargetDistance(m float64) error {
	if !(m > MinTargetDistanceM && m <= MaxTargetDistanceM) {
		return fmt.Errorf("%w: got %g", ErrInvalidTargetDistance, m)
	}
	return nil
}

// Generate splits the trackpoints carrying a distance into laps of at least
// targetM meters. A lap closes on the first sample reaching the target; that
// sample also opens the next lap. The remainder becomes a short final lap.
func Generate(trackpoints []models.Trackpoint, targetM float64) ([]models.Lap, error) {
	if err := ValidateTargetDistance(targetM); err != nil {
		return nil, err
	}

	points := make([]models.Trackpoint, 0, len(trackpoints))
	for _, tp := range trackpoints {
		if tp.DistanceM != nil {
			points = append(points, tp)
		}
	}
	if len(points) == 0 {
		return nil, ErrNoDistanceData
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	var laps []models.Lap
	lapStart := 0
	lapStartDistance := *points[0].DistanceM
	for i := 1; i < len(points); i++ {
		d := *points[i].DistanceM
		if d-lapStartDistance >= targetM {
			laps = append(laps, buildLap(points[lapStart:i+1], len(laps)+1))
			lapStart = i
			lapStartDistance = d
		}
	}
	if len(points)-1 > lapStart {
		laps = append(laps, buildLap(points[lapStart:], len(laps)+1))
	}

	if len(laps) == 0 {
		return nil, ErrDistanceTooShort
	}
	return laps, nil
}

// buildLap computes the statistics of one lap over a non-empty slice.
func buildLap(points []models.Trackpoint, number int) models.Lap {
	first, last := points[0], points[len(points)-1]

	elapsed := last.Timestamp.Sub(first.Timestamp).Seconds()
	distance := *last.DistanceM - *first.DistanceM
	if distance < 0 {
		distance = 0
	}

	lap := models.Lap{
		ActivityID:     first.ActivityID,
		LapNumber:      number,
		Source:         models.LapSourceDistance,
		StartTime:      first.Timestamp,
		EndTime:        last.Timestamp,
		DistanceM:      distance,
		MovingTimeS:    elapsed,
		ElapsedTimeS:   elapsed,
		StartLatitude:  first.Latitude,
		StartLongitude: first.Longitude,
		EndLatitude:    last.Latitude,
		EndLongitude:   last.Longitude,
	}
	if !first.HasPosition() {
		lap.StartLatitude, lap.StartLongitude = nil, nil
	}
	if !last.HasPosition() {
		lap.EndLatitude, lap.EndLongitude = nil, nil
	}

	var speeds, hrs, cadences, altitudes []float64
	for _, p := range points {
		if p.SpeedMS != nil {
			speeds = append(speeds, *p.SpeedMS)
		}
		if p.HeartRateBPM != nil {
			hrs = append(hrs, float64(*p.HeartRateBPM))
		}
		if p.CadenceRPM != nil {
			cadences = append(cadences, float64(*p.CadenceRPM))
		}
		if p.AltitudeM != nil {
			altitudes = append(altitudes, *p.AltitudeM)
		}
	}
	lap.AvgSpeedMS, lap.MaxSpeedMS = meanMax(speeds)
	lap.AvgHeartRateBPM, lap.MaxHeartRateBPM = meanMax(hrs)
	lap.AvgCadenceRPM, lap.MaxCadenceRPM = meanMax(cadences)
	lap.TotalElevationGainM = elevationGain(altitudes)
	return lap
}

func meanMax(values []float64) (*float64, *float64) {
	if len(values) == 0 {
		return nil, nil
	}
	mean := stat.Mean(values, nil)
	peak := floats.Max(values)
	return &mean, &peak
}

// elevationGain sums the climbs between consecutive altitude readings.
func elevationGain(altitudes []float64) *float64 {
	if len(altitudes) == 0 {
		return nil
	}
	var gain float64
	for i := 1; i < len(altitudes); i++ {
		if d := altitudes[i] - altitudes[i-1]; d > 0 {
			gain += d
		}
	}
	return &gain
}
