// Package normalize converts decoded FIT records into the canonical
// trackpoint and lap model. It owns every unit conversion: the decoder keeps
// FIT native units and everything downstream works in degrees, meters,
// meters per second, bpm and seconds.
package normalize

import (
	"math"
	"strings"
	"time"

	"github.com/tormoder/fit"

	"github.com/noszczynski/bike-stats-sub000/internal/fitfile"
	"github.com/noszczynski/bike-stats-sub000/internal/models"
)

const semicircleToDegrees = 180.0 / (1 << 31)

// Normalize maps the decoded samples and laps of one file onto activityID.
// The output has one trackpoint per sample, in file order, with Seq set to
// the sample index. It has no side effects.
func Normalize(raw *fitfile.RawActivity, activityID int64) ([]models.Trackpoint, []models.Lap) {
	if raw == nil {
		return nil, nil
	}

	trackpoints := make([]models.Trackpoint, len(raw.Samples))
	for i, s := range raw.Samples {
		trackpoints[i] = Trackpoint(s, activityID, i)
	}

	var fallbackStart time.Time
	if len(raw.Samples) > 0 {
		fallbackStart = raw.Samples[0].Timestamp
	}
	laps := make([]models.Lap, 0, len(raw.Laps))
	for i, l := range raw.Laps {
		lap := Lap(l, activityID, i+1, fallbackStart)
		fallbackStart = lap.EndTime
		laps = append(laps, lap)
	}
	return trackpoints, laps
}

// Trackpoint converts one sample.
func Trackpoint(s fitfile.RawSample, activityID int64, seq int) models.Trackpoint {
	tp := models.Trackpoint{
		ActivityID: activityID,
		Seq:        seq,
		Timestamp:  s.Timestamp.UTC(),
	}
	if s.PositionLat != nil && s.PositionLong != nil {
		tp.Latitude = degrees(*s.PositionLat)
		tp.Longitude = degrees(*s.PositionLong)
	}
	if s.Altitude != nil {
		tp.AltitudeM = altitude(*s.Altitude)
	}
	if s.Distance != nil {
		tp.DistanceM = scaled(*s.Distance, 100)
	}
	if s.Speed != nil {
		tp.SpeedMS = scaled(*s.Speed, 1000)
	}
	if s.HeartRate != nil {
		hr := int(*s.HeartRate)
		tp.HeartRateBPM = &hr
	}
	if s.Cadence != nil {
		cad := int(*s.Cadence)
		tp.CadenceRPM = &cad
	}
	if s.Temperature != nil {
		t := float64(*s.Temperature)
		tp.TemperatureC = &t
	}
	return tp
}

// Lap converts one device lap. The start falls back to fallbackStart when the
// file does not carry one; the end is the lap timestamp, or the start plus
// the timer time.
func Lap(l fitfile.RawLap, activityID int64, number int, fallbackStart time.Time) models.Lap {
	lap := models.Lap{
		ActivityID: activityID,
		LapNumber:  number,
		Source:     models.LapSourceDevice,
	}

	var timerS, elapsedS float64
	if l.TotalTimerTime != nil {
		timerS = float64(*l.TotalTimerTime) / 1000
	}
	if l.TotalElapsedTime != nil {
		elapsedS = float64(*l.TotalElapsedTime) / 1000
	} else {
		elapsedS = timerS
	}
	if l.TotalTimerTime == nil {
		timerS = elapsedS
	}
	lap.MovingTimeS = timerS
	lap.ElapsedTimeS = elapsedS

	switch {
	case l.StartTime != nil:
		lap.StartTime = l.StartTime.UTC()
	case l.Timestamp != nil:
		lap.StartTime = l.Timestamp.Add(-seconds(elapsedS)).UTC()
	default:
		lap.StartTime = fallbackStart.UTC()
	}
	if l.Timestamp != nil {
		lap.EndTime = l.Timestamp.UTC()
	} else {
		lap.EndTime = lap.StartTime.Add(seconds(timerS))
	}

	if l.TotalDistance != nil {
		lap.DistanceM = float64(*l.TotalDistance) / 100
	}
	if l.AvgSpeed != nil {
		lap.AvgSpeedMS = scaled(*l.AvgSpeed, 1000)
	}
	if l.MaxSpeed != nil {
		lap.MaxSpeedMS = scaled(*l.MaxSpeed, 1000)
	}
	lap.AvgHeartRateBPM = u8(l.AvgHeartRate)
	lap.MaxHeartRateBPM = u8(l.MaxHeartRate)
	lap.AvgCadenceRPM = u8(l.AvgCadence)
	lap.MaxCadenceRPM = u8(l.MaxCadence)
	if l.TotalAscent != nil {
		v := float64(*l.TotalAscent)
		lap.TotalElevationGainM = &v
	}
	if l.StartPositionLat != nil && l.StartPositionLong != nil {
		lap.StartLatitude = degrees(*l.StartPositionLat)
		lap.StartLongitude = degrees(*l.StartPositionLong)
	}
	if l.EndPositionLat != nil && l.EndPositionLong != nil {
		lap.EndLatitude = degrees(*l.EndPositionLat)
		lap.EndLongitude = degrees(*l.EndPositionLong)
	}
	return lap
}

// SessionSummary converts the session aggregates.
func SessionSummary(raw *fitfile.RawActivity) models.SessionSummary {
	if raw == nil {
		return models.SessionSummary{}
	}
	s := raw.Session
	out := models.SessionSummary{SyntheticSession: s.Synthetic}
	if s.TotalDistance != nil {
		out.TotalDistanceM = scaled(*s.TotalDistance, 100)
	}
	if s.TotalTimerTime != nil {
		out.TotalTimerTimeS = scaled(*s.TotalTimerTime, 1000)
	}
	if s.TotalElapsedTime != nil {
		out.TotalElapsedS = scaled(*s.TotalElapsedTime, 1000)
	}
	if s.AvgSpeed != nil {
		out.AvgSpeedMS = scaled(*s.AvgSpeed, 1000)
	}
	if s.MaxSpeed != nil {
		out.MaxSpeedMS = scaled(*s.MaxSpeed, 1000)
	}
	out.AvgHeartRateBPM = u8(s.AvgHeartRate)
	out.MaxHeartRateBPM = u8(s.MaxHeartRate)
	out.AvgCadenceRPM = u8(s.AvgCadence)
	out.MaxCadenceRPM = u8(s.MaxCadence)
	if s.TotalAscent != nil {
		v := float64(*s.TotalAscent)
		out.TotalAscentM = &v
	}
	if s.TotalCalories != nil {
		v := float64(*s.TotalCalories)
		out.TotalCalories = &v
	}
	return out
}

// StartTime is the session start, or the first sample when the session has
// none. The zero time means the file carried neither.
func StartTime(raw *fitfile.RawActivity) time.Time {
	if raw == nil {
		return time.Time{}
	}
	if raw.Session.StartTime != nil {
		return raw.Session.StartTime.UTC()
	}
	if len(raw.Samples) > 0 {
		return raw.Samples[0].Timestamp.UTC()
	}
	return time.Time{}
}

// SportName is the lower-cased FIT sport of the session, "" when absent.
func SportName(raw *fitfile.RawActivity) string {
	if raw == nil || raw.Session.Sport == nil {
		return ""
	}
	return strings.ToLower(fit.Sport(*raw.Session.Sport).String())
}

func degrees(semicircles int32) *float64 {
	v := float64(semicircles) * semicircleToDegrees
	return &v
}

func altitude(raw uint32) *float64 {
	v := float64(raw)/5 - 500
	return &v
}

func scaled(raw uint32, scale float64) *float64 {
	v := float64(raw) / scale
	return &v
}

func u8(p *uint8) *float64 {
	if p == nil {
		return nil
	}
	v := float64(*p)
	return &v
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
