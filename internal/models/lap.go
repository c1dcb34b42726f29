package models

import "time"

// Lap sources
const (
	LapSourceDevice   = "device"
	LapSourceDistance = "distance"
)

// Lap is a contiguous segment of an activity, either declared by the
// recording device or generated from the trackpoints.
type Lap struct {
	ID         int64  `json:"id" db:"id"`
	ActivityID int64  `json:"activity_id" db:"activity_id"`
	LapNumber  int    `json:"lap_number" db:"lap_number"` // 1-based, contiguous
	Source     string `json:"source" db:"source"`

	StartTime    time.Time `json:"start_time" db:"start_time_ms"`
	EndTime      time.Time `json:"end_time" db:"end_time_ms"`
	DistanceM    float64   `json:"distance_m" db:"distance_m"`
	MovingTimeS  float64   `json:"moving_time_s" db:"moving_time_s"`
	ElapsedTimeS float64   `json:"elapsed_time_s" db:"elapsed_time_s"`

	AvgSpeedMS          *float64 `json:"avg_speed_ms,omitempty" db:"avg_speed_ms"`
	MaxSpeedMS          *float64 `json:"max_speed_ms,omitempty" db:"max_speed_ms"`
	AvgHeartRateBPM     *float64 `json:"avg_heart_rate_bpm,omitempty" db:"avg_heart_rate_bpm"`
	MaxHeartRateBPM     *float64 `json:"max_heart_rate_bpm,omitempty" db:"max_heart_rate_bpm"`
	AvgCadenceRPM       *float64 `json:"avg_cadence_rpm,omitempty" db:"avg_cadence_rpm"`
	MaxCadenceRPM       *float64 `json:"max_cadence_rpm,omitempty" db:"max_cadence_rpm"`
	TotalElevationGainM *float64 `json:"total_elevation_gain_m,omitempty" db:"total_elevation_gain_m"`

	StartLatitude  *float64 `json:"start_latitude,omitempty" db:"start_latitude"`
	StartLongitude *float64 `json:"start_longitude,omitempty" db:"start_longitude"`
	EndLatitude    *float64 `json:"end_latitude,omitempty" db:"end_latitude"`
	EndLongitude   *float64 `json:"end_longitude,omitempty" db:"end_longitude"`
}

// GenerateLapsRequest is the body of a lap regeneration request
type GenerateLapsRequest struct {
	DistanceM float64 `json:"distance_m" binding:"required"`
}
