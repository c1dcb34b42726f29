package models

import "time"

// Activity is one recorded ride owned by a user. FIT data (trackpoints and
// device laps) is attached to it by an upload.
type Activity struct {
	ID        int64      `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Name      string     `json:"name" db:"name"`
	Source    string     `json:"source" db:"source"` // manual, upload, external platform name
	Sport     string     `json:"sport,omitempty" db:"sport"`
	StartTime *time.Time `json:"start_time,omitempty" db:"start_time_ms"`

	FitProcessed bool `json:"fit_processed" db:"fit_processed"`

	Summary SessionSummary `json:"summary"`

	// Time in heart-rate zones, written after each zone computation
	Zone1Seconds *int64 `json:"zone_1_seconds,omitempty" db:"zone_1_seconds"`
	Zone2Seconds *int64 `json:"zone_2_seconds,omitempty" db:"zone_2_seconds"`
	Zone3Seconds *int64 `json:"zone_3_seconds,omitempty" db:"zone_3_seconds"`
	Zone4Seconds *int64 `json:"zone_4_seconds,omitempty" db:"zone_4_seconds"`
	Zone5Seconds *int64 `json:"zone_5_seconds,omitempty" db:"zone_5_seconds"`

	CreatedAt time.Time `json:"created_at" db:"created_at_ms"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at_ms"`
}

// SessionSummary holds the session-level aggregates reported by the device.
type SessionSummary struct {
	TotalDistanceM   *float64 `json:"total_distance_m,omitempty" db:"total_distance_m"`
	TotalTimerTimeS  *float64 `json:"total_timer_time_s,omitempty" db:"total_timer_time_s"`
	TotalElapsedS    *float64 `json:"total_elapsed_time_s,omitempty" db:"total_elapsed_time_s"`
	AvgSpeedMS       *float64 `json:"avg_speed_ms,omitempty" db:"avg_speed_ms"`
	MaxSpeedMS       *float64 `json:"max_speed_ms,omitempty" db:"max_speed_ms"`
	AvgHeartRateBPM  *float64 `json:"avg_heart_rate_bpm,omitempty" db:"avg_heart_rate_bpm"`
	MaxHeartRateBPM  *float64 `json:"max_heart_rate_bpm,omitempty" db:"max_heart_rate_bpm"`
	AvgCadenceRPM    *float64 `json:"avg_cadence_rpm,omitempty" db:"avg_cadence_rpm"`
	MaxCadenceRPM    *float64 `json:"max_cadence_rpm,omitempty" db:"max_cadence_rpm"`
	TotalAscentM     *float64 `json:"total_ascent_m,omitempty" db:"total_ascent_m"`
	TotalCalories    *float64 `json:"total_calories,omitempty" db:"total_calories"`
	SyntheticSession bool     `json:"synthetic_session,omitempty" db:"synthetic_session"`
}

// CreateActivityRequest is the body of an activity creation request
type CreateActivityRequest struct {
	Name      string     `json:"name" binding:"required"`
	Source    string     `json:"source"`
	StartTime *time.Time `json:"start_time"`
}

// ImportResult describes a completed FIT import
type ImportResult struct {
	ActivityID      int64    `json:"activity_id"`
	TrackpointCount int      `json:"trackpoint_count"`
	LapCount        int      `json:"lap_count"`
	Warnings        []string `json:"warnings,omitempty"`
}
