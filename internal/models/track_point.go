package models

import "time"

// Trackpoint is one telemetry sample of an activity. Every channel is optional
// because devices omit whatever they do not record.
type Trackpoint struct {
	ID         int64     `json:"id" db:"id"`
	ActivityID int64     `json:"activity_id" db:"activity_id"`
	Seq        int       `json:"seq" db:"seq"` // index of the sample in the source file
	Timestamp  time.Time `json:"timestamp" db:"timestamp_ms"`

	Latitude     *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64 `json:"longitude,omitempty" db:"longitude"`
	AltitudeM    *float64 `json:"altitude_m,omitempty" db:"altitude_m"`
	DistanceM    *float64 `json:"distance_m,omitempty" db:"distance_m"` // cumulative from activity start
	SpeedMS      *float64 `json:"speed_ms,omitempty" db:"speed_ms"`
	HeartRateBPM *int     `json:"heart_rate_bpm,omitempty" db:"heart_rate_bpm"`
	CadenceRPM   *int     `json:"cadence_rpm,omitempty" db:"cadence_rpm"`
	TemperatureC *float64 `json:"temperature_c,omitempty" db:"temperature_c"`
}

// HasPosition reports whether both coordinates are present.
func (t Trackpoint) HasPosition() bool {
	return t.Latitude != nil && t.Longitude != nil
}

// Speed returns the speed in m/s, treating a missing reading as 0.
func (t Trackpoint) Speed() float64 {
	if t.SpeedMS == nil {
		return 0
	}
	return *t.SpeedMS
}

// IsEmpty reports whether the sample carries no channel at all.
func (t Trackpoint) IsEmpty() bool {
	return t.Latitude == nil && t.Longitude == nil && t.AltitudeM == nil &&
		t.DistanceM == nil && t.SpeedMS == nil && t.HeartRateBPM == nil &&
		t.CadenceRPM == nil && t.TemperatureC == nil
}

// TrackpointsResponse represents the trackpoints of one activity
type TrackpointsResponse struct {
	ActivityID int64        `json:"activity_id"`
	Data       []Trackpoint `json:"data"`
	Total      int          `json:"total"`
}
