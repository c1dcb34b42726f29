package models

// ZoneBoundaries are the user's upper heart-rate bounds (bpm) of zones 1-4.
// Zone 5 is everything above Zone4Max. Unset boundaries are 0.
type ZoneBoundaries struct {
	Zone1Max int `json:"zone_1_max" db:"zone_1_max"`
	Zone2Max int `json:"zone_2_max" db:"zone_2_max"`
	Zone3Max int `json:"zone_3_max" db:"zone_3_max"`
	Zone4Max int `json:"zone_4_max" db:"zone_4_max"`
}

// UserSettings holds per-user preferences
type UserSettings struct {
	UserID string         `json:"user_id" db:"user_id"`
	Zones  ZoneBoundaries `json:"zones"`
}
