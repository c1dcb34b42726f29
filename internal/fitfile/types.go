package fitfile

import "time"

// RawActivity is the decoded content of one FIT activity file. Values keep the
// FIT profile's native units; converting them is the normalizer's job.
type RawActivity struct {
	FileID   *RawFileID
	Samples  []RawSample
	Laps     []RawLap
	Session  RawSession
	Warnings []string
}

// RawFileID is the file_id message (global 0).
type RawFileID struct {
	Type         *uint8
	Manufacturer *uint16
	Product      *uint16
	SerialNumber *uint32
	TimeCreated  *time.Time
}

// RawSample is one record message (global 20).
type RawSample struct {
	Timestamp    time.Time
	PositionLat  *int32  // semicircles
	PositionLong *int32  // semicircles
	Altitude     *uint32 // m, scale 5, offset 500
	Distance     *uint32 // cm
	Speed        *uint32 // mm/s
	HeartRate    *uint8  // bpm
	Cadence      *uint8  // rpm
	Temperature  *int8   // C
}

// RawLap is one lap message (global 19).
type RawLap struct {
	Timestamp         *time.Time // end of lap
	StartTime         *time.Time
	StartPositionLat  *int32
	StartPositionLong *int32
	EndPositionLat    *int32
	EndPositionLong   *int32
	TotalElapsedTime  *uint32 // ms
	TotalTimerTime    *uint32 // ms
	TotalDistance     *uint32 // cm
	AvgSpeed          *uint32 // mm/s
	MaxSpeed          *uint32 // mm/s
	AvgHeartRate      *uint8
	MaxHeartRate      *uint8
	AvgCadence        *uint8
	MaxCadence        *uint8
	TotalAscent       *uint16 // m
}

// RawSession is the session message (global 18). When a file carries several
// sessions they are merged; when it carries none the summary is derived from
// the samples and Synthetic is set.
type RawSession struct {
	Timestamp        *time.Time
	StartTime        *time.Time
	Sport            *uint8
	SubSport         *uint8
	TotalElapsedTime *uint32 // ms
	TotalTimerTime   *uint32 // ms
	TotalDistance    *uint32 // cm
	TotalCalories    *uint16 // kcal
	AvgSpeed         *uint32 // mm/s
	MaxSpeed         *uint32 // mm/s
	AvgHeartRate     *uint8
	MaxHeartRate     *uint8
	AvgCadence       *uint8
	MaxCadence       *uint8
	TotalAscent      *uint16 // m
	Synthetic        bool
}
