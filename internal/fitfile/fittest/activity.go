package fittest

import (
	"math"
	"time"
)

// Sample is one record of a generated ride. Zero HeartRate or Cadence is
// written as the invalid sentinel; NoPosition omits coordinates.
type Sample struct {
	Offset     time.Duration
	Lat, Long  float64
	NoPosition bool
	AltitudeM  float64
	DistanceM  float64
	SpeedMS    float64
	HeartRate  uint8
	Cadence    uint8
}

// Ride describes a complete activity file.
type Ride struct {
	Start   time.Time
	Samples []Sample
	// Sport is the FIT sport enum of the session. Zero means cycling.
	Sport uint8
	// NoSession leaves the session message out.
	NoSession bool
}

const (
	mesgFileID  = 0
	mesgSession = 18
	mesgLap     = 19
	mesgRecord  = 20
)

// Activity renders a ride as a FIT file with file_id, record, lap and
// session messages.
func Activity(r Ride) []byte {
	sport := r.Sport
	if sport == 0 {
		sport = 2
	}
	startTS := Timestamp(r.Start)

	b := New().
		Define(0, mesgFileID,
			FieldDef{Num: 0, Size: 1, Base: Enum},
			FieldDef{Num: 1, Size: 2, Base: Uint16},
			FieldDef{Num: 4, Size: 4, Base: Uint32}).
		Data(0, U8(4), U16(1), U32(startTS)).
		Define(1, mesgRecord,
			FieldDef{Num: 253, Size: 4, Base: Uint32},
			FieldDef{Num: 0, Size: 4, Base: Sint32},
			FieldDef{Num: 1, Size: 4, Base: Sint32},
			FieldDef{Num: 2, Size: 2, Base: Uint16},
			FieldDef{Num: 3, Size: 1, Base: Uint8},
			FieldDef{Num: 4, Size: 1, Base: Uint8},
			FieldDef{Num: 5, Size: 4, Base: Uint32},
			FieldDef{Num: 6, Size: 2, Base: Uint16})

	var (
		maxHR, sumHR uint32
		hrN          uint32
		distance     float64
		last         time.Duration
	)
	for _, s := range r.Samples {
		lat, long := S32(Semicircles(s.Lat)), S32(Semicircles(s.Long))
		if s.NoPosition {
			lat, long = InvalidS32, InvalidS32
		}
		hr, cad := U8(s.HeartRate), U8(s.Cadence)
		if s.HeartRate == 0 {
			hr = InvalidU8
		} else {
			sumHR += uint32(s.HeartRate)
			hrN++
			if uint32(s.HeartRate) > maxHR {
				maxHR = uint32(s.HeartRate)
			}
		}
		if s.Cadence == 0 {
			cad = InvalidU8
		}
		b.Data(1,
			U32(startTS+uint32(s.Offset/time.Second)),
			lat, long,
			U16(uint16(math.Round((s.AltitudeM+500)*5))),
			hr, cad,
			U32(uint32(math.Round(s.DistanceM*100))),
			U16(uint16(math.Round(s.SpeedMS*1000))))
		distance = s.DistanceM
		last = s.Offset
	}

	endTS := startTS + uint32(last/time.Second)
	elapsedMS := uint32(last / time.Millisecond)
	distCM := uint32(math.Round(distance * 100))

	b.Define(2, mesgLap,
		FieldDef{Num: 253, Size: 4, Base: Uint32},
		FieldDef{Num: 2, Size: 4, Base: Uint32},
		FieldDef{Num: 7, Size: 4, Base: Uint32},
		FieldDef{Num: 8, Size: 4, Base: Uint32},
		FieldDef{Num: 9, Size: 4, Base: Uint32}).
		Data(2, U32(endTS), U32(startTS), U32(elapsedMS), U32(elapsedMS), U32(distCM))

	if !r.NoSession {
		avgHR, maxHRByte := InvalidU8, InvalidU8
		if hrN > 0 {
			avgHR = U8(uint8(sumHR / hrN))
			maxHRByte = U8(uint8(maxHR))
		}
		b.Define(3, mesgSession,
			FieldDef{Num: 253, Size: 4, Base: Uint32},
			FieldDef{Num: 2, Size: 4, Base: Uint32},
			FieldDef{Num: 5, Size: 1, Base: Enum},
			FieldDef{Num: 7, Size: 4, Base: Uint32},
			FieldDef{Num: 8, Size: 4, Base: Uint32},
			FieldDef{Num: 9, Size: 4, Base: Uint32},
			FieldDef{Num: 16, Size: 1, Base: Uint8},
			FieldDef{Num: 17, Size: 1, Base: Uint8}).
			Data(3, U32(endTS), U32(startTS), U8(sport), U32(elapsedMS), U32(elapsedMS), U32(distCM), avgHR, maxHRByte)
	}
	return b.Bytes()
}
