package fitfile

import (
	"encoding/binary"
	"math"
	"time"
)

// Global message numbers consumed by the decoder. Everything else is skipped.
const (
	mesgFileID  uint16 = 0
	mesgSession uint16 = 18
	mesgLap     uint16 = 19
	mesgRecord  uint16 = 20
)

const fieldTimestamp uint8 = 253

// record (20)
const (
	recordPositionLat      uint8 = 0
	recordPositionLong     uint8 = 1
	recordAltitude         uint8 = 2
	recordHeartRate        uint8 = 3
	recordCadence          uint8 = 4
	recordDistance         uint8 = 5
	recordSpeed            uint8 = 6
	recordTemperature      uint8 = 13
	recordEnhancedSpeed    uint8 = 73
	recordEnhancedAltitude uint8 = 78
)

// lap (19)
const (
	lapStartTime         uint8 = 2
	lapStartPositionLat  uint8 = 3
	lapStartPositionLong uint8 = 4
	lapEndPositionLat    uint8 = 5
	lapEndPositionLong   uint8 = 6
	lapTotalElapsedTime  uint8 = 7
	lapTotalTimerTime    uint8 = 8
	lapTotalDistance     uint8 = 9
	lapAvgSpeed          uint8 = 13
	lapMaxSpeed          uint8 = 14
	lapAvgHeartRate      uint8 = 15
	lapMaxHeartRate      uint8 = 16
	lapAvgCadence        uint8 = 17
	lapMaxCadence        uint8 = 18
	lapTotalAscent       uint8 = 21
	lapEnhancedAvgSpeed  uint8 = 110
	lapEnhancedMaxSpeed  uint8 = 111
)

// session (18)
const (
	sessionStartTime        uint8 = 2
	sessionSport            uint8 = 5
	sessionSubSport         uint8 = 6
	sessionTotalElapsedTime uint8 = 7
	sessionTotalTimerTime   uint8 = 8
	sessionTotalDistance    uint8 = 9
	sessionTotalCalories    uint8 = 11
	sessionAvgSpeed         uint8 = 14
	sessionMaxSpeed         uint8 = 15
	sessionAvgHeartRate     uint8 = 16
	sessionMaxHeartRate     uint8 = 17
	sessionAvgCadence       uint8 = 18
	sessionMaxCadence       uint8 = 19
	sessionTotalAscent      uint8 = 22
	sessionEnhancedAvgSpeed uint8 = 124
	sessionEnhancedMaxSpeed uint8 = 125
)

// file_id (0)
const (
	fileIDType         uint8 = 0
	fileIDManufacturer uint8 = 1
	fileIDProduct      uint8 = 2
	fileIDSerialNumber uint8 = 3
	fileIDTimeCreated  uint8 = 4
)

// fitEpoch is the zero point of FIT timestamps.
var fitEpoch = time.Date(1989, 12, 31, 0, 0, 0, 0, time.UTC)

func fitTime(ts uint32) time.Time {
	return fitEpoch.Add(time.Duration(ts) * time.Second)
}

// baseType is the base type number (low 5 bits of the base type byte).
type baseType uint8

const (
	baseEnum    baseType = 0
	baseSint8   baseType = 1
	baseUint8   baseType = 2
	baseSint16  baseType = 3
	baseUint16  baseType = 4
	baseSint32  baseType = 5
	baseUint32  baseType = 6
	baseString  baseType = 7
	baseFloat32 baseType = 8
	baseFloat64 baseType = 9
	baseUint8z  baseType = 10
	baseUint16z baseType = 11
	baseUint32z baseType = 12
	baseByte    baseType = 13
	baseSint64  baseType = 14
	baseUint64  baseType = 15
	baseUint64z baseType = 16
)

var baseSizes = map[baseType]int{
	baseEnum:    1,
	baseSint8:   1,
	baseUint8:   1,
	baseSint16:  2,
	baseUint16:  2,
	baseSint32:  4,
	baseUint32:  4,
	baseString:  1,
	baseFloat32: 4,
	baseFloat64: 8,
	baseUint8z:  1,
	baseUint16z: 2,
	baseUint32z: 4,
	baseByte:    1,
	baseSint64:  8,
	baseUint64:  8,
	baseUint64z: 8,
}

func toBaseType(raw byte) baseType {
	return baseType(raw & 0x1F)
}

// fieldValue is the first element of a decoded field. Arrays, strings and
// byte blobs are not consumed by any message the decoder maps.
type fieldValue struct {
	num   uint8
	value float64
	valid bool
}

// decodeValue decodes the first element of raw. The second return value is
// false for invalid sentinels, unknown base types and short fields.
func decodeValue(raw []byte, bt baseType, order binary.ByteOrder) (float64, bool) {
	size, ok := baseSizes[bt]
	if !ok || len(raw) < size {
		return 0, false
	}
	switch bt {
	case baseEnum, baseUint8:
		return float64(raw[0]), raw[0] != 0xFF
	case baseSint8:
		v := int8(raw[0])
		return float64(v), v != math.MaxInt8
	case baseUint8z:
		return float64(raw[0]), raw[0] != 0
	case baseSint16:
		v := int16(order.Uint16(raw))
		return float64(v), v != math.MaxInt16
	case baseUint16:
		v := order.Uint16(raw)
		return float64(v), v != math.MaxUint16
	case baseUint16z:
		v := order.Uint16(raw)
		return float64(v), v != 0
	case baseSint32:
		v := int32(order.Uint32(raw))
		return float64(v), v != math.MaxInt32
	case baseUint32:
		v := order.Uint32(raw)
		return float64(v), v != math.MaxUint32
	case baseUint32z:
		v := order.Uint32(raw)
		return float64(v), v != 0
	case baseFloat32:
		bits := order.Uint32(raw)
		return float64(math.Float32frombits(bits)), bits != math.MaxUint32
	case baseFloat64:
		bits := order.Uint64(raw)
		return math.Float64frombits(bits), bits != math.MaxUint64
	case baseSint64:
		v := int64(order.Uint64(raw))
		return float64(v), v != math.MaxInt64
	case baseUint64:
		v := order.Uint64(raw)
		return float64(v), v != math.MaxUint64
	case baseUint64z:
		v := order.Uint64(raw)
		return float64(v), v != 0
	default:
		return 0, false
	}
}

func u8(v fieldValue) *uint8 {
	x := uint8(v.value)
	return &x
}

func i8(v fieldValue) *int8 {
	x := int8(v.value)
	return &x
}

func u16(v fieldValue) *uint16 {
	x := uint16(v.value)
	return &x
}

func u32(v fieldValue) *uint32 {
	x := uint32(v.value)
	return &x
}

func i32(v fieldValue) *int32 {
	x := int32(v.value)
	return &x
}

func timePtr(v fieldValue) *time.Time {
	t := fitTime(uint32(v.value))
	return &t
}

func buildSample(ts time.Time, fields []fieldValue) RawSample {
	s := RawSample{Timestamp: ts}
	var enhancedSpeed, enhancedAltitude bool
	for _, f := range fields {
		if !f.valid {
			continue
		}
		switch f.num {
		case recordPositionLat:
			s.PositionLat = i32(f)
		case recordPositionLong:
			s.PositionLong = i32(f)
		case recordAltitude:
			if !enhancedAltitude {
				s.Altitude = u32(f)
			}
		case recordEnhancedAltitude:
			s.Altitude = u32(f)
			enhancedAltitude = true
		case recordHeartRate:
			s.HeartRate = u8(f)
		case recordCadence:
			s.Cadence = u8(f)
		case recordDistance:
			s.Distance = u32(f)
		case recordSpeed:
			if !enhancedSpeed {
				s.Speed = u32(f)
			}
		case recordEnhancedSpeed:
			s.Speed = u32(f)
			enhancedSpeed = true
		case recordTemperature:
			s.Temperature = i8(f)
		}
	}
	return s
}

func buildLap(fields []fieldValue) RawLap {
	var l RawLap
	var enhancedAvg, enhancedMax bool
	for _, f := range fields {
		if !f.valid {
			continue
		}
		switch f.num {
		case fieldTimestamp:
			l.Timestamp = timePtr(f)
		case lapStartTime:
			l.StartTime = timePtr(f)
		case lapStartPositionLat:
			l.StartPositionLat = i32(f)
		case lapStartPositionLong:
			l.StartPositionLong = i32(f)
		case lapEndPositionLat:
			l.EndPositionLat = i32(f)
		case lapEndPositionLong:
			l.EndPositionLong = i32(f)
		case lapTotalElapsedTime:
			l.TotalElapsedTime = u32(f)
		case lapTotalTimerTime:
			l.TotalTimerTime = u32(f)
		case lapTotalDistance:
			l.TotalDistance = u32(f)
		case lapAvgSpeed:
			if !enhancedAvg {
				l.AvgSpeed = u32(f)
			}
		case lapEnhancedAvgSpeed:
			l.AvgSpeed = u32(f)
			enhancedAvg = true
		case lapMaxSpeed:
			if !enhancedMax {
				l.MaxSpeed = u32(f)
			}
		case lapEnhancedMaxSpeed:
			l.MaxSpeed = u32(f)
			enhancedMax = true
		case lapAvgHeartRate:
			l.AvgHeartRate = u8(f)
		case lapMaxHeartRate:
			l.MaxHeartRate = u8(f)
		case lapAvgCadence:
			l.AvgCadence = u8(f)
		case lapMaxCadence:
			l.MaxCadence = u8(f)
		case lapTotalAscent:
			l.TotalAscent = u16(f)
		}
	}
	return l
}

func buildSession(fields []fieldValue) RawSession {
	var s RawSession
	var enhancedAvg, enhancedMax bool
	for _, f := range fields {
		if !f.valid {
			continue
		}
		switch f.num {
		case fieldTimestamp:
			s.Timestamp = timePtr(f)
		case sessionStartTime:
			s.StartTime = timePtr(f)
		case sessionSport:
			s.Sport = u8(f)
		case sessionSubSport:
			s.SubSport = u8(f)
		case sessionTotalElapsedTime:
			s.TotalElapsedTime = u32(f)
		case sessionTotalTimerTime:
			s.TotalTimerTime = u32(f)
		case sessionTotalDistance:
			s.TotalDistance = u32(f)
		case sessionTotalCalories:
			s.TotalCalories = u16(f)
		case sessionAvgSpeed:
			if !enhancedAvg {
				s.AvgSpeed = u32(f)
			}
		case sessionEnhancedAvgSpeed:
			s.AvgSpeed = u32(f)
			enhancedAvg = true
		case sessionMaxSpeed:
			if !enhancedMax {
				s.MaxSpeed = u32(f)
			}
		case sessionEnhancedMaxSpeed:
			s.MaxSpeed = u32(f)
			enhancedMax = true
		case sessionAvgHeartRate:
			s.AvgHeartRate = u8(f)
		case sessionMaxHeartRate:
			s.MaxHeartRate = u8(f)
		case sessionAvgCadence:
			s.AvgCadence = u8(f)
		case sessionMaxCadence:
			s.MaxCadence = u8(f)
		case sessionTotalAscent:
			s.TotalAscent = u16(f)
		}
	}
	return s
}

func buildFileID(fields []fieldValue) *RawFileID {
	id := &RawFileID{}
	for _, f := range fields {
		if !f.valid {
			continue
		}
		switch f.num {
		case fileIDType:
			id.Type = u8(f)
		case fileIDManufacturer:
			id.Manufacturer = u16(f)
		case fileIDProduct:
			id.Product = u16(f)
		case fileIDSerialNumber:
			id.SerialNumber = u32(f)
		case fileIDTimeCreated:
			id.TimeCreated = timePtr(f)
		}
	}
	return id
}
