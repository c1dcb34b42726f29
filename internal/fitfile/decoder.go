package fitfile

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/tormoder/fit/dyncrc16"
)

const (
	// HeaderSize is the only FIT header length accepted for upload.
	HeaderSize = 14
	dataType   = ".FIT"
	crcSize    = 2

	compressedHeaderMask = 0x80
	compressedLocalMask  = 0x60
	compressedTimeMask   = 0x1F
	definitionMask       = 0x40
	devDataMask          = 0x20
	localMesgNumMask     = 0x0F
)

// Validate is the cheap pre-check run before Decode: the buffer must start
// with a 14 byte header whose bytes 8..11 hold the ".FIT" tag.
func Validate(buf []byte) bool {
	return len(buf) >= HeaderSize &&
		buf[0] == HeaderSize &&
		string(buf[8:12]) == dataType
}

type fieldDef struct {
	num  uint8
	size uint8
	base baseType
}

type definition struct {
	global  uint16
	order   binary.ByteOrder
	fields  []fieldDef
	devSize int
}

type decoder struct {
	r           *reader
	definitions map[uint8]*definition

	lastTimestamp  uint32
	lastTimeOffset uint32

	fileID       *RawFileID
	samples      []RawSample
	laps         []RawLap
	sessions     []RawSession
	untimedCount int
}

// Decode parses a FIT activity file. It is a pure, single attempt operation:
// the returned error wraps ErrInvalidHeader, ErrUnparseable or
// ErrNoActivityData.
func Decode(buf []byte) (*RawActivity, error) {
	if !Validate(buf) {
		return nil, ErrInvalidHeader
	}

	var warnings []string
	storedHeaderCRC := binary.LittleEndian.Uint16(buf[12:14])
	if storedHeaderCRC != 0 && storedHeaderCRC != dyncrc16.Checksum(buf[:12]) {
		warnings = append(warnings, "header CRC mismatch")
	}

	dataSize := int(binary.LittleEndian.Uint32(buf[4:8]))
	end := HeaderSize + dataSize
	if end+crcSize > len(buf) {
		return nil, fmt.Errorf("%w: truncated: have %d bytes, need at least %d", ErrUnparseable, len(buf), end+crcSize)
	}
	storedFileCRC := binary.LittleEndian.Uint16(buf[end : end+crcSize])
	if storedFileCRC != dyncrc16.Checksum(buf[:end]) {
		warnings = append(warnings, "file CRC mismatch")
	}
	if trailing := len(buf) - end - crcSize; trailing > 0 {
		warnings = append(warnings, fmt.Sprintf("ignored %d trailing bytes", trailing))
	}

	d := &decoder{
		r:           newReader(buf[HeaderSize:end], HeaderSize),
		definitions: make(map[uint8]*definition),
	}
	if err := d.run(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}
	if d.untimedCount > 0 {
		warnings = append(warnings, fmt.Sprintf("dropped %d records without timestamp", d.untimedCount))
	}

	if len(d.samples) == 0 && len(d.sessions) == 0 {
		return nil, ErrNoActivityData
	}

	var session RawSession
	switch {
	case len(d.sessions) == 0:
		session = synthesizeSession(d.samples)
	case len(d.sessions) == 1:
		session = d.sessions[0]
	default:
		session = mergeSessions(d.sessions)
		warnings = append(warnings, fmt.Sprintf("merged %d sessions", len(d.sessions)))
	}

	return &RawActivity{
		FileID:   d.fileID,
		Samples:  d.samples,
		Laps:     d.laps,
		Session:  session,
		Warnings: warnings,
	}, nil
}

func (d *decoder) run() error {
	for !d.r.done() {
		header, err := d.r.readByte()
		if err != nil {
			return err
		}

		switch {
		case header&compressedHeaderMask != 0:
			local := (header & compressedLocalMask) >> 5
			def, ok := d.definitions[local]
			if !ok {
				return fmt.Errorf("compressed message for undefined local type %d at byte %d", local, d.r.offset()-1)
			}
			if err := d.readData(def, header, true); err != nil {
				return err
			}
		case header&definitionMask != 0:
			if err := d.readDefinition(header); err != nil {
				return err
			}
		default:
			local := header & localMesgNumMask
			def, ok := d.definitions[local]
			if !ok {
				return fmt.Errorf("data message for undefined local type %d at byte %d", local, d.r.offset()-1)
			}
			if err := d.readData(def, header, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) readDefinition(header byte) error {
	if err := d.r.skip(1); err != nil { // reserved
		return err
	}
	arch, err := d.r.readByte()
	if err != nil {
		return err
	}
	def := &definition{}
	switch arch {
	case 0:
		def.order = binary.LittleEndian
	case 1:
		def.order = binary.BigEndian
	default:
		return fmt.Errorf("invalid architecture %d at byte %d", arch, d.r.offset()-1)
	}

	global, err := d.r.next(2)
	if err != nil {
		return err
	}
	def.global = def.order.Uint16(global)

	count, err := d.r.readByte()
	if err != nil {
		return err
	}
	def.fields = make([]fieldDef, 0, count)
	for i := 0; i < int(count); i++ {
		raw, err := d.r.next(3)
		if err != nil {
			return err
		}
		def.fields = append(def.fields, fieldDef{num: raw[0], size: raw[1], base: toBaseType(raw[2])})
	}

	if header&devDataMask != 0 {
		devCount, err := d.r.readByte()
		if err != nil {
			return err
		}
		for i := 0; i < int(devCount); i++ {
			raw, err := d.r.next(3)
			if err != nil {
				return err
			}
			def.devSize += int(raw[1])
		}
	}

	d.definitions[header&localMesgNumMask] = def
	return nil
}

func (d *decoder) readData(def *definition, header byte, compressed bool) error {
	var (
		ts     uint32
		hasTS  bool
		fields []fieldValue
	)
	if compressed && d.lastTimestamp != 0 {
		offset := uint32(header & compressedTimeMask)
		d.lastTimestamp += (offset - d.lastTimeOffset) & compressedTimeMask
		d.lastTimeOffset = offset
		ts, hasTS = d.lastTimestamp, true
	}

	wanted := isConsumed(def.global)
	if wanted {
		fields = make([]fieldValue, 0, len(def.fields))
	}
	for _, fd := range def.fields {
		raw, err := d.r.next(int(fd.size))
		if err != nil {
			return err
		}
		if fd.num == fieldTimestamp {
			if v, ok := decodeValue(raw, fd.base, def.order); ok {
				ts, hasTS = uint32(v), true
				d.lastTimestamp = ts
				d.lastTimeOffset = ts & compressedTimeMask
			}
		}
		if !wanted {
			continue
		}
		v, ok := decodeValue(raw, fd.base, def.order)
		fields = append(fields, fieldValue{num: fd.num, value: v, valid: ok})
	}
	if err := d.r.skip(def.devSize); err != nil {
		return err
	}

	switch def.global {
	case mesgRecord:
		if !hasTS {
			d.untimedCount++
			return nil
		}
		d.samples = append(d.samples, buildSample(fitTime(ts), fields))
	case mesgLap:
		d.laps = append(d.laps, buildLap(fields))
	case mesgSession:
		d.sessions = append(d.sessions, buildSession(fields))
	case mesgFileID:
		if d.fileID == nil {
			d.fileID = buildFileID(fields)
		}
	}
	return nil
}

func isConsumed(global uint16) bool {
	switch global {
	case mesgRecord, mesgLap, mesgSession, mesgFileID:
		return true
	}
	return false
}

// synthesizeSession derives a session summary from the samples of a file that
// carries none.
func synthesizeSession(samples []RawSample) RawSession {
	s := RawSession{Synthetic: true}
	if len(samples) == 0 {
		return s
	}
	start := samples[0].Timestamp
	last := samples[len(samples)-1].Timestamp
	s.StartTime = &start
	s.Timestamp = &last
	elapsed := uint32(last.Sub(start) / time.Millisecond)
	s.TotalElapsedTime = &elapsed
	timer := elapsed
	s.TotalTimerTime = &timer

	var (
		maxDistance     uint32
		hasDistance     bool
		speedSum, hrSum float64
		cadSum          float64
		speedN, hrN     int
		cadN            int
		maxSpeed        uint32
		maxHR, maxCad   uint8
	)
	for _, smp := range samples {
		if smp.Distance != nil && *smp.Distance >= maxDistance {
			maxDistance, hasDistance = *smp.Distance, true
		}
		if smp.Speed != nil {
			speedSum += float64(*smp.Speed)
			speedN++
			if *smp.Speed > maxSpeed {
				maxSpeed = *smp.Speed
			}
		}
		if smp.HeartRate != nil {
			hrSum += float64(*smp.HeartRate)
			hrN++
			if *smp.HeartRate > maxHR {
				maxHR = *smp.HeartRate
			}
		}
		if smp.Cadence != nil {
			cadSum += float64(*smp.Cadence)
			cadN++
			if *smp.Cadence > maxCad {
				maxCad = *smp.Cadence
			}
		}
	}
	if hasDistance {
		s.TotalDistance = &maxDistance
	}
	if speedN > 0 {
		avg := uint32(speedSum / float64(speedN))
		s.AvgSpeed = &avg
		s.MaxSpeed = &maxSpeed
	}
	if hrN > 0 {
		avg := uint8(hrSum / float64(hrN))
		s.AvgHeartRate = &avg
		s.MaxHeartRate = &maxHR
	}
	if cadN > 0 {
		avg := uint8(cadSum / float64(cadN))
		s.AvgCadence = &avg
		s.MaxCadence = &maxCad
	}
	return s
}

// mergeSessions folds multi-session files into one summary: totals are
// summed, maxima kept, averages weighted by timer time.
func mergeSessions(sessions []RawSession) RawSession {
	merged := sessions[0]
	for _, s := range sessions[1:] {
		weightA := float64(deref32(merged.TotalTimerTime))
		weightB := float64(deref32(s.TotalTimerTime))

		if s.StartTime != nil && (merged.StartTime == nil || s.StartTime.Before(*merged.StartTime)) {
			merged.StartTime = s.StartTime
		}
		if s.Timestamp != nil && (merged.Timestamp == nil || s.Timestamp.After(*merged.Timestamp)) {
			merged.Timestamp = s.Timestamp
		}
		merged.TotalElapsedTime = sum32(merged.TotalElapsedTime, s.TotalElapsedTime)
		merged.TotalTimerTime = sum32(merged.TotalTimerTime, s.TotalTimerTime)
		merged.TotalDistance = sum32(merged.TotalDistance, s.TotalDistance)
		merged.TotalCalories = sum16(merged.TotalCalories, s.TotalCalories)
		merged.TotalAscent = sum16(merged.TotalAscent, s.TotalAscent)

		merged.MaxSpeed = max32(merged.MaxSpeed, s.MaxSpeed)
		merged.MaxHeartRate = max8(merged.MaxHeartRate, s.MaxHeartRate)
		merged.MaxCadence = max8(merged.MaxCadence, s.MaxCadence)

		merged.AvgSpeed = weighted32(merged.AvgSpeed, s.AvgSpeed, weightA, weightB)
		merged.AvgHeartRate = weighted8(merged.AvgHeartRate, s.AvgHeartRate, weightA, weightB)
		merged.AvgCadence = weighted8(merged.AvgCadence, s.AvgCadence, weightA, weightB)
	}
	return merged
}

func deref32(p *uint32) uint32 {
	if p == nil {
		return 0
	}
	return *p
}

func sum32(a, b *uint32) *uint32 {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	v := *a + *b
	return &v
}

func sum16(a, b *uint16) *uint16 {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	v := *a + *b
	return &v
}

func max32(a, b *uint32) *uint32 {
	if a == nil || (b != nil && *b > *a) {
		return b
	}
	return a
}

func max8(a, b *uint8) *uint8 {
	if a == nil || (b != nil && *b > *a) {
		return b
	}
	return a
}

func weightedAvg(a, b, wa, wb float64) float64 {
	if wa+wb == 0 {
		return (a + b) / 2
	}
	return (a*wa + b*wb) / (wa + wb)
}

func weighted32(a, b *uint32, wa, wb float64) *uint32 {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	v := uint32(weightedAvg(float64(*a), float64(*b), wa, wb))
	return &v
}

func weighted8(a, b *uint8, wa, wb float64) *uint8 {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	v := uint8(weightedAvg(float64(*a), float64(*b), wa, wb))
	return &v
}
