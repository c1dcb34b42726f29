// Package fittest assembles small FIT files byte by byte for tests.
package fittest

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/tormoder/fit/dyncrc16"
)

// Base type bytes as they appear in definition messages.
const (
	Enum    uint8 = 0x00
	Sint8   uint8 = 0x01
	Uint8   uint8 = 0x02
	Uint16  uint8 = 0x84
	Sint32  uint8 = 0x85
	Uint32  uint8 = 0x86
	Uint32z uint8 = 0x8C
)

const (
	headerSize      = 14
	protocolVersion = 0x20
	profileVersion  = 2132
)

var epoch = time.Date(1989, 12, 31, 0, 0, 0, 0, time.UTC)

// FieldDef is one field definition of a definition message.
type FieldDef struct {
	Num  uint8
	Size uint8
	Base uint8
}

// Builder appends messages to a FIT data section.
type Builder struct {
	data []byte

	// SkipHeaderCRC writes a zero header CRC.
	SkipHeaderCRC bool
	// CorruptFileCRC flips the trailing file CRC.
	CorruptFileCRC bool
}

func New() *Builder {
	return &Builder{}
}

// Define writes a little endian definition message.
func (b *Builder) Define(local uint8, global uint16, fields ...FieldDef) *Builder {
	return b.define(local, global, binary.LittleEndian, nil, fields)
}

// DefineBigEndian writes a big endian definition message. Data for it must
// be encoded with the BE helpers.
func (b *Builder) DefineBigEndian(local uint8, global uint16, fields ...FieldDef) *Builder {
	return b.define(local, global, binary.BigEndian, nil, fields)
}

// DefineWithDeveloper writes a definition that also declares developer
// fields of the given sizes.
func (b *Builder) DefineWithDeveloper(local uint8, global uint16, devSizes []uint8, fields ...FieldDef) *Builder {
	return b.define(local, global, binary.LittleEndian, devSizes, fields)
}

func (b *Builder) define(local uint8, global uint16, order binary.AppendByteOrder, devSizes []uint8, fields []FieldDef) *Builder {
	header := 0x40 | (local & 0x0F)
	if devSizes != nil {
		header |= 0x20
	}
	arch := byte(0)
	if order == binary.BigEndian {
		arch = 1
	}
	b.data = append(b.data, header, 0, arch)
	b.data = order.AppendUint16(b.data, global)
	b.data = append(b.data, byte(len(fields)))
	for _, f := range fields {
		b.data = append(b.data, f.Num, f.Size, f.Base)
	}
	if devSizes != nil {
		b.data = append(b.data, byte(len(devSizes)))
		for i, size := range devSizes {
			b.data = append(b.data, byte(i), size, 0)
		}
	}
	return b
}

// Data writes a normal data message for the local type.
func (b *Builder) Data(local uint8, values ...[]byte) *Builder {
	b.data = append(b.data, local&0x0F)
	for _, v := range values {
		b.data = append(b.data, v...)
	}
	return b
}

// Compressed writes a compressed timestamp data message.
func (b *Builder) Compressed(local, timeOffset uint8, values ...[]byte) *Builder {
	b.data = append(b.data, 0x80|((local&0x03)<<5)|(timeOffset&0x1F))
	for _, v := range values {
		b.data = append(b.data, v...)
	}
	return b
}

// Raw appends bytes verbatim.
func (b *Builder) Raw(p ...byte) *Builder {
	b.data = append(b.data, p...)
	return b
}

// Bytes returns the complete file: header, data section and file CRC.
func (b *Builder) Bytes() []byte {
	out := make([]byte, 0, headerSize+len(b.data)+2)
	out = append(out, headerSize, protocolVersion)
	out = binary.LittleEndian.AppendUint16(out, profileVersion)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(b.data)))
	out = append(out, ".FIT"...)
	if b.SkipHeaderCRC {
		out = append(out, 0, 0)
	} else {
		out = binary.LittleEndian.AppendUint16(out, dyncrc16.Checksum(out[:12]))
	}
	out = append(out, b.data...)
	crc := dyncrc16.Checksum(out)
	if b.CorruptFileCRC {
		crc = ^crc
	}
	return binary.LittleEndian.AppendUint16(out, crc)
}

// Timestamp converts t to seconds since the FIT epoch.
func Timestamp(t time.Time) uint32 {
	return uint32(t.Sub(epoch) / time.Second)
}

// Semicircles converts degrees to FIT semicircles.
func Semicircles(deg float64) int32 {
	return int32(math.Round(deg * (1 << 31) / 180))
}

func U8(v uint8) []byte { return []byte{v} }

func S8(v int8) []byte { return []byte{byte(v)} }

func U16(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) }

func U32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }

func S32(v int32) []byte { return binary.LittleEndian.AppendUint32(nil, uint32(v)) }

func U16BE(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }

func U32BE(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

func S32BE(v int32) []byte { return binary.BigEndian.AppendUint32(nil, uint32(v)) }

// Invalid sentinels.
var (
	InvalidU8  = []byte{0xFF}
	InvalidU16 = []byte{0xFF, 0xFF}
	InvalidU32 = []byte{0xFF, 0xFF, 0xFF, 0xFF}
	InvalidS32 = []byte{0xFF, 0xFF, 0xFF, 0x7F}
)
