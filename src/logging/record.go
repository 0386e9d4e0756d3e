package logging

import (
	"encoding/binary"
	"math"
	"time"
)

// A Record is a single logged event, corresponding one-to-one with an
// AxeLogBinaryFile binary record.
type Record struct {
	Time     time.Time
	ThreadID uint32
	Level    Level
	Type     EventType
	Category string
	Message  string
	Data     []byte
}

// IntValue decodes Data as the i64 LE payload of a TypeIntValue record.
func (r Record) IntValue() int64 {
	return int64(binary.LittleEndian.Uint64(r.Data))
}

// TimeSecondsValue decodes Data as the u64 seconds payload of a TypeTimeValue record.
func (r Record) TimeSecondsValue() uint64 {
	return binary.LittleEndian.Uint64(r.Data)
}

// FloatValue decodes Data as the f32 LE payload of a TypeFloatValue record.
func (r Record) FloatValue() float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(r.Data))
}

// IntValueData encodes v as the i64 LE payload for a TypeIntValue record.
func IntValueData(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}

// TimeValueData encodes seconds as the u64 LE payload for a TypeTimeValue record.
func TimeValueData(seconds uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, seconds)
	return b
}

// FloatValueData encodes v as the f32 LE payload for a TypeFloatValue record.
func FloatValueData(v float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	return b
}
