package eval

import (
	"encoding/binary"
	"time"
)

// GeoJSON is the value of a GeoJSON bin. Plain strings are string bins.
type GeoJSON string

// Particle is a list or map bin value still in its MessagePack encoding.
// It is decoded on first use by a list or map extractor.
type Particle []byte

// Record is the data a program is evaluated against.
type Record struct {
	// Bins maps bin names to values. Supported value types:
	// integers of any width, string, GeoJSON, orb.Geometry,
	// []any, []int64, []string, map[any]any, map[string]any, Particle.
	Bins map[string]any

	// DeviceSize is the storage footprint of the record in bytes.
	DeviceSize int64

	// LastUpdate is the time of the last write.
	LastUpdate time.Time

	// VoidTime is the expiration time; the zero time means never.
	VoidTime time.Time

	// Digest is the record key digest.
	Digest [20]byte
}

// DigestModulo returns the record's digest bucket for mod.
// The bucket is taken from the last four digest bytes, little-endian.
func (r *Record) DigestModulo(mod int32) (int64, bool) {
	if mod == 0 {
		return 0, false
	}
	v := int64(binary.LittleEndian.Uint32(r.Digest[16:20]))
	m := int64(mod)
	if m < 0 {
		m = -m
	}
	return v % m, true
}

func unixNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
