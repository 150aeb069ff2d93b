package evalsvc

import (
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/hugr-lab/predexp-go/eval"
	"github.com/hugr-lab/predexp-go/internal/msgpack"
)

// FilterRequest asks the evaluator to match records against a predicate.
type FilterRequest struct {
	// Predicate is the encoded predexp program.
	Predicate []byte `msgpack:"predicate"`

	// Compressed marks a ZStandard compressed Predicate.
	Compressed bool `msgpack:"compressed,omitempty"`

	Records []WireRecord `msgpack:"records"`
}

// FilterResponse holds one match flag per request record, in order.
type FilterResponse struct {
	Matches []bool `msgpack:"matches"`
}

// WireRecord is the transport form of eval.Record. Bins are grouped by
// type; list and map bins travel as MessagePack particles.
type WireRecord struct {
	Ints        map[string]int64  `msgpack:"ints,omitempty"`
	Strings     map[string]string `msgpack:"strings,omitempty"`
	GeoJSON     map[string]string `msgpack:"geojson,omitempty"`
	Collections map[string][]byte `msgpack:"collections,omitempty"`

	DeviceSize int64  `msgpack:"device_size,omitempty"`
	LastUpdate int64  `msgpack:"last_update,omitempty"` // Unix nanoseconds
	VoidTime   int64  `msgpack:"void_time,omitempty"`   // Unix nanoseconds, 0 = never
	Digest     []byte `msgpack:"digest,omitempty"`
}

// newWireRecord converts a record for transport.
func newWireRecord(rec *eval.Record) (WireRecord, error) {
	w := WireRecord{
		DeviceSize: rec.DeviceSize,
		LastUpdate: unixNanos(rec.LastUpdate),
		VoidTime:   unixNanos(rec.VoidTime),
		Digest:     append([]byte(nil), rec.Digest[:]...),
	}

	for name, v := range rec.Bins {
		if i, ok := intBin(v); ok {
			setBin(&w.Ints, name, i)
			continue
		}
		switch v := v.(type) {
		case string:
			setBin(&w.Strings, name, v)
		case eval.GeoJSON:
			setBin(&w.GeoJSON, name, string(v))
		case orb.Geometry:
			data, err := geojson.NewGeometry(v).MarshalJSON()
			if err != nil {
				return w, fmt.Errorf("bin %q: %w", name, err)
			}
			setBin(&w.GeoJSON, name, string(data))
		case eval.Particle:
			setBin(&w.Collections, name, []byte(v))
		case []any, []int64, []string, map[string]any, map[any]any:
			data, err := msgpack.Encode(v)
			if err != nil {
				return w, fmt.Errorf("bin %q: %w", name, err)
			}
			setBin(&w.Collections, name, data)
		default:
			return w, fmt.Errorf("bin %q: unsupported value type %T", name, v)
		}
	}
	return w, nil
}

// record restores the evaluated form. Collections stay encoded and are
// decoded only if the program iterates over them.
func (w *WireRecord) record() (eval.Record, error) {
	rec := eval.Record{
		Bins:       make(map[string]any, len(w.Ints)+len(w.Strings)+len(w.GeoJSON)+len(w.Collections)),
		DeviceSize: w.DeviceSize,
		LastUpdate: fromUnixNanos(w.LastUpdate),
		VoidTime:   fromUnixNanos(w.VoidTime),
	}
	if len(w.Digest) != 0 && len(w.Digest) != len(rec.Digest) {
		return rec, fmt.Errorf("digest of %d bytes, want %d", len(w.Digest), len(rec.Digest))
	}
	copy(rec.Digest[:], w.Digest)

	for name, v := range w.Ints {
		rec.Bins[name] = v
	}
	for name, v := range w.Strings {
		rec.Bins[name] = v
	}
	for name, v := range w.GeoJSON {
		rec.Bins[name] = eval.GeoJSON(v)
	}
	for name, v := range w.Collections {
		rec.Bins[name] = eval.Particle(v)
	}
	return rec, nil
}

func setBin[V any](m *map[string]V, name string, v V) {
	if *m == nil {
		*m = make(map[string]V)
	}
	(*m)[name] = v
}

func intBin(v any) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		return int64(v), uint64(v) <= math.MaxInt64
	case uint64:
		return int64(v), v <= math.MaxInt64
	default:
		return 0, false
	}
}

func unixNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNanos(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}
