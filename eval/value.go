package eval

import (
	"math"

	"github.com/paulmach/orb"

	predexp "github.com/hugr-lab/predexp-go"
	"github.com/hugr-lab/predexp-go/internal/msgpack"
)

// value is a stack value produced by a value-class node.
// typ is TypeNone when the value is unknown.
type value struct {
	typ   predexp.ValueType
	i     int64
	s     string
	shape *shape
	list  []any
	m     map[any]any
}

var unknown = value{}

func (v value) known() bool { return v.typ != predexp.TypeNone }

// toValue converts a bin or element to the requested type, or returns unknown.
func toValue(raw any, want predexp.ValueType) value {
	switch want {
	case predexp.TypeInteger:
		if i, ok := toInt(raw); ok {
			return value{typ: predexp.TypeInteger, i: i}
		}
	case predexp.TypeString:
		if s, ok := raw.(string); ok {
			return value{typ: predexp.TypeString, s: s}
		}
	case predexp.TypeGeoJSON:
		if sh, ok := toShape(raw); ok {
			return value{typ: predexp.TypeGeoJSON, shape: sh}
		}
	case predexp.TypeList:
		if l, ok := toList(raw); ok {
			return value{typ: predexp.TypeList, list: l}
		}
	case predexp.TypeMap:
		if m, ok := toMap(raw); ok {
			return value{typ: predexp.TypeMap, m: m}
		}
	}
	return unknown
}

func toInt(raw any) (int64, bool) {
	switch v := raw.(type) {
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
	case uint:
		return uintToInt(uint64(v))
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return uintToInt(v)
	default:
		return 0, false
	}
}

func uintToInt(v uint64) (int64, bool) {
	if v > math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

func toShape(raw any) (*shape, bool) {
	switch v := raw.(type) {
	case GeoJSON:
		sh, err := parseShape(string(v))
		return sh, err == nil
	case orb.Geometry:
		return &shape{geom: v}, true
	default:
		return nil, false
	}
}

func toList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []int64:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = x
		}
		return out, true
	case []string:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = x
		}
		return out, true
	case Particle:
		decoded, err := msgpack.DecodeParticle(v)
		if err != nil {
			return nil, false
		}
		l, ok := decoded.([]any)
		return l, ok
	default:
		return nil, false
	}
}

func toMap(raw any) (map[any]any, bool) {
	switch v := raw.(type) {
	case map[any]any:
		return v, true
	case map[string]any:
		out := make(map[any]any, len(v))
		for k, x := range v {
			out[k] = x
		}
		return out, true
	case Particle:
		decoded, err := msgpack.DecodeParticle(v)
		if err != nil {
			return nil, false
		}
		return toMap(decoded)
	default:
		return nil, false
	}
}

// elementValue converts a collection element bound to an iteration variable.
// Elements of decoded particles carry no GeoJSON marker, so GeoJSON variables
// also accept plain strings.
func elementValue(raw any, want predexp.ValueType) value {
	if want == predexp.TypeGeoJSON {
		if s, ok := raw.(string); ok {
			raw = GeoJSON(s)
		}
	}
	return toValue(raw, want)
}
