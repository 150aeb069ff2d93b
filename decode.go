package predexp

import (
	"encoding/binary"
	"strconv"
)

// Decode parses an encoded program back into its nodes.
// It is the exact inverse of List.Encode for every node the catalog builds.
//
// Cell coverings carried by a geojson_value (ncells > 0) are skipped: the
// node keeps only the GeoJSON text, and encoding it again writes ncells = 0.
// Re-encoding a decoded program from another sender is therefore not
// byte-identical when it had coverings.
func Decode(data []byte) ([]Node, error) {
	return decodeAt(data, 0)
}

// ParseList decodes an encoded program into a new List.
func ParseList(data []byte) (*List, error) {
	nodes, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &List{nodes: nodes}, nil
}

func decodeAt(data []byte, off int) ([]Node, error) {
	var nodes []Node
	for off < len(data) {
		if len(data)-off < HeaderSize {
			return nil, &DecodeError{Offset: off, Reason: "truncated node header"}
		}
		tag := Tag(binary.BigEndian.Uint16(data[off:]))
		plen := int(binary.BigEndian.Uint32(data[off+2:]))
		kind, ok := KindOf(tag)
		if !ok {
			return nil, &DecodeError{Offset: off, Reason: "unknown tag " + strconv.Itoa(int(tag))}
		}
		start := off + HeaderSize
		if plen < 0 || plen > len(data)-start {
			return nil, &DecodeError{Offset: off, Reason: kind.String() + " payload exceeds input"}
		}
		n, err := decodePayload(kind, data[start:start+plen])
		if err != nil {
			return nil, &DecodeError{Offset: start, Reason: err.Error()}
		}
		nodes = append(nodes, n)
		off = start + plen
	}
	return nodes, nil
}

type payloadError string

func (e payloadError) Error() string { return string(e) }

func decodePayload(kind Kind, p []byte) (Node, error) {
	n := Node{kind: kind}
	want := func(size int) error {
		if len(p) != size {
			return payloadError(kind.String() + " payload must be " + strconv.Itoa(size) +
				" bytes, got " + strconv.Itoa(len(p)))
		}
		return nil
	}

	switch kind {
	case KindAnd, KindOr:
		if err := want(2); err != nil {
			return n, err
		}
		n.num = int64(binary.BigEndian.Uint16(p))
	case KindIntegerValue:
		if err := want(8); err != nil {
			return n, err
		}
		n.num = int64(binary.BigEndian.Uint64(p))
	case KindStringValue:
		n.str = string(p)
	case KindGeoJSONValue:
		if len(p) < 3 {
			return n, payloadError("geojson_value payload shorter than its prefix")
		}
		// Cell coverings precede the text when a sender computed them.
		ncells := int(binary.BigEndian.Uint16(p[1:3]))
		skip := 3 + 8*ncells
		if skip > len(p) {
			return n, payloadError("geojson_value cell list exceeds payload")
		}
		n.str = string(p[skip:])
	case KindRecDigestModulo:
		if err := want(4); err != nil {
			return n, err
		}
		n.num = int64(int32(binary.BigEndian.Uint32(p)))
	case KindStringRegex:
		if err := want(4); err != nil {
			return n, err
		}
		n.num = int64(binary.BigEndian.Uint32(p))
	default:
		if !n.hasName() {
			return n, want(0)
		}
		if len(p) < 1 || int(p[0]) != len(p)-1 {
			return n, payloadError(kind.String() + " name length prefix does not match payload")
		}
		n.str = string(p[1:])
	}
	return n, nil
}
