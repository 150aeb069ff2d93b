package predexp

import "encoding/binary"

// HeaderSize is the size of the per-node header: a 2-byte tag followed by a
// 4-byte payload length, both big-endian.
const HeaderSize = 6

// MaxNameLen is the longest bin or variable name that fits the 1-byte
// length prefix of a name payload.
const MaxNameLen = 255

// MaxPayloadLen is the largest node payload the 4-byte length field can carry.
const MaxPayloadLen = 1<<32 - 1

// Tag is a node type code of the remote evaluator's wire protocol.
type Tag uint16

// tags is the protocol tag registry, indexed by Kind. It is the only place
// where the client depends on the evaluator's numbering.
var tags = [numKinds]Tag{
	KindAnd: 1,
	KindOr:  2,
	KindNot: 3,

	KindIntegerValue: 10,
	KindStringValue:  11,
	KindGeoJSONValue: 12,

	KindIntegerBin: 100,
	KindStringBin:  101,
	KindGeoJSONBin: 102,
	KindListBin:    103,
	KindMapBin:     104,

	KindIntegerVar: 120,
	KindStringVar:  121,
	KindGeoJSONVar: 122,

	KindRecDeviceSize:   150,
	KindRecLastUpdate:   151,
	KindRecVoidTime:     152,
	KindRecDigestModulo: 153,

	KindIntegerEqual:     200,
	KindIntegerUnequal:   201,
	KindIntegerGreater:   202,
	KindIntegerGreaterEq: 203,
	KindIntegerLess:      204,
	KindIntegerLessEq:    205,

	KindStringEqual:   210,
	KindStringUnequal: 211,
	KindStringRegex:   212,

	KindGeoJSONWithin:   220,
	KindGeoJSONContains: 221,

	KindListIterateOr:    250,
	KindMapKeyIterateOr:  251,
	KindMapValIterateOr:  252,
	KindListIterateAnd:   253,
	KindMapKeyIterateAnd: 254,
	KindMapValIterateAnd: 255,
}

var kindsByTag = func() map[Tag]Kind {
	m := make(map[Tag]Kind, len(tags))
	for k, t := range tags {
		if Kind(k).Valid() {
			m[t] = Kind(k)
		}
	}
	return m
}()

// Tag returns the wire tag of the kind, or 0 for an invalid kind.
func (k Kind) Tag() Tag {
	if !k.Valid() {
		return 0
	}
	return tags[k]
}

// KindOf returns the kind registered for a wire tag.
func KindOf(t Tag) (Kind, bool) {
	k, ok := kindsByTag[t]
	return k, ok
}

// putHeader writes a node header at p and returns the number of bytes written.
func putHeader(p []byte, t Tag, payloadLen int) int {
	binary.BigEndian.PutUint16(p[0:2], uint16(t))
	binary.BigEndian.PutUint32(p[2:6], uint32(payloadLen))
	return HeaderSize
}

// putName writes a length-prefixed name and returns the number of bytes written.
func putName(p []byte, name string) int {
	p[0] = byte(len(name))
	return 1 + copy(p[1:], name)
}
