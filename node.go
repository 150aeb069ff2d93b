package predexp

import (
	"encoding/binary"
	"strconv"
)

// Node is one instruction of a postfix predicate program.
//
// A Node is an immutable value: the catalog constructors are the only way to
// build one, and its encoding is a pure function of its kind and payload.
// The zero Node is invalid and cannot be appended to a List.
type Node struct {
	kind Kind
	num  int64  // integer literal, arity, modulus or regex flags
	str  string // string or GeoJSON literal, bin name or variable name
}

// Kind returns the node variant.
func (n Node) Kind() Kind { return n.kind }

// Class returns whether the node pushes a value or a boolean.
func (n Node) Class() Class { return n.kind.Class() }

// Name returns the bin name of an extractor, or the variable name of an
// iteration variable or iterator. Empty for other kinds.
func (n Node) Name() string {
	if n.hasName() {
		return n.str
	}
	return ""
}

// Text returns the literal of a string or GeoJSON value node.
func (n Node) Text() string {
	if n.kind == KindStringValue || n.kind == KindGeoJSONValue {
		return n.str
	}
	return ""
}

// Int returns the literal of an integer value node.
func (n Node) Int() int64 {
	if n.kind == KindIntegerValue {
		return n.num
	}
	return 0
}

// Arity returns the number of stack entries the node consumes when evaluated.
func (n Node) Arity() int {
	switch n.kind {
	case KindAnd, KindOr:
		return int(uint16(n.num))
	case KindNot:
		return 1
	default:
		if n.kind.IsComparison() || n.kind.IsIterator() {
			return 2
		}
		return 0
	}
}

// Modulus returns the argument of a digest-modulo node.
func (n Node) Modulus() int32 {
	if n.kind == KindRecDigestModulo {
		return int32(n.num)
	}
	return 0
}

// Flags returns the regex flags of a string-regex node.
func (n Node) Flags() uint32 {
	if n.kind == KindStringRegex {
		return uint32(n.num)
	}
	return 0
}

func (n Node) hasName() bool {
	return n.kind.IsBin() || n.kind.IsVar() || n.kind.IsIterator()
}

// payloadSize returns the byte length of the variant payload.
func (n Node) payloadSize() int {
	switch n.kind {
	case KindAnd, KindOr:
		return 2
	case KindIntegerValue:
		return 8
	case KindStringValue:
		return len(n.str)
	case KindGeoJSONValue:
		// flags(1) + ncells(2) + json
		return 3 + len(n.str)
	case KindRecDigestModulo, KindStringRegex:
		return 4
	default:
		if n.hasName() {
			return 1 + len(n.str)
		}
		return 0
	}
}

// EncodedSize returns the number of bytes Encode writes for this node.
func (n Node) EncodedSize() int {
	return HeaderSize + n.payloadSize()
}

// Encode writes the node at buf[off:] and returns the offset just past it.
// It panics with *ContractError if the space left is smaller than EncodedSize
// or the node is invalid.
func (n Node) Encode(buf []byte, off int) int {
	size := n.EncodedSize()
	if !n.kind.Valid() {
		contractViolation("encode", "invalid node kind %d", n.kind)
	}
	if off < 0 || len(buf)-off < size {
		contractViolation("encode", "%s needs %d bytes, %d available", n.kind, size, len(buf)-off)
	}

	p := buf[off : off+size]
	w := putHeader(p, n.kind.Tag(), size-HeaderSize)
	switch n.kind {
	case KindAnd, KindOr:
		binary.BigEndian.PutUint16(p[w:], uint16(n.num))
		w += 2
	case KindIntegerValue:
		binary.BigEndian.PutUint64(p[w:], uint64(n.num))
		w += 8
	case KindStringValue:
		w += copy(p[w:], n.str)
	case KindGeoJSONValue:
		p[w] = 0                               // flags
		binary.BigEndian.PutUint16(p[w+1:], 0) // ncells
		w += 3 + copy(p[w+3:], n.str)
	case KindRecDigestModulo, KindStringRegex:
		binary.BigEndian.PutUint32(p[w:], uint32(n.num))
		w += 4
	default:
		if n.hasName() {
			w += putName(p[w:], n.str)
		}
	}

	if w != size {
		contractViolation("encode", "%s wrote %d bytes, declared %d", n.kind, w, size)
	}
	return off + w
}

// validate reports payloads the wire format cannot carry.
func (n Node) validate() error {
	if !n.kind.Valid() {
		return ErrInvalidNode
	}
	if n.hasName() && len(n.str) > MaxNameLen {
		return &NameError{Kind: n.kind, Name: n.str}
	}
	return checkPayloadLen(n.kind, uint64(n.payloadSize()))
}

func checkPayloadLen(kind Kind, size uint64) error {
	if size > MaxPayloadLen {
		return &PayloadError{Kind: kind, Size: size}
	}
	return nil
}

// String renders the node as a readable instruction, e.g. integer_bin("c") or and(2).
func (n Node) String() string {
	name := n.kind.String()
	switch n.kind {
	case KindAnd, KindOr:
		return name + "(" + strconv.Itoa(n.Arity()) + ")"
	case KindIntegerValue, KindRecDigestModulo:
		return name + "(" + strconv.FormatInt(n.num, 10) + ")"
	case KindStringRegex:
		return name + "(0x" + strconv.FormatUint(uint64(n.Flags()), 16) + ")"
	case KindStringValue, KindGeoJSONValue:
		return name + "(" + strconv.Quote(n.str) + ")"
	default:
		if n.hasName() {
			return name + "(" + strconv.Quote(n.str) + ")"
		}
		return name
	}
}
