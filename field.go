package predexp

import (
	"encoding/binary"
	"strconv"
)

// Request field framing used when a program travels inside a command.
const (
	// FieldHeaderSize is the size of a command field header: a 4-byte
	// big-endian length (payload + type byte) followed by the field type.
	FieldHeaderSize = 5

	// FieldTypePredExp is the command field type carrying a predicate program.
	FieldTypePredExp = 43
)

// FieldSize returns the number of bytes EncodeField writes.
func (l *List) FieldSize() int {
	return l.Size().Bytes + FieldHeaderSize
}

// EncodeField writes the program as a complete command field at buf[off:]
// and returns the offset just past it.
func (l *List) EncodeField(buf []byte, off int) int {
	size := l.Size()
	if off < 0 || len(buf)-off < size.Bytes+FieldHeaderSize {
		contractViolation("encode field", "field needs %d bytes, %d available",
			size.Bytes+FieldHeaderSize, len(buf)-off)
	}
	binary.BigEndian.PutUint32(buf[off:], uint32(size.Bytes+1))
	buf[off+4] = FieldTypePredExp
	return l.Encode(buf, off+FieldHeaderSize)
}

// ParseField reads a predicate field written by EncodeField and returns the
// program it carries together with the offset just past the field.
func ParseField(data []byte, off int) (*List, int, error) {
	if off < 0 || len(data)-off < FieldHeaderSize {
		return nil, off, &DecodeError{Offset: off, Reason: "truncated field header"}
	}
	n := int(binary.BigEndian.Uint32(data[off:]))
	if n < 1 {
		return nil, off, &DecodeError{Offset: off, Reason: "field length is zero"}
	}
	if t := data[off+4]; t != FieldTypePredExp {
		return nil, off, &DecodeError{Offset: off + 4, Reason: "unexpected field type " + strconv.Itoa(int(t))}
	}
	start := off + FieldHeaderSize
	end := start + n - 1
	if end > len(data) {
		return nil, off, &DecodeError{Offset: start, Reason: "truncated field payload"}
	}
	nodes, err := decodeAt(data[:end], start)
	if err != nil {
		return nil, off, err
	}
	return &List{nodes: nodes}, end, nil
}
