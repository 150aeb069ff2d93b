package predexp

import "strings"

// Size is the result of sizing a List before encoding it.
type Size struct {
	// Bytes is the exact number of bytes Encode writes.
	Bytes int
	// Nodes is the number of nodes in the program.
	Nodes int
}

// List is an ordered postfix predicate program. It owns its nodes: they are
// stored by value, so no node can be shared with another list or outlive it.
//
// A List is not safe for concurrent mutation. Independent lists may be built
// and encoded from different goroutines.
//
// Example:
//
//	list := predexp.NewList(3)
//	list.Append(
//	    predexp.StringBin("fruit"),
//	    predexp.StringValue("apple"),
//	    predexp.StringEqual(),
//	)
//	size := list.Size()
//	buf := make([]byte, size.Bytes)
//	list.Encode(buf, 0)
type List struct {
	nodes     []Node
	destroyed bool
}

// NewList creates an empty list with room for capacity nodes.
// The zero List is also ready to use.
func NewList(capacity int) *List {
	if capacity < 0 {
		capacity = 0
	}
	return &List{nodes: make([]Node, 0, capacity)}
}

// Append adds nodes to the end of the program in the given order.
// If any node cannot be encoded, nothing is appended and the error is returned.
func (l *List) Append(nodes ...Node) error {
	l.mustBeAlive("append")
	for _, n := range nodes {
		if err := n.validate(); err != nil {
			return err
		}
	}
	l.nodes = append(l.nodes, nodes...)
	return nil
}

// Len returns the number of nodes in the program.
func (l *List) Len() int { return len(l.nodes) }

// At returns the i-th node in program order.
func (l *List) At(i int) Node { return l.nodes[i] }

// Nodes returns a copy of the program.
func (l *List) Nodes() []Node {
	if len(l.nodes) == 0 {
		return nil
	}
	out := make([]Node, len(l.nodes))
	copy(out, l.nodes)
	return out
}

// Size walks the program once and returns its encoded size.
// An empty list has a size of zero bytes.
func (l *List) Size() Size {
	l.mustBeAlive("size")
	s := Size{Nodes: len(l.nodes)}
	for _, n := range l.nodes {
		s.Bytes += n.EncodedSize()
	}
	return s
}

// Encode writes every node at buf[off:] in program order and returns the
// offset just past the last node, so callers can chain further fields.
//
// buf must have at least Size().Bytes bytes available at off. Encode panics
// with *ContractError if it does not, or if the bytes written differ from
// the size reported by Size.
func (l *List) Encode(buf []byte, off int) int {
	l.mustBeAlive("encode")
	size := l.Size()
	if off < 0 || len(buf)-off < size.Bytes {
		contractViolation("encode", "list needs %d bytes, %d available", size.Bytes, len(buf)-off)
	}
	end := off
	for _, n := range l.nodes {
		end = n.Encode(buf, end)
	}
	if end-off != size.Bytes {
		contractViolation("encode", "list wrote %d bytes, sized %d", end-off, size.Bytes)
	}
	return end
}

// MarshalBinary returns the encoded program in a buffer of exactly Size().Bytes.
func (l *List) MarshalBinary() ([]byte, error) {
	buf := make([]byte, l.Size().Bytes)
	l.Encode(buf, 0)
	return buf, nil
}

// Destroy releases every node and the backing storage. It is safe on an
// empty list. The list must not be used after Destroy; a second call panics.
func (l *List) Destroy() {
	l.mustBeAlive("destroy")
	clear(l.nodes)
	l.nodes = nil
	l.destroyed = true
}

// String renders the program one instruction per element, e.g.
// [integer_bin("c") integer_value(11) integer_greatereq].
func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, n := range l.nodes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(n.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (l *List) mustBeAlive(op string) {
	if l.destroyed {
		contractViolation(op, "list used after Destroy")
	}
}
