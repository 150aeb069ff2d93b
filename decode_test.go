package predexp

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeRoundTrip(t *testing.T) {
	l := NewList(len(catalogCases))
	for _, tt := range catalogCases {
		mustAppend(t, l, tt.node)
	}
	data := mustMarshal(t, l)

	nodes, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(nodes) != len(catalogCases) {
		t.Fatalf("expected %d nodes, got %d", len(catalogCases), len(nodes))
	}
	for i, tt := range catalogCases {
		if nodes[i] != tt.node {
			t.Errorf("node %d: expected %s, got %s", i, tt.node, nodes[i])
		}
	}

	parsed, err := ParseList(data)
	if err != nil {
		t.Fatalf("ParseList failed: %v", err)
	}
	if parsed.String() != l.String() {
		t.Errorf("expected %s, got %s", l, parsed)
	}
}

func TestDecodeEmpty(t *testing.T) {
	nodes, err := Decode(nil)
	if err != nil || len(nodes) != 0 {
		t.Errorf("expected no nodes, got %v, %v", nodes, err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated header", []byte{0, 1, 0, 0}},
		{"unknown tag", []byte{0x27, 0x0f, 0, 0, 0, 0}},
		{"payload beyond input", []byte{0, 10, 0, 0, 0, 8, 1, 2}},
		{"wrong integer width", []byte{0, 10, 0, 0, 0, 4, 0, 0, 0, 1}},
		{"wrong arity width", []byte{0, 1, 0, 0, 0, 1, 2}},
		{"comparison with payload", []byte{0, 200, 0, 0, 0, 1, 0}},
		{"name prefix mismatch", []byte{0, 100, 0, 0, 0, 3, 5, 'a', 'b'}},
		{"empty name payload", []byte{0, 100, 0, 0, 0, 0}},
		{"geojson prefix", []byte{0, 12, 0, 0, 0, 2, 0, 0}},
		{"geojson cells overflow", []byte{0, 12, 0, 0, 0, 3, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Errorf("expected *DecodeError, got %T", err)
			}
		})
	}
}

func TestDecodeGeoJSONSkipsCells(t *testing.T) {
	data := []byte{0, 12, 0, 0, 0, 13, 0, 0, 1, 1, 2, 3, 4, 5, 6, 7, 8, '{', '}'}
	nodes, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if nodes[0].Text() != "{}" {
		t.Errorf("expected '{}', got '%s'", nodes[0].Text())
	}

	l := NewList(1)
	defer l.Destroy()
	if err := l.Append(nodes...); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	reencoded, err := l.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	expected := []byte{0, 12, 0, 0, 0, 5, 0, 0, 0, '{', '}'}
	if !bytes.Equal(reencoded, expected) {
		t.Errorf("expected coverings dropped on re-encode %v, got %v", expected, reencoded)
	}
}
