package predexp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

// catalogCases lists one node per catalog variant with its wire tag and payload length.
var catalogCases = []struct {
	name       string
	node       Node
	tag        Tag
	payloadLen int
	class      Class
}{
	{"and", And(3), 1, 2, ClassLogical},
	{"or", Or(2), 2, 2, ClassLogical},
	{"not", Not(), 3, 0, ClassLogical},
	{"integer_value", IntegerValue(-7), 10, 8, ClassValue},
	{"string_value", StringValue("apple"), 11, 5, ClassValue},
	{"geojson_value", GeoJSONValue(`{"type":"Point","coordinates":[1,2]}`), 12, 3 + 36, ClassValue},
	{"integer_bin", IntegerBin("age"), 100, 4, ClassValue},
	{"string_bin", StringBin("fruit"), 101, 6, ClassValue},
	{"geojson_bin", GeoJSONBin("loc"), 102, 4, ClassValue},
	{"list_bin", ListBin("colors"), 103, 7, ClassValue},
	{"map_bin", MapBin("attrs"), 104, 6, ClassValue},
	{"integer_var", IntegerVar("x"), 120, 2, ClassValue},
	{"string_var", StringVar("s"), 121, 2, ClassValue},
	{"geojson_var", GeoJSONVar("g"), 122, 2, ClassValue},
	{"rec_device_size", RecDeviceSize(), 150, 0, ClassValue},
	{"rec_last_update", RecLastUpdate(), 151, 0, ClassValue},
	{"rec_void_time", RecVoidTime(), 152, 0, ClassValue},
	{"rec_digest_modulo", RecDigestModulo(3), 153, 4, ClassValue},
	{"integer_equal", IntegerEqual(), 200, 0, ClassLogical},
	{"integer_unequal", IntegerUnequal(), 201, 0, ClassLogical},
	{"integer_greater", IntegerGreater(), 202, 0, ClassLogical},
	{"integer_greatereq", IntegerGreaterEq(), 203, 0, ClassLogical},
	{"integer_less", IntegerLess(), 204, 0, ClassLogical},
	{"integer_lesseq", IntegerLessEq(), 205, 0, ClassLogical},
	{"string_equal", StringEqual(), 210, 0, ClassLogical},
	{"string_unequal", StringUnequal(), 211, 0, ClassLogical},
	{"string_regex", StringRegex(RegexICase), 212, 4, ClassLogical},
	{"geojson_within", GeoJSONWithin(), 220, 0, ClassLogical},
	{"geojson_contains", GeoJSONContains(), 221, 0, ClassLogical},
	{"list_iterate_or", ListIterateOr("v"), 250, 2, ClassLogical},
	{"mapkey_iterate_or", MapKeyIterateOr("k"), 251, 2, ClassLogical},
	{"mapval_iterate_or", MapValIterateOr("v"), 252, 2, ClassLogical},
	{"list_iterate_and", ListIterateAnd("v"), 253, 2, ClassLogical},
	{"mapkey_iterate_and", MapKeyIterateAnd("k"), 254, 2, ClassLogical},
	{"mapval_iterate_and", MapValIterateAnd("v"), 255, 2, ClassLogical},
}

func TestCatalogEncoding(t *testing.T) {
	for _, tt := range catalogCases {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.node
			if n.Kind().String() != tt.name {
				t.Errorf("expected kind '%s', got '%s'", tt.name, n.Kind())
			}
			if n.Class() != tt.class {
				t.Errorf("expected class %s, got %s", tt.class, n.Class())
			}
			if n.EncodedSize() != HeaderSize+tt.payloadLen {
				t.Fatalf("expected size %d, got %d", HeaderSize+tt.payloadLen, n.EncodedSize())
			}

			buf := make([]byte, n.EncodedSize())
			end := n.Encode(buf, 0)
			if end != len(buf) {
				t.Fatalf("Encode returned offset %d, want %d", end, len(buf))
			}
			if got := Tag(binary.BigEndian.Uint16(buf)); got != tt.tag {
				t.Errorf("expected tag %d, got %d", tt.tag, got)
			}
			if got := int(binary.BigEndian.Uint32(buf[2:])); got != tt.payloadLen {
				t.Errorf("expected payload length %d, got %d", tt.payloadLen, got)
			}
		})
	}
}

func TestKindTagRegistry(t *testing.T) {
	seen := make(map[Tag]Kind)
	for k := KindInvalid + 1; k < numKinds; k++ {
		tag := k.Tag()
		if tag == 0 {
			t.Errorf("kind %s has no tag", k)
			continue
		}
		if prev, dup := seen[tag]; dup {
			t.Errorf("tag %d used by %s and %s", tag, prev, k)
		}
		seen[tag] = k

		back, ok := KindOf(tag)
		if !ok || back != k {
			t.Errorf("KindOf(%d) = %s, %v; want %s", tag, back, ok, k)
		}
	}
	if _, ok := KindOf(9999); ok {
		t.Error("KindOf(9999) should not resolve")
	}
	if KindInvalid.Tag() != 0 || KindInvalid.Class() != 0 {
		t.Error("invalid kind should have no tag and no class")
	}
}

func TestNodePayloadFields(t *testing.T) {
	buf := make([]byte, 64)

	end := IntegerValue(-2).Encode(buf, 0)
	if got := int64(binary.BigEndian.Uint64(buf[HeaderSize:end])); got != -2 {
		t.Errorf("integer literal: expected -2, got %d", got)
	}

	end = StringBin("fruit").Encode(buf, 0)
	payload := buf[HeaderSize:end]
	if payload[0] != 5 || string(payload[1:]) != "fruit" {
		t.Errorf("bin name payload: got %q", payload)
	}

	end = And(258).Encode(buf, 0)
	if !bytes.Equal(buf[HeaderSize:end], []byte{0x01, 0x02}) {
		t.Errorf("arity payload: got % x", buf[HeaderSize:end])
	}

	end = GeoJSONValue(`{}`).Encode(buf, 0)
	if !bytes.Equal(buf[HeaderSize:end], []byte{0, 0, 0, '{', '}'}) {
		t.Errorf("geojson payload: got % x", buf[HeaderSize:end])
	}

	end = RecDigestModulo(-1).Encode(buf, 0)
	if !bytes.Equal(buf[HeaderSize:end], []byte{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("modulus payload: got % x", buf[HeaderSize:end])
	}
}

func TestNodeAccessors(t *testing.T) {
	if IntegerValue(42).Int() != 42 {
		t.Error("Int() on integer_value")
	}
	if StringBin("a").Int() != 0 || StringBin("a").Text() != "" {
		t.Error("accessors of other kinds should be zero")
	}
	if StringBin("a").Name() != "a" || ListIterateAnd("v").Name() != "v" {
		t.Error("Name() on bins and iterators")
	}
	if StringValue("x").Name() != "" || StringValue("x").Text() != "x" {
		t.Error("Name()/Text() on string_value")
	}
	if And(4).Arity() != 4 || Not().Arity() != 1 || IntegerLess().Arity() != 2 || MapKeyIterateOr("k").Arity() != 2 {
		t.Error("Arity()")
	}
	if IntegerBin("a").Arity() != 0 {
		t.Error("extractors consume nothing")
	}
	if RecDigestModulo(9).Modulus() != 9 || StringRegex(RegexNewline).Flags() != RegexNewline {
		t.Error("Modulus()/Flags()")
	}
	if IntegerBin("a").Kind().ValueType() != TypeInteger || MapBin("m").Kind().ValueType() != TypeMap {
		t.Error("ValueType()")
	}
}

func TestNodeString(t *testing.T) {
	tests := []struct {
		node     Node
		expected string
	}{
		{IntegerBin("c"), `integer_bin("c")`},
		{IntegerValue(11), `integer_value(11)`},
		{And(2), `and(2)`},
		{Not(), `not`},
		{StringRegex(RegexICase | RegexNewline), `string_regex(0xa)`},
		{RecDigestModulo(3), `rec_digest_modulo(3)`},
		{ListIterateOr("v"), `list_iterate_or("v")`},
	}
	for _, tt := range tests {
		if got := tt.node.String(); got != tt.expected {
			t.Errorf("expected '%s', got '%s'", tt.expected, got)
		}
	}
}

func TestNodeEncodeShortBuffer(t *testing.T) {
	defer func() {
		r := recover()
		var ce *ContractError
		if err, ok := r.(error); !ok || !errors.As(err, &ce) {
			t.Fatalf("expected *ContractError panic, got %v", r)
		}
	}()
	IntegerValue(1).Encode(make([]byte, 10), 0)
}

func TestGeoJSONValueOf(t *testing.T) {
	n, err := GeoJSONValueOf(orb.Point{1.5, -2})
	if err != nil {
		t.Fatalf("GeoJSONValueOf failed: %v", err)
	}
	if n.Kind() != KindGeoJSONValue {
		t.Fatalf("expected geojson_value, got %s", n.Kind())
	}
	if !strings.Contains(n.Text(), `"Point"`) || !strings.Contains(n.Text(), "1.5") {
		t.Errorf("unexpected GeoJSON text: %s", n.Text())
	}

	if _, err := GeoJSONValueOf(nil); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("expected ErrInvalidNode for nil geometry, got %v", err)
	}
}

func TestNodePayloadLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    uint64
		wantErr bool
	}{
		{"empty", 0, false},
		{"largest", MaxPayloadLen, false},
		{"one past the length field", MaxPayloadLen + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPayloadLen(KindStringValue, tt.size)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidNode) {
				t.Fatalf("expected ErrInvalidNode, got %v", err)
			}
			var payloadErr *PayloadError
			if !errors.As(err, &payloadErr) || payloadErr.Size != tt.size {
				t.Errorf("expected *PayloadError of %d bytes, got %v", tt.size, err)
			}
		})
	}

	if err := StringValue(strings.Repeat("x", 1024)).validate(); err != nil {
		t.Errorf("validate failed: %v", err)
	}
}
