package filter

import (
	"errors"
	"strings"
	"testing"

	predexp "github.com/hugr-lab/predexp-go"
	"github.com/hugr-lab/predexp-go/eval"
)

func mustParse(t *testing.T, json string) Expression {
	t.Helper()
	expr, err := Parse([]byte(json))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return expr
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected []predexp.Node
	}{
		{
			name: "range",
			json: `{"op": "and", "children": [
				{"op": "ge", "left": {"op": "bin", "type": "integer", "name": "c"}, "right": {"op": "const", "type": "integer", "value": 11}},
				{"op": "le", "left": {"op": "bin", "type": "integer", "name": "c"}, "right": {"op": "const", "type": "integer", "value": 20}}
			]}`,
			expected: []predexp.Node{
				predexp.IntegerBin("c"), predexp.IntegerValue(11), predexp.IntegerGreaterEq(),
				predexp.IntegerBin("c"), predexp.IntegerValue(20), predexp.IntegerLessEq(),
				predexp.And(2),
			},
		},
		{
			name: "negated string equality",
			json: `{"op": "not", "child": {"op": "eq", "left": {"op": "bin", "type": "string", "name": "s"}, "right": {"op": "const", "type": "string", "value": "x"}}}`,
			expected: []predexp.Node{
				predexp.StringBin("s"), predexp.StringValue("x"), predexp.StringEqual(), predexp.Not(),
			},
		},
		{
			name: "three-way or",
			json: `{"op": "or", "children": [
				{"op": "eq", "left": {"op": "bin", "type": "integer", "name": "a"}, "right": {"op": "const", "type": "integer", "value": 1}},
				{"op": "ne", "left": {"op": "bin", "type": "integer", "name": "b"}, "right": {"op": "const", "type": "integer", "value": 2}},
				{"op": "lt", "left": {"op": "meta", "field": "digest_modulo", "modulus": 3}, "right": {"op": "const", "type": "integer", "value": 1}}
			]}`,
			expected: []predexp.Node{
				predexp.IntegerBin("a"), predexp.IntegerValue(1), predexp.IntegerEqual(),
				predexp.IntegerBin("b"), predexp.IntegerValue(2), predexp.IntegerUnequal(),
				predexp.RecDigestModulo(3), predexp.IntegerValue(1), predexp.IntegerLess(),
				predexp.Or(3),
			},
		},
		{
			name: "regex",
			json: `{"op": "regex", "input": {"op": "bin", "type": "string", "name": "n"}, "pattern": {"op": "const", "type": "string", "value": "^a"}, "flags": ["extended", "icase"]}`,
			expected: []predexp.Node{
				predexp.StringBin("n"), predexp.StringValue("^a"),
				predexp.StringRegex(predexp.RegexExtended | predexp.RegexICase),
			},
		},
		{
			name: "geo within",
			json: `{"op": "within", "left": {"op": "bin", "type": "geojson", "name": "loc"}, "right": {"op": "const", "type": "geojson", "value": {"type": "Point", "coordinates": [0, 0]}}}`,
			expected: []predexp.Node{
				predexp.GeoJSONBin("loc"), predexp.GeoJSONValue(`{"type":"Point","coordinates":[0,0]}`), predexp.GeoJSONWithin(),
			},
		},
		{
			name: "list any",
			json: `{"op": "any", "over": "list", "var": "v", "collection": {"op": "bin", "type": "list", "name": "colors"},
				"where": {"op": "eq", "left": {"op": "var", "type": "string", "name": "v"}, "right": {"op": "const", "type": "string", "value": "blue"}}}`,
			expected: []predexp.Node{
				predexp.StringVar("v"), predexp.StringValue("blue"), predexp.StringEqual(),
				predexp.ListBin("colors"), predexp.ListIterateOr("v"),
			},
		},
		{
			name: "nested map iterations",
			json: `{"op": "all", "over": "mapkey", "var": "k", "collection": {"op": "bin", "type": "map", "name": "m"},
				"where": {"op": "any", "over": "mapval", "var": "x", "collection": {"op": "bin", "type": "map", "name": "m"},
					"where": {"op": "ne", "left": {"op": "var", "type": "integer", "name": "k"}, "right": {"op": "var", "type": "integer", "name": "x"}}}}`,
			expected: []predexp.Node{
				predexp.IntegerVar("k"), predexp.IntegerVar("x"), predexp.IntegerUnequal(),
				predexp.MapBin("m"), predexp.MapValIterateOr("x"),
				predexp.MapBin("m"), predexp.MapKeyIterateAnd("k"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compile(mustParse(t, tt.json), nil)
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			defer l.Destroy()

			got := l.Nodes()
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d nodes, got %d: %s", len(tt.expected), len(got), l)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("node %d: expected %s, got %s", i, tt.expected[i], got[i])
				}
			}

			// Every compiled program must be accepted by the evaluator.
			if _, err := eval.FromList(l); err != nil {
				t.Errorf("evaluator rejected program: %v", err)
			}
		})
	}
}

func TestCompileBinMapping(t *testing.T) {
	expr := mustParse(t, `{"op": "eq", "left": {"op": "bin", "type": "string", "name": "user"}, "right": {"op": "const", "type": "string", "value": "bob"}}`)

	l, err := Compile(expr, &CompileOptions{BinMapping: map[string]string{"user": "u"}})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	defer l.Destroy()

	if name := l.At(0).Name(); name != "u" {
		t.Errorf("expected 'u', got '%s'", name)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"value at root", `{"op": "bin", "type": "integer", "name": "a"}`, "not a condition"},
		{"empty and", `{"op": "and", "children": []}`, "without children"},
		{"mixed types", `{"op": "eq", "left": {"op": "bin", "type": "integer", "name": "a"}, "right": {"op": "const", "type": "string", "value": "1"}}`, "eq of integer and string"},
		{"ordered strings", `{"op": "lt", "left": {"op": "bin", "type": "string", "name": "a"}, "right": {"op": "const", "type": "string", "value": "b"}}`, "not defined for string"},
		{"compare list", `{"op": "eq", "left": {"op": "bin", "type": "list", "name": "a"}, "right": {"op": "bin", "type": "list", "name": "b"}}`, "not defined for list"},
		{"condition operand", `{"op": "eq", "left": {"op": "not", "child": {"op": "and", "children": []}}, "right": {"op": "const", "type": "integer", "value": 1}}`, "two value operands"},
		{"regex on integer", `{"op": "regex", "input": {"op": "bin", "type": "integer", "name": "a"}, "pattern": {"op": "const", "type": "string", "value": "x"}}`, "string input"},
		{"list iteration over map", `{"op": "any", "over": "list", "var": "v", "collection": {"op": "bin", "type": "map", "name": "m"},
			"where": {"op": "eq", "left": {"op": "var", "type": "integer", "name": "v"}, "right": {"op": "const", "type": "integer", "value": 1}}}`, "needs a list bin"},
		{"unbound variable", `{"op": "any", "over": "list", "var": "v", "collection": {"op": "bin", "type": "list", "name": "l"},
			"where": {"op": "eq", "left": {"op": "var", "type": "integer", "name": "w"}, "right": {"op": "const", "type": "integer", "value": 1}}}`, "not bound"},
		{"long bin name", `{"op": "eq", "left": {"op": "bin", "type": "integer", "name": "` + strings.Repeat("n", 256) + `"}, "right": {"op": "const", "type": "integer", "value": 1}}`, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(mustParse(t, tt.json), nil)
			if !errors.Is(err, ErrInvalidExpression) {
				t.Fatalf("expected ErrInvalidExpression, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing '%s', got '%v'", tt.want, err)
			}
		})
	}

	if _, err := Compile(nil, nil); !errors.Is(err, ErrInvalidExpression) {
		t.Errorf("expected ErrInvalidExpression for nil expression, got %v", err)
	}
}

func TestCompileLongNameWrapsNodeError(t *testing.T) {
	expr := &ComparisonExpression{
		BaseExpression: BaseExpression{ExprOp: OpEqual},
		Left:           &BinRefExpression{BaseExpression: BaseExpression{ExprOp: OpBin}, Name: strings.Repeat("n", 256), Type: TypeInteger},
		Right:          &ConstantExpression{BaseExpression: BaseExpression{ExprOp: OpConst}, Type: TypeInteger, Value: int64(1)},
	}
	_, err := Compile(expr, nil)
	if !errors.Is(err, predexp.ErrInvalidNode) {
		t.Errorf("expected ErrInvalidNode, got %v", err)
	}
}

func TestCompiledProgramEvaluates(t *testing.T) {
	expr := mustParse(t, `{"op": "and", "children": [
		{"op": "ge", "left": {"op": "bin", "type": "integer", "name": "c"}, "right": {"op": "const", "type": "integer", "value": 11}},
		{"op": "all", "over": "list", "var": "t", "collection": {"op": "bin", "type": "list", "name": "tags"},
			"where": {"op": "not", "child": {"op": "regex",
				"input": {"op": "var", "type": "string", "name": "t"},
				"pattern": {"op": "const", "type": "string", "value": "^BAN"},
				"flags": ["icase"]}}}
	]}`)

	l, err := Compile(expr, nil)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	defer l.Destroy()

	data, err := l.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	prog, err := eval.Compile(data)
	if err != nil {
		t.Fatalf("eval.Compile failed: %v", err)
	}

	tests := []struct {
		c        int
		tags     []any
		expected bool
	}{
		{15, []any{"ok"}, true},
		{15, []any{}, true},
		{15, []any{"ok", "banned"}, false},
		{5, []any{"ok"}, false},
	}
	for _, tt := range tests {
		rec := &eval.Record{Bins: map[string]any{"c": tt.c, "tags": tt.tags}}
		if got := prog.Match(rec); got != tt.expected {
			t.Errorf("c=%d tags=%v: expected %v, got %v", tt.c, tt.tags, tt.expected, got)
		}
	}
}
