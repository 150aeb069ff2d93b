package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	predexp "github.com/hugr-lab/predexp-go"
)

// Parse parses the JSON form of a filter expression.
// Returns a nil expression for empty input.
//
// Error conditions:
//   - Invalid JSON syntax
//   - Unknown op, value type, metadata field or collection
//   - Missing operands
func Parse(data []byte) (Expression, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	expr, err := parseExpression(data)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	return expr, nil
}

// rawExpression is used for two-phase parsing to determine the operation.
type rawExpression struct {
	Op Op `json:"op"`
}

// parseExpression parses a single expression from raw JSON.
func parseExpression(data json.RawMessage) (Expression, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, fmt.Errorf("missing expression")
	}

	var raw rawExpression
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}

	switch raw.Op {
	case OpAnd, OpOr:
		return parseConjunctionExpression(data)
	case OpNot:
		return parseNotExpression(data)
	case OpEqual, OpNotEqual, OpGreater, OpGreaterEq, OpLess, OpLessEq, OpWithin, OpContains:
		return parseComparisonExpression(data)
	case OpRegex:
		return parseRegexExpression(data)
	case OpConst:
		return parseConstantExpression(data)
	case OpBin:
		return parseBinRefExpression(data)
	case OpVar:
		return parseVarRefExpression(data)
	case OpMeta:
		return parseMetadataExpression(data)
	case OpAny, OpAll:
		return parseIterateExpression(data)
	case "":
		return nil, fmt.Errorf("expression without op")
	default:
		return nil, fmt.Errorf("unknown op %q", raw.Op)
	}
}

// rawConjunction is the JSON structure for conjunction expressions.
type rawConjunction struct {
	Op       Op                `json:"op"`
	Children []json.RawMessage `json:"children"`
}

func parseConjunctionExpression(data json.RawMessage) (*ConjunctionExpression, error) {
	var raw rawConjunction
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid %s expression: %w", raw.Op, err)
	}

	children := make([]Expression, 0, len(raw.Children))
	for i, rawChild := range raw.Children {
		child, err := parseExpression(rawChild)
		if err != nil {
			return nil, fmt.Errorf("invalid %s child %d: %w", raw.Op, i, err)
		}
		children = append(children, child)
	}

	return &ConjunctionExpression{
		BaseExpression: BaseExpression{ExprOp: raw.Op},
		Children:       children,
	}, nil
}

// rawNot is the JSON structure for negations.
type rawNot struct {
	Child json.RawMessage `json:"child"`
}

func parseNotExpression(data json.RawMessage) (*NotExpression, error) {
	var raw rawNot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid not expression: %w", err)
	}

	child, err := parseExpression(raw.Child)
	if err != nil {
		return nil, fmt.Errorf("invalid not child: %w", err)
	}

	return &NotExpression{
		BaseExpression: BaseExpression{ExprOp: OpNot},
		Child:          child,
	}, nil
}

// rawComparison is the JSON structure for comparison expressions.
type rawComparison struct {
	Op    Op              `json:"op"`
	Left  json.RawMessage `json:"left"`
	Right json.RawMessage `json:"right"`
}

func parseComparisonExpression(data json.RawMessage) (*ComparisonExpression, error) {
	var raw rawComparison
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid comparison expression: %w", err)
	}

	left, err := parseExpression(raw.Left)
	if err != nil {
		return nil, fmt.Errorf("invalid left operand: %w", err)
	}

	right, err := parseExpression(raw.Right)
	if err != nil {
		return nil, fmt.Errorf("invalid right operand: %w", err)
	}

	return &ComparisonExpression{
		BaseExpression: BaseExpression{ExprOp: raw.Op},
		Left:           left,
		Right:          right,
	}, nil
}

// rawRegex is the JSON structure for regex matches.
type rawRegex struct {
	Input   json.RawMessage `json:"input"`
	Pattern json.RawMessage `json:"pattern"`
	Flags   []string        `json:"flags"`
}

// regexFlags maps flag names of the JSON form to string_regex flags.
var regexFlags = map[string]uint32{
	"extended": predexp.RegexExtended,
	"icase":    predexp.RegexICase,
	"nosub":    predexp.RegexNoSub,
	"newline":  predexp.RegexNewline,
}

func parseRegexExpression(data json.RawMessage) (*RegexExpression, error) {
	var raw rawRegex
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid regex expression: %w", err)
	}

	input, err := parseExpression(raw.Input)
	if err != nil {
		return nil, fmt.Errorf("invalid regex input: %w", err)
	}

	pattern, err := parseExpression(raw.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}

	var flags uint32
	for _, name := range raw.Flags {
		f, ok := regexFlags[name]
		if !ok {
			return nil, fmt.Errorf("unknown regex flag %q", name)
		}
		flags |= f
	}

	return &RegexExpression{
		BaseExpression: BaseExpression{ExprOp: OpRegex},
		Input:          input,
		Pattern:        pattern,
		Flags:          flags,
	}, nil
}

// rawConstant is the JSON structure for literal values.
type rawConstant struct {
	Type  ValueType       `json:"type"`
	Value json.RawMessage `json:"value"`
}

func parseConstantExpression(data json.RawMessage) (*ConstantExpression, error) {
	var raw rawConstant
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid constant: %w", err)
	}
	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		return nil, fmt.Errorf("constant without value")
	}

	c := &ConstantExpression{
		BaseExpression: BaseExpression{ExprOp: OpConst},
		Type:           raw.Type,
	}

	switch raw.Type {
	case TypeInteger:
		// Parse the literal directly so that the full int64 range survives.
		v, err := strconv.ParseInt(string(raw.Value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer constant %s: %w", raw.Value, err)
		}
		c.Value = v

	case TypeString:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return nil, fmt.Errorf("invalid string constant: %w", err)
		}
		c.Value = s

	case TypeGeoJSON:
		// Either GeoJSON text in a string or an inline GeoJSON object.
		var s string
		if err := json.Unmarshal(raw.Value, &s); err == nil {
			c.Value = s
			break
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw.Value); err != nil {
			return nil, fmt.Errorf("invalid geojson constant: %w", err)
		}
		c.Value = buf.String()

	default:
		return nil, fmt.Errorf("unsupported constant type %q", raw.Type)
	}

	return c, nil
}

// rawRef is the JSON structure for bin and variable references.
type rawRef struct {
	Name string    `json:"name"`
	Type ValueType `json:"type"`
}

func parseRef(data json.RawMessage, what string) (rawRef, error) {
	var raw rawRef
	if err := json.Unmarshal(data, &raw); err != nil {
		return raw, fmt.Errorf("invalid %s reference: %w", what, err)
	}
	if raw.Name == "" {
		return raw, fmt.Errorf("%s reference without name", what)
	}
	switch raw.Type {
	case TypeInteger, TypeString, TypeGeoJSON, TypeList, TypeMap:
	default:
		return raw, fmt.Errorf("%s %q: unsupported type %q", what, raw.Name, raw.Type)
	}
	return raw, nil
}

func parseBinRefExpression(data json.RawMessage) (*BinRefExpression, error) {
	raw, err := parseRef(data, "bin")
	if err != nil {
		return nil, err
	}
	return &BinRefExpression{
		BaseExpression: BaseExpression{ExprOp: OpBin},
		Name:           raw.Name,
		Type:           raw.Type,
	}, nil
}

func parseVarRefExpression(data json.RawMessage) (*VarRefExpression, error) {
	raw, err := parseRef(data, "variable")
	if err != nil {
		return nil, err
	}
	return &VarRefExpression{
		BaseExpression: BaseExpression{ExprOp: OpVar},
		Name:           raw.Name,
		Type:           raw.Type,
	}, nil
}

// rawMetadata is the JSON structure for record metadata.
type rawMetadata struct {
	Field   MetadataField `json:"field"`
	Modulus int32         `json:"modulus"`
}

func parseMetadataExpression(data json.RawMessage) (*MetadataExpression, error) {
	var raw rawMetadata
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid metadata expression: %w", err)
	}
	switch raw.Field {
	case FieldDeviceSize, FieldLastUpdate, FieldVoidTime, FieldDigestModulo:
	default:
		return nil, fmt.Errorf("unknown metadata field %q", raw.Field)
	}
	return &MetadataExpression{
		BaseExpression: BaseExpression{ExprOp: OpMeta},
		Field:          raw.Field,
		Modulus:        raw.Modulus,
	}, nil
}

// rawIterate is the JSON structure for iterations.
type rawIterate struct {
	Op         Op              `json:"op"`
	Over       Collection      `json:"over"`
	Var        string          `json:"var"`
	Collection json.RawMessage `json:"collection"`
	Where      json.RawMessage `json:"where"`
}

func parseIterateExpression(data json.RawMessage) (*IterateExpression, error) {
	var raw rawIterate
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid %s expression: %w", raw.Op, err)
	}
	switch raw.Over {
	case CollectionList, CollectionMapKey, CollectionMapVal:
	default:
		return nil, fmt.Errorf("%s: unknown collection %q", raw.Op, raw.Over)
	}
	if raw.Var == "" {
		return nil, fmt.Errorf("%s: missing variable name", raw.Op)
	}

	coll, err := parseExpression(raw.Collection)
	if err != nil {
		return nil, fmt.Errorf("invalid %s collection: %w", raw.Op, err)
	}
	bin, ok := coll.(*BinRefExpression)
	if !ok {
		return nil, fmt.Errorf("%s: collection must be a bin, got %s", raw.Op, coll.Op())
	}

	where, err := parseExpression(raw.Where)
	if err != nil {
		return nil, fmt.Errorf("invalid %s condition: %w", raw.Op, err)
	}

	return &IterateExpression{
		BaseExpression: BaseExpression{ExprOp: raw.Op},
		Over:           raw.Over,
		Var:            raw.Var,
		Collection:     bin,
		Where:          where,
	}, nil
}
