package filter

import (
	"slices"
	"strconv"
	"strings"

	"github.com/hugr-lab/predexp-go/eval"
)

// DuckDBEncoder encodes filter expressions to DuckDB SQL syntax.
//
// Bins become columns, lists and maps become DuckDB LIST and MAP columns,
// GeoJSON bins are expected to be GEOMETRY columns of the spatial extension.
type DuckDBEncoder struct {
	opts *EncoderOptions
}

// NewDuckDBEncoder creates a new DuckDB SQL encoder.
// If opts is nil, default options are used.
func NewDuckDBEncoder(opts *EncoderOptions) *DuckDBEncoder {
	if opts == nil {
		opts = &EncoderOptions{}
	}
	return &DuckDBEncoder{opts: opts}
}

// EncodeFilters converts all filters to a WHERE clause body.
// Returns the condition portion without "WHERE" keyword.
// Returns empty string if no filters can be encoded.
func (e *DuckDBEncoder) EncodeFilters(filters ...Expression) string {
	var parts []string
	for _, filter := range filters {
		encoded := e.Encode(filter)
		if encoded != "" {
			parts = append(parts, encoded)
		}
	}

	if len(parts) == 0 {
		return ""
	}

	if len(parts) == 1 {
		return parts[0]
	}

	return "(" + strings.Join(parts, ") AND (") + ")"
}

// Encode converts a single expression to SQL.
// Returns empty string if expression is unsupported.
func (e *DuckDBEncoder) Encode(expr Expression) string {
	sql, _ := e.encode(expr, nil)
	return sql
}

// encode returns the SQL for expr and whether it is exact. An inexact
// condition is wider than expr because unsupported AND children were dropped.
// vars are the lambda parameters in scope.
func (e *DuckDBEncoder) encode(expr Expression, vars []string) (string, bool) {
	if expr == nil {
		return "", false
	}

	switch ex := expr.(type) {
	case *ConjunctionExpression:
		return e.encodeConjunction(ex, vars)
	case *NotExpression:
		return e.encodeNot(ex, vars)
	case *ComparisonExpression:
		return e.encodeComparison(ex, vars), true
	case *RegexExpression:
		return e.encodeRegex(ex, vars), true
	case *IterateExpression:
		return e.encodeIterate(ex, vars)
	case *ConstantExpression:
		return e.encodeConstant(ex), true
	case *BinRefExpression:
		return e.encodeBinRef(ex), true
	case *VarRefExpression:
		if !slices.Contains(vars, ex.Name) {
			return "", false
		}
		return quoteIdentifier(ex.Name), true
	case *MetadataExpression:
		return e.encodeMetadata(ex), true
	default:
		return "", false
	}
}

// encodeConjunction encodes AND/OR conjunctions.
func (e *DuckDBEncoder) encodeConjunction(c *ConjunctionExpression, vars []string) (string, bool) {
	var parts []string
	exact := true
	for _, child := range c.Children {
		encoded, ok := e.encode(child, vars)
		if encoded != "" {
			parts = append(parts, encoded)
		}
		exact = exact && ok && encoded != ""
	}

	// Handle unsupported expression rules:
	// - For OR: if any child is unsupported, skip entire OR
	// - For AND: skip unsupported children, keep others
	if c.Op() == OpOr {
		if len(parts) != len(c.Children) {
			// Some child was unsupported, skip entire OR
			return "", false
		}
	}

	if len(parts) == 0 {
		return "", false
	}

	if len(parts) == 1 {
		return parts[0], exact
	}

	op := " AND "
	if c.Op() == OpOr {
		op = " OR "
	}

	return "(" + strings.Join(parts, op) + ")", exact
}

// encodeNot encodes a negation. Negating a widened condition would narrow
// the result, so only exact children are negated. IS NOT TRUE keeps the
// predexp rule that a condition on an absent bin is false, so its
// negation is true.
func (e *DuckDBEncoder) encodeNot(n *NotExpression, vars []string) (string, bool) {
	child, exact := e.encode(n.Child, vars)
	if child == "" || !exact {
		return "", false
	}
	return "(" + child + ") IS NOT TRUE", true
}

// encodeComparison encodes a comparison expression.
func (e *DuckDBEncoder) encodeComparison(c *ComparisonExpression, vars []string) string {
	left, _ := e.encode(c.Left, vars)
	right, _ := e.encode(c.Right, vars)

	if left == "" || right == "" {
		return ""
	}

	switch c.Op() {
	case OpEqual:
		return left + " = " + right
	case OpNotEqual:
		return left + " <> " + right
	case OpLess:
		return left + " < " + right
	case OpGreater:
		return left + " > " + right
	case OpLessEq:
		return left + " <= " + right
	case OpGreaterEq:
		return left + " >= " + right
	case OpWithin:
		return "ST_Within(" + left + ", " + right + ")"
	case OpContains:
		return "ST_Contains(" + left + ", " + right + ")"
	default:
		return ""
	}
}

// encodeRegex encodes a regex match with regexp_matches. The flags become
// an inline flag group so that matching follows the predexp evaluator.
func (e *DuckDBEncoder) encodeRegex(r *RegexExpression, vars []string) string {
	input, _ := e.encode(r.Input, vars)
	if input == "" {
		return ""
	}

	flags := eval.InlineFlags(r.Flags)
	var pattern string
	if c, ok := r.Pattern.(*ConstantExpression); ok {
		s, ok := c.Value.(string)
		if !ok {
			return ""
		}
		pattern = quoteLiteral(flags + s)
	} else {
		p, _ := e.encode(r.Pattern, vars)
		if p == "" {
			return ""
		}
		pattern = "(" + quoteLiteral(flags) + " || " + p + ")"
	}

	return "regexp_matches(" + input + ", " + pattern + ")"
}

// encodeIterate encodes an iteration with list_filter over the list, the
// map keys or the map values. Absent (NULL) collections yield NULL, which
// filters the row out like a false result.
func (e *DuckDBEncoder) encodeIterate(it *IterateExpression, vars []string) (string, bool) {
	if it.Collection == nil {
		return "", false
	}
	coll := e.encodeBinRef(it.Collection)
	switch it.Over {
	case CollectionMapKey:
		coll = "map_keys(" + coll + ")"
	case CollectionMapVal:
		coll = "map_values(" + coll + ")"
	}

	where, exact := e.encode(it.Where, append(slices.Clip(vars), it.Var))
	if where == "" {
		return "", false
	}

	param := quoteIdentifier(it.Var)
	if it.Op() == OpAny {
		return "len(list_filter(" + coll + ", lambda " + param + ": " + where + ")) > 0", exact
	}
	// Unknown comparisons are false, so NULL conditions fail the element.
	return "len(list_filter(" + coll + ", lambda " + param + ": coalesce(" + where + ", false))) = len(" + coll + ")", exact
}

// encodeConstant encodes a constant value.
func (e *DuckDBEncoder) encodeConstant(c *ConstantExpression) string {
	switch v := c.Value.(type) {
	case int64:
		if c.Type != TypeInteger {
			return ""
		}
		return strconv.FormatInt(v, 10)
	case string:
		switch c.Type {
		case TypeString:
			return quoteLiteral(v)
		case TypeGeoJSON:
			return "ST_GeomFromGeoJSON(" + quoteLiteral(v) + ")"
		}
	}
	return ""
}

// encodeBinRef encodes a bin reference as a column.
func (e *DuckDBEncoder) encodeBinRef(b *BinRefExpression) string {
	name := b.Name

	// Check for expression mapping first (takes precedence)
	if expr, ok := e.opts.ColumnExpressions[name]; ok {
		return expr
	}

	// Check for name mapping
	if mapped, ok := e.opts.ColumnMapping[name]; ok {
		name = mapped
	}

	return quoteIdentifier(name)
}

// encodeMetadata encodes record metadata through ColumnExpressions.
// The digest bucket is computed from the "digest" expression, an unsigned
// integer of the last four digest bytes.
func (e *DuckDBEncoder) encodeMetadata(m *MetadataExpression) string {
	if m.Field == FieldDigestModulo {
		digest, ok := e.opts.ColumnExpressions["digest"]
		if !ok {
			return ""
		}
		mod := int64(m.Modulus)
		if mod < 0 {
			mod = -mod
		}
		return "(" + digest + " % " + strconv.FormatInt(mod, 10) + ")"
	}

	expr, ok := e.opts.ColumnExpressions[string(m.Field)]
	if !ok {
		return ""
	}
	return expr
}
