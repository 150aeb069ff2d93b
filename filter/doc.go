// Package filter provides an infix expression tree for predexp filters, its
// JSON form, and compilation to predexp programs and DuckDB SQL.
//
// This package enables query layers to:
//   - Parse filter JSON into strongly-typed Go structures
//   - Compile parsed expressions to postfix predexp programs
//   - Encode the same expressions to SQL for DuckDB backed stores
//   - Map bin names during compilation and encoding
//
// # Basic Usage
//
// Parse filter JSON and compile it:
//
//	expr, err := filter.Parse(data)
//	if err != nil {
//	    return err // Malformed JSON
//	}
//
//	list, err := filter.Compile(expr, nil)
//	if err != nil {
//	    return err // Mistyped operands, unbound variables, long names
//	}
//	defer list.Destroy()
//
// # JSON Form
//
// Every node is an object with an "op" member:
//
//	{"op": "and", "children": [...]}            also "or"
//	{"op": "not", "child": {...}}
//	{"op": "ge", "left": {...}, "right": {...}} also eq, ne, gt, lt, le, within, contains
//	{"op": "regex", "input": {...}, "pattern": {...}, "flags": ["icase", "newline"]}
//	{"op": "const", "type": "integer", "value": 42}
//	{"op": "bin", "type": "list", "name": "tags"}
//	{"op": "var", "type": "string", "name": "t"}
//	{"op": "meta", "field": "digest_modulo", "modulus": 3}
//	{"op": "any", "over": "list", "var": "t", "collection": {...}, "where": {...}}
//
// Types are integer, string, geojson, list and map. GeoJSON constants may be
// given as text or as an inline object. Iterations run over "list",
// "mapkey" or "mapval"; "any" needs one matching element and "all" needs
// every element to match.
//
// # Bin Mapping
//
// Map expression bin names to stored bin names:
//
//	list, err := filter.Compile(expr, &filter.CompileOptions{
//	    BinMapping: map[string]string{"user_id": "uid"},
//	})
//
// # DuckDB Encoding
//
//	enc := filter.NewDuckDBEncoder(nil)
//	whereClause := enc.Encode(expr)
//
//	if whereClause != "" {
//	    query := "SELECT * FROM table WHERE " + whereClause
//	}
//
// The encoder gracefully handles unsupported expressions:
//   - For AND: Skips unsupported children, keeps others
//   - For OR: If any child is unsupported, skips entire OR expression
//   - For NOT: Skips the negation unless its child is encoded exactly
//   - Returns empty string if all expressions are unsupported
//
// This produces the widest possible filter, which is safe when the predexp
// program is applied afterwards. Record metadata is unsupported unless
// EncoderOptions.ColumnExpressions provides an expression for it.
package filter
