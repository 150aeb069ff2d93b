package filter

import "strings"

// Encoder converts filter expressions to SQL strings.
// Implementations handle dialect-specific syntax (DuckDB, PostgreSQL, etc.).
type Encoder interface {
	// Encode converts a single expression to SQL.
	// Returns empty string if expression is unsupported.
	Encode(expr Expression) string

	// EncodeFilters converts filters, implicitly AND'ed together, to a
	// WHERE clause body without the "WHERE" keyword.
	// Returns empty string if no filters can be encoded.
	EncodeFilters(filters ...Expression) string
}

// EncoderOptions configures encoding behavior.
type EncoderOptions struct {
	// ColumnMapping maps bin names to column names.
	// Bins not in the map use their original names.
	ColumnMapping map[string]string

	// ColumnExpressions maps bin names and metadata fields (e.g. "void_time")
	// to SQL expressions. Takes precedence over ColumnMapping.
	// Metadata without an expression is unsupported.
	ColumnExpressions map[string]string
}

// quoteLiteral returns a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteIdentifier double-quotes a bin or variable name unless it is a plain
// identifier DuckDB accepts as a column reference.
func quoteIdentifier(name string) string {
	if isPlainIdentifier(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func isPlainIdentifier(name string) bool {
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return !reservedWords[strings.ToLower(name)]
}

// reservedWords are the DuckDB keywords that cannot name a column
// (categories "reserved" and "type_function" of duckdb_keywords()).
var reservedWords = map[string]bool{
	"all": true, "analyse": true, "analyze": true, "and": true, "any": true,
	"anti": true, "array": true, "as": true, "asc": true, "asof": true,
	"asymmetric": true, "authorization": true, "binary": true, "both": true,
	"case": true, "cast": true, "check": true, "collate": true, "collation": true,
	"column": true, "concurrently": true, "constraint": true, "create": true,
	"cross": true, "default": true, "deferrable": true, "desc": true,
	"describe": true, "distinct": true, "do": true, "else": true, "end": true,
	"except": true, "false": true, "fetch": true, "for": true, "foreign": true,
	"freeze": true, "from": true, "full": true, "generated": true, "glob": true,
	"grant": true, "group": true, "having": true, "ilike": true, "in": true,
	"initially": true, "inner": true, "intersect": true, "into": true, "is": true,
	"isnull": true, "join": true, "lambda": true, "lateral": true, "leading": true,
	"left": true, "like": true, "limit": true, "map": true, "natural": true,
	"not": true, "notnull": true, "null": true, "offset": true, "on": true,
	"only": true, "or": true, "order": true, "outer": true, "overlaps": true,
	"pivot": true, "pivot_longer": true, "pivot_wider": true, "placing": true,
	"positional": true, "primary": true, "qualify": true, "references": true,
	"returning": true, "right": true, "select": true, "semi": true, "show": true,
	"similar": true, "some": true, "struct": true, "summarize": true,
	"symmetric": true, "table": true, "then": true, "to": true, "trailing": true,
	"true": true, "try_cast": true, "union": true, "unique": true, "unpivot": true,
	"using": true, "variadic": true, "verbose": true, "when": true, "where": true,
	"window": true, "with": true,
}
