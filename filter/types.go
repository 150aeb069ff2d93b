package filter

// Op identifies the operation of an expression node. It is the "op" member
// of the JSON form.
type Op string

const (
	// Logical operators
	OpAnd Op = "and"
	OpOr  Op = "or"
	OpNot Op = "not"

	// Comparison operators
	OpEqual     Op = "eq"
	OpNotEqual  Op = "ne"
	OpGreater   Op = "gt"
	OpGreaterEq Op = "ge"
	OpLess      Op = "lt"
	OpLessEq    Op = "le"
	OpRegex     Op = "regex"
	OpWithin    Op = "within"
	OpContains  Op = "contains"

	// Values
	OpConst Op = "const"
	OpBin   Op = "bin"
	OpVar   Op = "var"
	OpMeta  Op = "meta"

	// Iteration
	OpAny Op = "any"
	OpAll Op = "all"
)

// ValueType is the type of a value expression.
type ValueType string

const (
	TypeInteger ValueType = "integer"
	TypeString  ValueType = "string"
	TypeGeoJSON ValueType = "geojson"
	TypeList    ValueType = "list"
	TypeMap     ValueType = "map"
)

// MetadataField names a record metadata value.
type MetadataField string

const (
	FieldDeviceSize   MetadataField = "device_size"
	FieldLastUpdate   MetadataField = "last_update"
	FieldVoidTime     MetadataField = "void_time"
	FieldDigestModulo MetadataField = "digest_modulo"
)

// Collection selects what an iteration visits.
type Collection string

const (
	CollectionList   Collection = "list"
	CollectionMapKey Collection = "mapkey"
	CollectionMapVal Collection = "mapval"
)

// Expression is the interface implemented by all filter expression types.
// Use type assertions or type switches to access specific expression data.
type Expression interface {
	// Op returns the operation of the expression (e.g., and, eq, bin).
	Op() Op

	// expressionMarker is a marker method to prevent external implementation.
	expressionMarker()
}

// BaseExpression contains common fields for all expression types.
type BaseExpression struct {
	ExprOp Op `json:"op"`
}

// Op returns the expression operation.
func (b *BaseExpression) Op() Op { return b.ExprOp }

func (b *BaseExpression) expressionMarker() {}

// ConjunctionExpression represents AND/OR with multiple children.
type ConjunctionExpression struct {
	BaseExpression
	Children []Expression
}

// NotExpression negates a logical expression.
type NotExpression struct {
	BaseExpression
	Child Expression
}

// ComparisonExpression represents binary comparisons (=, <>, <, >, <=, >=)
// and the GeoJSON relations within and contains.
type ComparisonExpression struct {
	BaseExpression
	Left  Expression
	Right Expression
}

// RegexExpression matches a string against a POSIX regular expression.
type RegexExpression struct {
	BaseExpression
	Input   Expression
	Pattern Expression
	Flags   uint32
}

// ConstantExpression represents a literal value. Value is an int64 for
// integers and a string for strings and GeoJSON text.
type ConstantExpression struct {
	BaseExpression
	Type  ValueType
	Value any
}

// BinRefExpression references a bin of the record.
type BinRefExpression struct {
	BaseExpression
	Name string
	Type ValueType
}

// VarRefExpression references the element bound by an enclosing iteration.
type VarRefExpression struct {
	BaseExpression
	Name string
	Type ValueType
}

// MetadataExpression references record metadata.
// Modulus is used by FieldDigestModulo only.
type MetadataExpression struct {
	BaseExpression
	Field   MetadataField
	Modulus int32
}

// IterateExpression tests Where against the elements of a list or map bin,
// each bound to Var in turn. OpAny needs one element to match, OpAll needs
// all of them.
type IterateExpression struct {
	BaseExpression
	Over       Collection
	Var        string
	Collection *BinRefExpression
	Where      Expression
}

// valueType returns the type of a value expression, or "" if expr is logical.
func valueType(expr Expression) ValueType {
	switch ex := expr.(type) {
	case *ConstantExpression:
		return ex.Type
	case *BinRefExpression:
		return ex.Type
	case *VarRefExpression:
		return ex.Type
	case *MetadataExpression:
		return TypeInteger
	default:
		return ""
	}
}
