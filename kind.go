package predexp

// Kind identifies the variant of an expression node.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Logical combinators
	KindAnd
	KindOr
	KindNot

	// Literal values
	KindIntegerValue
	KindStringValue
	KindGeoJSONValue

	// Bin extractors
	KindIntegerBin
	KindStringBin
	KindGeoJSONBin
	KindListBin
	KindMapBin

	// Iteration variables
	KindIntegerVar
	KindStringVar
	KindGeoJSONVar

	// Record metadata
	KindRecDeviceSize
	KindRecLastUpdate
	KindRecVoidTime
	KindRecDigestModulo

	// Comparisons
	KindIntegerEqual
	KindIntegerUnequal
	KindIntegerGreater
	KindIntegerGreaterEq
	KindIntegerLess
	KindIntegerLessEq
	KindStringEqual
	KindStringUnequal
	KindStringRegex
	KindGeoJSONWithin
	KindGeoJSONContains

	// Collection iteration
	KindListIterateOr
	KindMapKeyIterateOr
	KindMapValIterateOr
	KindListIterateAnd
	KindMapKeyIterateAnd
	KindMapValIterateAnd

	numKinds
)

// Class is the kind of stack value a node pushes when evaluated.
type Class uint8

const (
	// ClassValue nodes push an integer, string, GeoJSON, list or map value.
	ClassValue Class = iota + 1
	// ClassLogical nodes push a boolean.
	ClassLogical
)

func (c Class) String() string {
	switch c {
	case ClassValue:
		return "value"
	case ClassLogical:
		return "logical"
	default:
		return "invalid"
	}
}

// ValueType is the type of value pushed by a value-class node.
type ValueType uint8

const (
	TypeNone ValueType = iota
	TypeInteger
	TypeString
	TypeGeoJSON
	TypeList
	TypeMap
)

func (t ValueType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeString:
		return "string"
	case TypeGeoJSON:
		return "geojson"
	case TypeList:
		return "list"
	case TypeMap:
		return "map"
	default:
		return "none"
	}
}

var kindNames = [numKinds]string{
	KindInvalid:          "invalid",
	KindAnd:              "and",
	KindOr:               "or",
	KindNot:              "not",
	KindIntegerValue:     "integer_value",
	KindStringValue:      "string_value",
	KindGeoJSONValue:     "geojson_value",
	KindIntegerBin:       "integer_bin",
	KindStringBin:        "string_bin",
	KindGeoJSONBin:       "geojson_bin",
	KindListBin:          "list_bin",
	KindMapBin:           "map_bin",
	KindIntegerVar:       "integer_var",
	KindStringVar:        "string_var",
	KindGeoJSONVar:       "geojson_var",
	KindRecDeviceSize:    "rec_device_size",
	KindRecLastUpdate:    "rec_last_update",
	KindRecVoidTime:      "rec_void_time",
	KindRecDigestModulo:  "rec_digest_modulo",
	KindIntegerEqual:     "integer_equal",
	KindIntegerUnequal:   "integer_unequal",
	KindIntegerGreater:   "integer_greater",
	KindIntegerGreaterEq: "integer_greatereq",
	KindIntegerLess:      "integer_less",
	KindIntegerLessEq:    "integer_lesseq",
	KindStringEqual:      "string_equal",
	KindStringUnequal:    "string_unequal",
	KindStringRegex:      "string_regex",
	KindGeoJSONWithin:    "geojson_within",
	KindGeoJSONContains:  "geojson_contains",
	KindListIterateOr:    "list_iterate_or",
	KindMapKeyIterateOr:  "mapkey_iterate_or",
	KindMapValIterateOr:  "mapval_iterate_or",
	KindListIterateAnd:   "list_iterate_and",
	KindMapKeyIterateAnd: "mapkey_iterate_and",
	KindMapValIterateAnd: "mapval_iterate_and",
}

// String returns the instruction name of the kind (e.g. "integer_bin").
func (k Kind) String() string {
	if k >= numKinds {
		return "invalid"
	}
	return kindNames[k]
}

// Valid reports whether k is a member of the catalog.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < numKinds
}

// Class returns the class of value the kind pushes.
func (k Kind) Class() Class {
	switch {
	case !k.Valid():
		return 0
	case k <= KindNot, k >= KindIntegerEqual:
		return ClassLogical
	default:
		return ClassValue
	}
}

// ValueType returns the type pushed by value-class kinds, or TypeNone for logical kinds.
func (k Kind) ValueType() ValueType {
	switch k {
	case KindIntegerValue, KindIntegerBin, KindIntegerVar,
		KindRecDeviceSize, KindRecLastUpdate, KindRecVoidTime, KindRecDigestModulo:
		return TypeInteger
	case KindStringValue, KindStringBin, KindStringVar:
		return TypeString
	case KindGeoJSONValue, KindGeoJSONBin, KindGeoJSONVar:
		return TypeGeoJSON
	case KindListBin:
		return TypeList
	case KindMapBin:
		return TypeMap
	default:
		return TypeNone
	}
}

// IsIterator reports whether the kind is a collection-iteration operator.
func (k Kind) IsIterator() bool {
	return k >= KindListIterateOr && k <= KindMapValIterateAnd
}

// IsComparison reports whether the kind pops two values and pushes a boolean.
func (k Kind) IsComparison() bool {
	return k >= KindIntegerEqual && k <= KindGeoJSONContains
}

// IsVar reports whether the kind is an iteration variable.
func (k Kind) IsVar() bool {
	return k >= KindIntegerVar && k <= KindGeoJSONVar
}

// IsBin reports whether the kind extracts a named bin.
func (k Kind) IsBin() bool {
	return k >= KindIntegerBin && k <= KindMapBin
}
