package predexp

// Regex flags for StringRegex. They are passed to the evaluator uninterpreted.
const (
	RegexNone     uint32 = 0
	RegexExtended uint32 = 1 << 0
	RegexICase    uint32 = 1 << 1
	RegexNoSub    uint32 = 1 << 2
	RegexNewline  uint32 = 1 << 3
)

// And pops nexpr logical children and pushes their conjunction.
// The client does not check that nexpr children precede it.
func And(nexpr uint16) Node { return Node{kind: KindAnd, num: int64(nexpr)} }

// Or pops nexpr logical children and pushes their disjunction.
func Or(nexpr uint16) Node { return Node{kind: KindOr, num: int64(nexpr)} }

// Not pops one logical child and pushes its negation.
func Not() Node { return Node{kind: KindNot} }

// IntegerValue pushes an integer constant.
func IntegerValue(value int64) Node { return Node{kind: KindIntegerValue, num: value} }

// StringValue pushes a string constant.
func StringValue(value string) Node { return Node{kind: KindStringValue, str: value} }

// GeoJSONValue pushes a GeoJSON constant given as JSON text.
// The text is not parsed on the client; see GeoJSONValueOf for a typed variant.
func GeoJSONValue(value string) Node { return Node{kind: KindGeoJSONValue, str: value} }

// IntegerBin pushes the value of an integer bin.
// The value is unknown when the bin is absent or holds another type.
func IntegerBin(name string) Node { return Node{kind: KindIntegerBin, str: name} }

// StringBin pushes the value of a string bin.
func StringBin(name string) Node { return Node{kind: KindStringBin, str: name} }

// GeoJSONBin pushes the value of a GeoJSON bin.
func GeoJSONBin(name string) Node { return Node{kind: KindGeoJSONBin, str: name} }

// ListBin pushes the value of a list bin, for use by ListIterateOr/And.
func ListBin(name string) Node { return Node{kind: KindListBin, str: name} }

// MapBin pushes the value of a map bin, for use by the map iterators.
func MapBin(name string) Node { return Node{kind: KindMapBin, str: name} }

// IntegerVar pushes the integer element bound to name by the enclosing iterator.
func IntegerVar(name string) Node { return Node{kind: KindIntegerVar, str: name} }

// StringVar pushes the string element bound to name by the enclosing iterator.
func StringVar(name string) Node { return Node{kind: KindStringVar, str: name} }

// GeoJSONVar pushes the GeoJSON element bound to name by the enclosing iterator.
func GeoJSONVar(name string) Node { return Node{kind: KindGeoJSONVar, str: name} }

// RecDeviceSize pushes the record's storage footprint in bytes.
func RecDeviceSize() Node { return Node{kind: KindRecDeviceSize} }

// RecLastUpdate pushes the record's last-update time in nanoseconds since the Unix epoch.
func RecLastUpdate() Node { return Node{kind: KindRecLastUpdate} }

// RecVoidTime pushes the record's expiration time in nanoseconds since the
// Unix epoch, or 0 when the record never expires.
func RecVoidTime() Node { return Node{kind: KindRecVoidTime} }

// RecDigestModulo pushes the record digest modulo mod, which can be used to
// select a deterministic sample of records.
func RecDigestModulo(mod int32) Node { return Node{kind: KindRecDigestModulo, num: int64(mod)} }

// IntegerEqual pops two integers and pushes left == right.
// Like every comparison it yields false when either operand is unknown.
func IntegerEqual() Node { return Node{kind: KindIntegerEqual} }

// IntegerUnequal pops two integers and pushes left != right.
func IntegerUnequal() Node { return Node{kind: KindIntegerUnequal} }

// IntegerGreater pops two integers and pushes left > right.
func IntegerGreater() Node { return Node{kind: KindIntegerGreater} }

// IntegerGreaterEq pops two integers and pushes left >= right.
func IntegerGreaterEq() Node { return Node{kind: KindIntegerGreaterEq} }

// IntegerLess pops two integers and pushes left < right.
func IntegerLess() Node { return Node{kind: KindIntegerLess} }

// IntegerLessEq pops two integers and pushes left <= right.
func IntegerLessEq() Node { return Node{kind: KindIntegerLessEq} }

// StringEqual pops two strings and pushes left == right.
func StringEqual() Node { return Node{kind: KindStringEqual} }

// StringUnequal pops two strings and pushes left != right.
func StringUnequal() Node { return Node{kind: KindStringUnequal} }

// StringRegex pops a string and a pattern and pushes whether the pattern
// matches. cflags is a combination of the Regex* constants.
func StringRegex(cflags uint32) Node { return Node{kind: KindStringRegex, num: int64(cflags)} }

// GeoJSONWithin pops a GeoJSON value and a region and pushes whether the value lies within the region.
func GeoJSONWithin() Node { return Node{kind: KindGeoJSONWithin} }

// GeoJSONContains pops a GeoJSON region and a point and pushes whether the region contains the point.
func GeoJSONContains() Node { return Node{kind: KindGeoJSONContains} }

// ListIterateOr pops a subexpression and a list bin and pushes true if the
// subexpression holds for any element bound to varname. Empty lists yield false.
func ListIterateOr(varname string) Node { return Node{kind: KindListIterateOr, str: varname} }

// ListIterateAnd is like ListIterateOr but requires every element to match.
// Empty lists yield true.
func ListIterateAnd(varname string) Node { return Node{kind: KindListIterateAnd, str: varname} }

// MapKeyIterateOr iterates the keys of a map bin; see ListIterateOr.
func MapKeyIterateOr(varname string) Node { return Node{kind: KindMapKeyIterateOr, str: varname} }

// MapKeyIterateAnd iterates the keys of a map bin; see ListIterateAnd.
func MapKeyIterateAnd(varname string) Node { return Node{kind: KindMapKeyIterateAnd, str: varname} }

// MapValIterateOr iterates the values of a map bin; see ListIterateOr.
func MapValIterateOr(varname string) Node { return Node{kind: KindMapValIterateOr, str: varname} }

// MapValIterateAnd iterates the values of a map bin; see ListIterateAnd.
func MapValIterateAnd(varname string) Node { return Node{kind: KindMapValIterateAnd, str: varname} }
