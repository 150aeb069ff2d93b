package filter

import (
	"errors"
	"fmt"
	"math"
	"slices"

	predexp "github.com/hugr-lab/predexp-go"
)

// ErrInvalidExpression indicates an expression tree that has no predexp form.
var ErrInvalidExpression = errors.New("filter: invalid expression")

// CompileOptions configures compilation.
type CompileOptions struct {
	// BinMapping maps bin names of the expression to stored bin names.
	// Bins not in the map use their original names.
	BinMapping map[string]string
}

// Compile converts an expression tree into a postfix predexp program.
// Operands are emitted before their operator; conjunctions become n-ary
// AND/OR nodes.
//
// Compile checks what the tree makes visible: comparison operand types,
// logical children, collection types and variable scoping. The returned
// list is owned by the caller.
func Compile(expr Expression, opts *CompileOptions) (*predexp.List, error) {
	if expr == nil {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}
	if opts == nil {
		opts = &CompileOptions{}
	}

	c := &compiler{opts: opts}
	if err := c.logical(expr); err != nil {
		return nil, err
	}

	l := predexp.NewList(len(c.nodes))
	if err := l.Append(c.nodes...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExpression, err)
	}
	return l, nil
}

type compiler struct {
	opts  *CompileOptions
	nodes []predexp.Node
	vars  []string
}

func (c *compiler) fail(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidExpression, fmt.Sprintf(format, args...))
}

func (c *compiler) emit(n predexp.Node) {
	c.nodes = append(c.nodes, n)
}

// logical compiles an expression that yields true or false.
func (c *compiler) logical(expr Expression) error {
	switch ex := expr.(type) {
	case *ConjunctionExpression:
		return c.conjunction(ex)
	case *NotExpression:
		if err := c.logical(ex.Child); err != nil {
			return err
		}
		c.emit(predexp.Not())
		return nil
	case *ComparisonExpression:
		return c.comparison(ex)
	case *RegexExpression:
		return c.regex(ex)
	case *IterateExpression:
		return c.iterate(ex)
	case nil:
		return c.fail("missing operand")
	default:
		return c.fail("%s is not a condition", expr.Op())
	}
}

func (c *compiler) conjunction(ex *ConjunctionExpression) error {
	if len(ex.Children) == 0 {
		return c.fail("%s without children", ex.Op())
	}
	if len(ex.Children) > math.MaxUint16 {
		return c.fail("%s with %d children", ex.Op(), len(ex.Children))
	}
	for _, child := range ex.Children {
		if err := c.logical(child); err != nil {
			return err
		}
	}

	arity := uint16(len(ex.Children))
	if ex.Op() == OpOr {
		c.emit(predexp.Or(arity))
	} else {
		c.emit(predexp.And(arity))
	}
	return nil
}

// comparisonNodes lists the node per operator and operand type.
var comparisonNodes = map[Op]map[ValueType]func() predexp.Node{
	OpEqual:     {TypeInteger: predexp.IntegerEqual, TypeString: predexp.StringEqual},
	OpNotEqual:  {TypeInteger: predexp.IntegerUnequal, TypeString: predexp.StringUnequal},
	OpGreater:   {TypeInteger: predexp.IntegerGreater},
	OpGreaterEq: {TypeInteger: predexp.IntegerGreaterEq},
	OpLess:      {TypeInteger: predexp.IntegerLess},
	OpLessEq:    {TypeInteger: predexp.IntegerLessEq},
	OpWithin:    {TypeGeoJSON: predexp.GeoJSONWithin},
	OpContains:  {TypeGeoJSON: predexp.GeoJSONContains},
}

func (c *compiler) comparison(ex *ComparisonExpression) error {
	lt, rt := valueType(ex.Left), valueType(ex.Right)
	if lt == "" || rt == "" {
		return c.fail("%s needs two value operands", ex.Op())
	}
	if lt != rt {
		return c.fail("%s of %s and %s", ex.Op(), lt, rt)
	}
	node, ok := comparisonNodes[ex.Op()][lt]
	if !ok {
		return c.fail("%s is not defined for %s", ex.Op(), lt)
	}

	if err := c.value(ex.Left); err != nil {
		return err
	}
	if err := c.value(ex.Right); err != nil {
		return err
	}
	c.emit(node())
	return nil
}

func (c *compiler) regex(ex *RegexExpression) error {
	if valueType(ex.Input) != TypeString || valueType(ex.Pattern) != TypeString {
		return c.fail("regex needs string input and pattern")
	}
	if err := c.value(ex.Input); err != nil {
		return err
	}
	if err := c.value(ex.Pattern); err != nil {
		return err
	}
	c.emit(predexp.StringRegex(ex.Flags))
	return nil
}

func (c *compiler) iterate(ex *IterateExpression) error {
	if ex.Collection == nil {
		return c.fail("%s without collection", ex.Op())
	}
	want := TypeMap
	if ex.Over == CollectionList {
		want = TypeList
	}
	if ex.Collection.Type != want {
		return c.fail("%s over %s needs a %s bin, %q is %s", ex.Op(), ex.Over, want, ex.Collection.Name, ex.Collection.Type)
	}

	c.vars = append(c.vars, ex.Var)
	err := c.logical(ex.Where)
	c.vars = c.vars[:len(c.vars)-1]
	if err != nil {
		return err
	}

	if err := c.value(ex.Collection); err != nil {
		return err
	}

	var node predexp.Node
	switch {
	case ex.Over == CollectionList && ex.Op() == OpAny:
		node = predexp.ListIterateOr(ex.Var)
	case ex.Over == CollectionList:
		node = predexp.ListIterateAnd(ex.Var)
	case ex.Over == CollectionMapKey && ex.Op() == OpAny:
		node = predexp.MapKeyIterateOr(ex.Var)
	case ex.Over == CollectionMapKey:
		node = predexp.MapKeyIterateAnd(ex.Var)
	case ex.Op() == OpAny:
		node = predexp.MapValIterateOr(ex.Var)
	default:
		node = predexp.MapValIterateAnd(ex.Var)
	}
	c.emit(node)
	return nil
}

// value compiles an expression that yields a value.
func (c *compiler) value(expr Expression) error {
	switch ex := expr.(type) {
	case *ConstantExpression:
		return c.constant(ex)

	case *BinRefExpression:
		name := ex.Name
		if mapped, ok := c.opts.BinMapping[name]; ok {
			name = mapped
		}
		switch ex.Type {
		case TypeInteger:
			c.emit(predexp.IntegerBin(name))
		case TypeString:
			c.emit(predexp.StringBin(name))
		case TypeGeoJSON:
			c.emit(predexp.GeoJSONBin(name))
		case TypeList:
			c.emit(predexp.ListBin(name))
		case TypeMap:
			c.emit(predexp.MapBin(name))
		default:
			return c.fail("bin %q: unsupported type %q", ex.Name, ex.Type)
		}
		return nil

	case *VarRefExpression:
		if !slices.Contains(c.vars, ex.Name) {
			return c.fail("variable %q is not bound by an enclosing iteration", ex.Name)
		}
		switch ex.Type {
		case TypeInteger:
			c.emit(predexp.IntegerVar(ex.Name))
		case TypeString:
			c.emit(predexp.StringVar(ex.Name))
		case TypeGeoJSON:
			c.emit(predexp.GeoJSONVar(ex.Name))
		default:
			return c.fail("variable %q: unsupported type %q", ex.Name, ex.Type)
		}
		return nil

	case *MetadataExpression:
		switch ex.Field {
		case FieldDeviceSize:
			c.emit(predexp.RecDeviceSize())
		case FieldLastUpdate:
			c.emit(predexp.RecLastUpdate())
		case FieldVoidTime:
			c.emit(predexp.RecVoidTime())
		case FieldDigestModulo:
			c.emit(predexp.RecDigestModulo(ex.Modulus))
		default:
			return c.fail("unknown metadata field %q", ex.Field)
		}
		return nil

	default:
		return c.fail("%s is not a value", expr.Op())
	}
}

func (c *compiler) constant(ex *ConstantExpression) error {
	switch ex.Type {
	case TypeInteger:
		v, ok := ex.Value.(int64)
		if !ok {
			return c.fail("integer constant holds %T", ex.Value)
		}
		c.emit(predexp.IntegerValue(v))
	case TypeString:
		s, ok := ex.Value.(string)
		if !ok {
			return c.fail("string constant holds %T", ex.Value)
		}
		c.emit(predexp.StringValue(s))
	case TypeGeoJSON:
		s, ok := ex.Value.(string)
		if !ok {
			return c.fail("geojson constant holds %T", ex.Value)
		}
		c.emit(predexp.GeoJSONValue(s))
	default:
		return c.fail("unsupported constant type %q", ex.Type)
	}
	return nil
}
