package eval

import predexp "github.com/hugr-lab/predexp-go"

// scope binds iteration variables while an iterator evaluates its subexpression.
type scope struct {
	name   string
	elem   any
	parent *scope
}

func (s *scope) lookup(name string) (any, bool) {
	for ; s != nil; s = s.parent {
		if s.name == name {
			return s.elem, true
		}
	}
	return nil, false
}

// Match evaluates the program against a record.
func (p *Program) Match(rec *Record) bool {
	if rec == nil {
		rec = &Record{}
	}
	return evalBool(p.root, rec, nil)
}

// MatchAll evaluates the program against each record in order.
func (p *Program) MatchAll(recs []Record) []bool {
	out := make([]bool, len(recs))
	for i := range recs {
		out[i] = p.Match(&recs[i])
	}
	return out
}

func evalBool(t *term, rec *Record, sc *scope) bool {
	k := t.node.Kind()
	switch {
	case k == predexp.KindAnd:
		for _, kid := range t.kids {
			if !evalBool(kid, rec, sc) {
				return false
			}
		}
		return true

	case k == predexp.KindOr:
		for _, kid := range t.kids {
			if evalBool(kid, rec, sc) {
				return true
			}
		}
		return false

	case k == predexp.KindNot:
		return !evalBool(t.kids[0], rec, sc)

	case k.IsComparison():
		return compare(t, rec, sc)

	case k.IsIterator():
		return iterate(t, rec, sc)

	default:
		return false
	}
}

func evalValue(t *term, rec *Record, sc *scope) value {
	n := t.node
	switch k := n.Kind(); {
	case k == predexp.KindIntegerValue, k == predexp.KindStringValue, k == predexp.KindGeoJSONValue:
		return t.lit

	case k.IsBin():
		raw, ok := rec.Bins[n.Name()]
		if !ok {
			return unknown
		}
		return toValue(raw, k.ValueType())

	case k.IsVar():
		elem, ok := sc.lookup(n.Name())
		if !ok {
			return unknown
		}
		return elementValue(elem, k.ValueType())

	case k == predexp.KindRecDeviceSize:
		return value{typ: predexp.TypeInteger, i: rec.DeviceSize}
	case k == predexp.KindRecLastUpdate:
		return value{typ: predexp.TypeInteger, i: unixNanos(rec.LastUpdate)}
	case k == predexp.KindRecVoidTime:
		return value{typ: predexp.TypeInteger, i: unixNanos(rec.VoidTime)}
	case k == predexp.KindRecDigestModulo:
		v, ok := rec.DigestModulo(n.Modulus())
		if !ok {
			return unknown
		}
		return value{typ: predexp.TypeInteger, i: v}

	default:
		return unknown
	}
}

func compare(t *term, rec *Record, sc *scope) bool {
	left := evalValue(t.kids[0], rec, sc)
	right := evalValue(t.kids[1], rec, sc)
	if !left.known() || !right.known() {
		return false
	}

	switch t.node.Kind() {
	case predexp.KindIntegerEqual:
		return left.i == right.i
	case predexp.KindIntegerUnequal:
		return left.i != right.i
	case predexp.KindIntegerGreater:
		return left.i > right.i
	case predexp.KindIntegerGreaterEq:
		return left.i >= right.i
	case predexp.KindIntegerLess:
		return left.i < right.i
	case predexp.KindIntegerLessEq:
		return left.i <= right.i
	case predexp.KindStringEqual:
		return left.s == right.s
	case predexp.KindStringUnequal:
		return left.s != right.s
	case predexp.KindStringRegex:
		if t.badRe {
			return false
		}
		re := t.re
		if re == nil {
			var err error
			if re, err = compileRegex(right.s, t.node.Flags()); err != nil {
				return false
			}
		}
		return re.MatchString(left.s)
	case predexp.KindGeoJSONWithin:
		return within(left.shape, right.shape)
	case predexp.KindGeoJSONContains:
		return within(right.shape, left.shape)
	default:
		return false
	}
}

func iterate(t *term, rec *Record, sc *scope) bool {
	coll := evalValue(t.kids[1], rec, sc)
	if !coll.known() {
		return false
	}

	k := t.node.Kind()
	orFlavor := k == predexp.KindListIterateOr || k == predexp.KindMapKeyIterateOr || k == predexp.KindMapValIterateOr
	name := t.node.Name()
	sub := t.kids[0]

	visit := func(elem any) (done bool) {
		matched := evalBool(sub, rec, &scope{name: name, elem: elem, parent: sc})
		return matched == orFlavor
	}

	switch k {
	case predexp.KindListIterateOr, predexp.KindListIterateAnd:
		for _, elem := range coll.list {
			if visit(elem) {
				return orFlavor
			}
		}
	case predexp.KindMapKeyIterateOr, predexp.KindMapKeyIterateAnd:
		for key := range coll.m {
			if visit(key) {
				return orFlavor
			}
		}
	default:
		for _, val := range coll.m {
			if visit(val) {
				return orFlavor
			}
		}
	}
	// Exhausted without short-circuit: false for OR (including empty), true for AND.
	return !orFlavor
}
