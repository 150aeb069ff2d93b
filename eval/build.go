package eval

import (
	"fmt"
	"regexp"

	predexp "github.com/hugr-lab/predexp-go"
)

// term is one node of the built program tree.
type term struct {
	node  predexp.Node
	kids  []*term
	lit   value          // pre-converted literal for value nodes
	re    *regexp.Regexp // compiled pattern when the right operand of a regex is a literal
	badRe bool           // the literal pattern does not compile
}

// Program is a built predicate ready to be matched against records.
// A Program is immutable and safe for concurrent use.
type Program struct {
	root  *term
	nodes int
}

// Build turns a postfix program into an evaluation tree, the same way the
// remote evaluator does before touching any record.
func Build(nodes []predexp.Node) (*Program, error) {
	if len(nodes) == 0 {
		return nil, &BuildError{Index: -1, Reason: "empty program"}
	}

	var stack []*term
	pop := func() *term {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return t
	}

	for i, n := range nodes {
		fail := func(format string, args ...any) error {
			return &BuildError{Index: i, Kind: n.Kind(), Reason: fmt.Sprintf(format, args...)}
		}
		k := n.Kind()
		t := &term{node: n}

		switch {
		case !k.Valid():
			return nil, fail("invalid node")

		case k.Class() == predexp.ClassValue:
			if err := buildLiteral(t); err != nil {
				return nil, fail("%v", err)
			}

		case k == predexp.KindAnd || k == predexp.KindOr || k == predexp.KindNot:
			arity := n.Arity()
			if arity == 0 {
				return nil, fail("no children")
			}
			if len(stack) < arity {
				return nil, fail("needs %d children, stack has %d", arity, len(stack))
			}
			t.kids = make([]*term, arity)
			for j := arity - 1; j >= 0; j-- {
				kid := pop()
				if kid.node.Class() != predexp.ClassLogical {
					return nil, fail("child %s is not logical", kid.node.Kind())
				}
				t.kids[j] = kid
			}

		case k.IsComparison():
			if len(stack) < 2 {
				return nil, fail("needs 2 operands, stack has %d", len(stack))
			}
			right, left := pop(), pop()
			want := operandType(k)
			for _, op := range []*term{left, right} {
				if got := op.node.Kind().ValueType(); got != want {
					return nil, fail("operand %s is %s, want %s", op.node.Kind(), got, want)
				}
			}
			t.kids = []*term{left, right}
			if k == predexp.KindStringRegex && right.node.Kind() == predexp.KindStringValue {
				re, err := compileRegex(right.node.Text(), n.Flags())
				t.re, t.badRe = re, err != nil
			}

		case k.IsIterator():
			if len(stack) < 2 {
				return nil, fail("needs a subexpression and a collection, stack has %d", len(stack))
			}
			coll, sub := pop(), pop()
			if got, want := coll.node.Kind(), collectionKind(k); got != want {
				return nil, fail("collection is %s, want %s", got, want)
			}
			if sub.node.Class() != predexp.ClassLogical {
				return nil, fail("subexpression %s is not logical", sub.node.Kind())
			}
			t.kids = []*term{sub, coll}

		default:
			return nil, fail("unsupported node")
		}

		stack = append(stack, t)
	}

	if len(stack) != 1 {
		return nil, &BuildError{Index: -1, Reason: fmt.Sprintf("program leaves %d entries on the stack", len(stack))}
	}
	if stack[0].node.Class() != predexp.ClassLogical {
		return nil, &BuildError{Index: len(nodes) - 1, Kind: stack[0].node.Kind(), Reason: "program result is not logical"}
	}
	return &Program{root: stack[0], nodes: len(nodes)}, nil
}

// Compile decodes an encoded program and builds it.
func Compile(data []byte) (*Program, error) {
	nodes, err := predexp.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProgram, err)
	}
	return Build(nodes)
}

// FromList builds the program held by a list.
func FromList(l *predexp.List) (*Program, error) {
	return Build(l.Nodes())
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int { return p.nodes }

func buildLiteral(t *term) error {
	n := t.node
	switch n.Kind() {
	case predexp.KindIntegerValue:
		t.lit = value{typ: predexp.TypeInteger, i: n.Int()}
	case predexp.KindStringValue:
		t.lit = value{typ: predexp.TypeString, s: n.Text()}
	case predexp.KindGeoJSONValue:
		sh, err := parseShape(n.Text())
		if err != nil {
			return err
		}
		t.lit = value{typ: predexp.TypeGeoJSON, shape: sh}
	}
	return nil
}

func operandType(k predexp.Kind) predexp.ValueType {
	switch {
	case k >= predexp.KindIntegerEqual && k <= predexp.KindIntegerLessEq:
		return predexp.TypeInteger
	case k >= predexp.KindStringEqual && k <= predexp.KindStringRegex:
		return predexp.TypeString
	default:
		return predexp.TypeGeoJSON
	}
}

func collectionKind(k predexp.Kind) predexp.Kind {
	if k == predexp.KindListIterateOr || k == predexp.KindListIterateAnd {
		return predexp.KindListBin
	}
	return predexp.KindMapBin
}
