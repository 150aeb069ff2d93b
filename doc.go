// Package predexp builds predicate-expression filters and encodes them into
// the binary layout evaluated by the record store on every candidate record.
//
// A filter is a postfix program: operands are appended before the operator
// that consumes them, and the server evaluates the program with an implicit
// stack. The package:
//   - Provides the closed catalog of nodes (literals, bin and metadata
//     extractors, iteration variables, combinators, comparisons, iterators)
//   - Collects nodes into an owning, ordered List
//   - Sizes and writes the List in two explicit steps so a command builder can
//     size its enclosing buffer once
//
// # Basic Usage
//
// Select records where 11 <= c <= 20:
//
//	list := predexp.NewList(7)
//	err := list.Append(
//	    predexp.IntegerBin("c"),
//	    predexp.IntegerValue(11),
//	    predexp.IntegerGreaterEq(),
//	    predexp.IntegerBin("c"),
//	    predexp.IntegerValue(20),
//	    predexp.IntegerLessEq(),
//	    predexp.And(2),
//	)
//	if err != nil {
//	    return err
//	}
//	defer list.Destroy()
//
//	buf := make([]byte, list.Size().Bytes)
//	list.Encode(buf, 0)
//
// # Iterating Collections
//
// Iterators consume a subexpression that references an iteration variable and
// a collection bin, in that order:
//
//	list.Append(
//	    predexp.StringVar("v"),
//	    predexp.StringValue("blue"),
//	    predexp.StringEqual(),
//	    predexp.ListBin("colors"),
//	    predexp.ListIterateOr("v"),
//	)
//
// OR-flavored iterators yield false on an empty collection, AND-flavored
// iterators yield true.
//
// # Validation
//
// The client does not check the program: stack arity, operand types, and
// variable names are resolved by the evaluator. A comparison whose operand is
// an absent or mistyped bin evaluates to false; wrap it in Not to get the
// opposite default. The eval subpackage implements these rules locally.
//
// # Wire Format
//
// Each node encodes as a 2-byte tag, a 4-byte payload length, and the payload,
// all integers big-endian. A List encodes as the concatenation of its nodes.
// EncodeField adds the command field header around it.
package predexp
