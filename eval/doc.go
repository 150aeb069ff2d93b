// Package eval is a local evaluator for predexp programs.
//
// It follows the contract of the remote evaluator closely enough to test
// programs without a server:
//   - Build turns the postfix program into a tree with a build stack and
//     rejects unbalanced or mistyped programs with ErrInvalidProgram
//   - Match evaluates the tree against a Record
//   - FilterRecord evaluates every row of an Arrow record batch
//
// Evaluation never fails. A bin that is absent or holds another type is
// unknown, and a comparison with an unknown operand is false. An iteration
// variable that no enclosing iterator binds is unknown too. OR-flavored
// iterators over an empty collection are false, AND-flavored ones are true.
//
// # Basic Usage
//
//	prog, err := eval.FromList(list)
//	if err != nil {
//	    return err // program rejected, as the server would
//	}
//	ok := prog.Match(&eval.Record{
//	    Bins: map[string]any{"c": 15},
//	})
package eval
