package eval

import (
	"errors"
	"fmt"

	predexp "github.com/hugr-lab/predexp-go"
)

// ErrInvalidProgram indicates a program the evaluator refuses to run.
var ErrInvalidProgram = errors.New("invalid predexp program")

// BuildError reports the instruction at which building a program failed.
type BuildError struct {
	Index  int
	Kind   predexp.Kind
	Reason string
}

func (e *BuildError) Error() string {
	if e.Index < 0 {
		return "predexp program: " + e.Reason
	}
	return fmt.Sprintf("predexp program: node %d (%s): %s", e.Index, e.Kind, e.Reason)
}

func (e *BuildError) Unwrap() error { return ErrInvalidProgram }
