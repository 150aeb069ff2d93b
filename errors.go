package predexp

import (
	"errors"
	"fmt"
)

// Standard errors returned by the predexp package.
var (
	// ErrInvalidNode indicates a node whose payload cannot be represented on the wire.
	ErrInvalidNode = errors.New("invalid predexp node")

	// ErrMalformed indicates encoded bytes that do not form a sequence of nodes.
	ErrMalformed = errors.New("malformed predexp encoding")
)

// NameError reports a bin or variable name that does not fit the 1-byte length prefix.
type NameError struct {
	Kind Kind
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s: name of %d bytes exceeds %d", e.Kind, len(e.Name), MaxNameLen)
}

func (e *NameError) Unwrap() error { return ErrInvalidNode }

// PayloadError reports a literal too large for the 4-byte length field.
type PayloadError struct {
	Kind Kind
	Size uint64
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s: payload of %d bytes exceeds %d", e.Kind, e.Size, uint64(MaxPayloadLen))
}

func (e *PayloadError) Unwrap() error { return ErrInvalidNode }

// DecodeError reports where and why decoding stopped.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("predexp: decode at offset %d: %s", e.Offset, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrMalformed }

// ContractError is the panic value raised when the size/write protocol is
// violated or a destroyed list is used. It signals a defect, not a runtime
// condition, and is never returned as an error.
type ContractError struct {
	Op     string
	Detail string
}

func (e *ContractError) Error() string {
	return "predexp: " + e.Op + ": " + e.Detail
}

func contractViolation(op, format string, args ...any) {
	panic(&ContractError{Op: op, Detail: fmt.Sprintf(format, args...)})
}
