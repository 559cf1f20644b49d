package sim

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	ErrUnknownGateKind    = errors.New("unknown gate kind")
	ErrMissingParameter   = errors.New("missing rotation angle")
	ErrMalformedOperation = errors.New("malformed operation")
	ErrInvalidGateShape   = errors.New("gate has no single-qubit matrix")
	ErrInvalidQubitCount  = errors.New("circuit needs at least one qubit")
	ErrDimensionMismatch  = errors.New("matrix dimensions do not match")
)

// OperationError ties a validation failure to the position of the operation
// that caused it. It unwraps to one of the sentinel errors above.
type OperationError struct {
	Index int
	Kind  GateKind
	Err   error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %d (%s): %s", e.Index, e.Kind, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
