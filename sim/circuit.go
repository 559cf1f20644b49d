package sim

import (
	"github.com/go-faster/errors"
	"go.uber.org/multierr"
)

// Circuit is an ordered list of operations on NumQubits qubits, all starting
// in |0⟩. A Circuit is owned by the caller that built it and is never
// modified by this package.
type Circuit struct {
	NumQubits  int         `json:"qubits"`
	Operations []Operation `json:"operations"`
}

// NewCircuit builds a validated circuit.
func NewCircuit(numQubits int, ops ...Operation) (*Circuit, error) {
	c := &Circuit{NumQubits: numQubits, Operations: ops}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every operation and reports all failures, each as an
// *OperationError carrying the operation's position.
func (c *Circuit) Validate() error {
	if c.NumQubits < 1 {
		return errors.Wrapf(ErrInvalidQubitCount, "got %d", c.NumQubits)
	}
	var errs error
	for i, op := range c.Operations {
		if err := op.Validate(c.NumQubits); err != nil {
			errs = multierr.Append(errs, &OperationError{Index: i, Kind: op.Gate.Kind, Err: err})
		}
	}
	return errs
}

// Dimension is the length of the state vector, 2^NumQubits.
func (c *Circuit) Dimension() int {
	return 1 << c.NumQubits
}

// Unitary returns G_last · … · G_1, the operator of the whole circuit.
// It costs a full 2^n×2^n product per gate; Evolve is cheaper when only the
// final state is needed.
func (c *Circuit) Unitary() (*Matrix, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	u := Identity(c.Dimension())
	for i, op := range c.Operations {
		g, err := FullOperator(op, c.NumQubits)
		if err != nil {
			return nil, &OperationError{Index: i, Kind: op.Gate.Kind, Err: err}
		}
		if u, err = g.Mul(u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Evolve applies the operations in order to |0…0⟩ and returns the final state.
func (c *Circuit) Evolve() (StateVector, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	state := NewStateVector(c.NumQubits)
	for i, op := range c.Operations {
		g, err := FullOperator(op, c.NumQubits)
		if err != nil {
			return nil, &OperationError{Index: i, Kind: op.Gate.Kind, Err: err}
		}
		next, err := g.MulVec(state)
		if err != nil {
			return nil, err
		}
		state = next
	}
	return state, nil
}
