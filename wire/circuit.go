// Package wire converts between the JSON circuit description posted by the
// circuit editor and the engine types in package sim.
package wire

import (
	"fmt"

	"github.com/go-faster/errors"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/oqtopus-team/quantum-emulator/sim"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// PlaceholderTag marks an empty editor cell. Such gates carry no operation.
const PlaceholderTag = "Q"

// CircuitDescription is the request body of the simulate endpoints.
type CircuitDescription struct {
	Qubits int               `json:"qubits"`
	Gates  []GateDescription `json:"gates"`
}

// GateDescription is one placed gate as the editor reports it.
// Q is the target row and T the column; ID is opaque.
type GateDescription struct {
	Type       string   `json:"type"`
	Q          int      `json:"q"`
	T          int      `json:"t"`
	ID         int      `json:"id"`
	Theta      *string  `json:"theta,omitempty"`
	ThetaValue *float64 `json:"thetaValue,omitempty"`
	Controls   []int    `json:"controls,omitempty"`
	TwoQubits  []int    `json:"twoQubits,omitempty"`
}

// DecodeCircuit parses a circuit description and returns the validated circuit.
func DecodeCircuit(data []byte) (*sim.Circuit, error) {
	var desc CircuitDescription
	if err := jsonIter.Unmarshal(data, &desc); err != nil {
		return nil, errors.Wrap(err, "decode circuit description")
	}
	return desc.Circuit()
}

// Circuit converts the description into a sim.Circuit. Errors name the
// position of the gate in the description, placeholders included.
func (d *CircuitDescription) Circuit() (*sim.Circuit, error) {
	if d.Qubits < 1 {
		return nil, errors.Wrapf(sim.ErrInvalidQubitCount, "got %d", d.Qubits)
	}
	c := &sim.Circuit{NumQubits: d.Qubits, Operations: make([]sim.Operation, 0, len(d.Gates))}
	var errs error
	for i, g := range d.Gates {
		if g.Type == PlaceholderTag {
			continue
		}
		op, err := g.Operation()
		if err == nil {
			err = op.Validate(d.Qubits)
		}
		if err != nil {
			errs = multierr.Append(errs, &sim.OperationError{Index: i, Kind: op.Gate.Kind, Err: err})
			continue
		}
		c.Operations = append(c.Operations, op)
	}
	if errs != nil {
		return nil, errs
	}
	zap.L().Debug(fmt.Sprintf("decoded circuit with %d qubit(s) and %d operation(s), %d placeholder(s) skipped",
		c.NumQubits, len(c.Operations), len(d.Gates)-len(c.Operations)))
	return c, nil
}

// Operation maps one gate description onto an engine operation. The result
// is not range-checked; that is left to sim.Operation.Validate.
func (g *GateDescription) Operation() (sim.Operation, error) {
	kind, err := sim.ParseGateKind(g.Type)
	if err != nil {
		return sim.Operation{}, errors.Wrapf(err, "tag %q", g.Type)
	}
	op := sim.Operation{Gate: sim.Gate{Kind: kind}}
	switch kind {
	case sim.ControlledNot:
		if len(g.Controls) == 0 {
			return op, errors.Wrap(sim.ErrMalformedOperation, "CNOT without controls")
		}
		op.Qubits = []int{g.Controls[0], g.Q}
	case sim.Swap:
		if len(g.TwoQubits) < 2 {
			return op, errors.Wrap(sim.ErrMalformedOperation, "SWAP needs two qubits")
		}
		op.Qubits = []int{g.TwoQubits[0], g.TwoQubits[1]}
	default:
		op.Qubits = []int{g.Q}
	}
	if kind.IsParametrized() {
		theta, err := g.angle()
		if err != nil {
			return op, err
		}
		op.Gate.Theta = theta
	}
	return op, nil
}

func (g *GateDescription) angle() (float64, error) {
	if g.ThetaValue != nil {
		return *g.ThetaValue, nil
	}
	if g.Theta == nil {
		return 0, errors.Wrapf(sim.ErrMissingParameter, "%s has neither thetaValue nor theta", g.Type)
	}
	return ParseTheta(*g.Theta)
}
