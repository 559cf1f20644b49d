package sim

import (
	"math"
	"math/cmplx"

	"github.com/go-faster/errors"
)

type GateKind int

const (
	UnknownGate GateKind = iota
	PauliX
	PauliY
	PauliZ
	Phase
	Hadamard
	PiOverFour
	RotateX
	RotateY
	RotateZ
	ControlledNot
	Swap
)

var gateTags = map[GateKind]string{
	PauliX:        "X",
	PauliY:        "Y",
	PauliZ:        "Z",
	Phase:         "S",
	Hadamard:      "H",
	PiOverFour:    "T",
	RotateX:       "RX",
	RotateY:       "RY",
	RotateZ:       "RZ",
	ControlledNot: "CNOT",
	Swap:          "SWAP",
}

// String returns the wire tag of the kind, e.g. "H" or "CNOT".
func (k GateKind) String() string {
	if tag, ok := gateTags[k]; ok {
		return tag
	}
	return "unknown"
}

// ParseGateKind maps a wire tag to its GateKind.
func ParseGateKind(tag string) (GateKind, error) {
	for k, t := range gateTags {
		if t == tag {
			return k, nil
		}
	}
	return UnknownGate, errors.Wrapf(ErrUnknownGateKind, "type %q", tag)
}

// GateKinds lists every known kind in declaration order.
func GateKinds() []GateKind {
	kinds := make([]GateKind, 0, len(gateTags))
	for k := PauliX; k <= Swap; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k GateKind) IsParametrized() bool {
	switch k {
	case RotateX, RotateY, RotateZ:
		return true
	default:
		return false
	}
}

// Arity is the number of qubits the kind acts on, or 0 for an unknown kind.
func (k GateKind) Arity() int {
	switch k {
	case PauliX, PauliY, PauliZ, Phase, Hadamard, PiOverFour, RotateX, RotateY, RotateZ:
		return 1
	case ControlledNot, Swap:
		return 2
	default:
		return 0
	}
}

// Gate is a gate kind together with its rotation angle in radians. Theta is
// ignored unless the kind is parametrized.
type Gate struct {
	Kind  GateKind `json:"kind"`
	Theta float64  `json:"theta,omitempty"`
}

// Unitary returns the 2×2 matrix of a single-qubit gate. ControlledNot and
// Swap have no such matrix and yield ErrInvalidGateShape.
func Unitary(g Gate) (*Matrix, error) {
	var a, b, c, d complex128
	switch g.Kind {
	case PauliX:
		a, b, c, d = 0, 1, 1, 0
	case PauliY:
		a, b, c, d = 0, -1i, 1i, 0
	case PauliZ:
		a, b, c, d = 1, 0, 0, -1
	case Phase:
		a, b, c, d = 1, 0, 0, 1i
	case Hadamard:
		h := complex(1/math.Sqrt2, 0)
		a, b, c, d = h, h, h, -h
	case PiOverFour:
		a, b, c, d = 1, 0, 0, cmplx.Exp(complex(0, math.Pi/4))
	case RotateX:
		cos := complex(math.Cos(g.Theta/2), 0)
		isin := complex(0, -math.Sin(g.Theta/2))
		a, b, c, d = cos, isin, isin, cos
	case RotateY:
		cos := complex(math.Cos(g.Theta/2), 0)
		sin := complex(math.Sin(g.Theta/2), 0)
		a, b, c, d = cos, -sin, sin, cos
	case RotateZ:
		a, b, c, d = cmplx.Exp(complex(0, -g.Theta/2)), 0, 0, cmplx.Exp(complex(0, g.Theta/2))
	case ControlledNot, Swap:
		return nil, errors.Wrapf(ErrInvalidGateShape, "%s acts on two qubits", g.Kind)
	default:
		return nil, errors.Wrapf(ErrUnknownGateKind, "kind %d", int(g.Kind))
	}
	m := NewMatrix(2, 2)
	m.data[0], m.data[1], m.data[2], m.data[3] = a, b, c, d
	return m, nil
}

// Operation applies a gate to the listed qubits. ControlledNot takes
// [control, target]; Swap takes the two qubits to exchange.
type Operation struct {
	Gate   Gate  `json:"gate"`
	Qubits []int `json:"qubits"`
}

// Validate checks the operation against an n-qubit register.
func (o Operation) Validate(n int) error {
	arity := o.Gate.Kind.Arity()
	if arity == 0 {
		return errors.Wrapf(ErrUnknownGateKind, "kind %d", int(o.Gate.Kind))
	}
	if len(o.Qubits) != arity {
		return errors.Wrapf(ErrMalformedOperation, "%s expects %d qubit(s), got %d", o.Gate.Kind, arity, len(o.Qubits))
	}
	for _, q := range o.Qubits {
		if q < 0 || q >= n {
			return errors.Wrapf(ErrMalformedOperation, "qubit %d out of range [0, %d)", q, n)
		}
	}
	if arity == 2 && o.Qubits[0] == o.Qubits[1] {
		return errors.Wrapf(ErrMalformedOperation, "duplicate qubit %d", o.Qubits[0])
	}
	if o.Gate.Kind.IsParametrized() && (math.IsNaN(o.Gate.Theta) || math.IsInf(o.Gate.Theta, 0)) {
		return errors.Wrapf(ErrMissingParameter, "%s angle is not finite", o.Gate.Kind)
	}
	return nil
}

func X(q int) Operation { return Operation{Gate: Gate{Kind: PauliX}, Qubits: []int{q}} }
func Y(q int) Operation { return Operation{Gate: Gate{Kind: PauliY}, Qubits: []int{q}} }
func Z(q int) Operation { return Operation{Gate: Gate{Kind: PauliZ}, Qubits: []int{q}} }
func S(q int) Operation { return Operation{Gate: Gate{Kind: Phase}, Qubits: []int{q}} }
func H(q int) Operation { return Operation{Gate: Gate{Kind: Hadamard}, Qubits: []int{q}} }
func T(q int) Operation { return Operation{Gate: Gate{Kind: PiOverFour}, Qubits: []int{q}} }

func RX(theta float64, q int) Operation {
	return Operation{Gate: Gate{Kind: RotateX, Theta: theta}, Qubits: []int{q}}
}

func RY(theta float64, q int) Operation {
	return Operation{Gate: Gate{Kind: RotateY, Theta: theta}, Qubits: []int{q}}
}

func RZ(theta float64, q int) Operation {
	return Operation{Gate: Gate{Kind: RotateZ, Theta: theta}, Qubits: []int{q}}
}

func CNOT(control, target int) Operation {
	return Operation{Gate: Gate{Kind: ControlledNot}, Qubits: []int{control, target}}
}

func SWAP(a, b int) Operation {
	return Operation{Gate: Gate{Kind: Swap}, Qubits: []int{a, b}}
}
