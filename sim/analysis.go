package sim

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// amplitudes with a magnitude below this are treated as zero
const zeroTolerance = 1e-12

// StateVector holds the 2^n amplitudes of a register in basis-index order.
type StateVector []complex128

// NewStateVector returns |0…0⟩ on n qubits.
func NewStateVector(n int) StateVector {
	s := make(StateVector, 1<<n)
	s[0] = 1
	return s
}

// Probabilities returns |a_i|² for every basis index.
func (s StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s))
	for i, a := range s {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}

// Norm returns the sum of squared magnitudes, 1 for a valid state.
func (s StateVector) Norm() float64 {
	var sum float64
	for _, p := range s.Probabilities() {
		sum += p
	}
	return sum
}

// MarshalJSON writes every amplitude as an [re, im] pair.
func (s StateVector) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	e.ArrStart()
	for _, a := range s {
		e.ArrStart()
		e.Float64(real(a))
		e.Float64(imag(a))
		e.ArrEnd()
	}
	e.ArrEnd()
	return e.Bytes(), nil
}

func (s *StateVector) UnmarshalJSON(data []byte) error {
	out := StateVector{}
	err := jx.DecodeBytes(data).Arr(func(d *jx.Decoder) error {
		var pair [2]float64
		n := 0
		if err := d.Arr(func(d *jx.Decoder) error {
			if n == len(pair) {
				return errors.New("amplitude has more than two components")
			}
			v, err := d.Float64()
			if err != nil {
				return err
			}
			pair[n] = v
			n++
			return nil
		}); err != nil {
			return err
		}
		if n != len(pair) {
			return errors.Errorf("amplitude has %d component(s)", n)
		}
		out = append(out, complex(pair[0], pair[1]))
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "decode state vector")
	}
	*s = out
	return nil
}

type BlochAngle struct {
	Theta float64 `json:"theta"`
	Phi   float64 `json:"phi"`
}

// BlochAngles returns (θ, φ) for each of the n qubits.
//
// alpha and beta are the sums of the amplitudes whose qubit bit is 0 and 1.
// The angles describe the qubit only when it is not entangled with the rest
// of the register; for entangled states the numbers are deterministic but do
// not correspond to the reduced density matrix.
func (s StateVector) BlochAngles(n int) []BlochAngle {
	angles := make([]BlochAngle, n)
	for q := 0; q < n; q++ {
		alpha, beta := s.qubitAmplitudes(q, n)
		a, b := cmplx.Abs(alpha), cmplx.Abs(beta)
		var theta, phi float64
		switch {
		case b < zeroTolerance:
			theta = 0
		case a < zeroTolerance:
			theta = math.Pi
		default:
			// summed amplitudes of a superposed neighbour can exceed 1
			theta = 2 * math.Acos(math.Min(a, 1))
		}
		if a >= zeroTolerance && b >= zeroTolerance {
			phi = cmplx.Phase(beta) - cmplx.Phase(alpha)
		}
		angles[q] = BlochAngle{Theta: theta, Phi: phi}
	}
	return angles
}

func (s StateVector) qubitAmplitudes(q, n int) (alpha, beta complex128) {
	mask := qubitMask(q, n)
	for i, a := range s {
		if i&mask == 0 {
			alpha += a
		} else {
			beta += a
		}
	}
	return alpha, beta
}

// BasisLabels returns the n-bit binary label of every basis index, most
// significant bit first.
func BasisLabels(n int) []string {
	labels := make([]string, 1<<n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%0*b", n, i)
	}
	return labels
}

// Result is everything derived from one simulation.
type Result struct {
	StateVector   StateVector  `json:"state_vector"`
	BasisVectors  []string     `json:"basis_vectors"`
	Probabilities []float64    `json:"probabilities"`
	BlochAngles   []BlochAngle `json:"bloch_angles"`
}

// Simulate validates and evolves c and derives probabilities and Bloch angles
// from the final state.
func Simulate(c *Circuit) (*Result, error) {
	state, err := c.Evolve()
	if err != nil {
		return nil, err
	}
	zap.L().Debug(fmt.Sprintf("simulated %d operation(s) on %d qubit(s)", len(c.Operations), c.NumQubits))
	return &Result{
		StateVector:   state,
		BasisVectors:  BasisLabels(c.NumQubits),
		Probabilities: state.Probabilities(),
		BlochAngles:   state.BlochAngles(c.NumQubits),
	}, nil
}
