package wire

import (
	"github.com/go-faster/jx"

	"github.com/oqtopus-team/quantum-emulator/sim"
)

// EncodeResult writes r as the four-key record returned to the editor.
// Complex amplitudes are [re, im] pairs and Bloch angles [θ, φ] pairs.
func EncodeResult(e *jx.Encoder, r *sim.Result) {
	e.ObjStart()

	e.FieldStart("state_vector")
	e.ArrStart()
	for _, a := range r.StateVector {
		pair(e, real(a), imag(a))
	}
	e.ArrEnd()

	e.FieldStart("basis_vectors")
	e.ArrStart()
	for _, l := range r.BasisVectors {
		e.Str(l)
	}
	e.ArrEnd()

	e.FieldStart("probabilities")
	e.ArrStart()
	for _, p := range r.Probabilities {
		e.Float64(p)
	}
	e.ArrEnd()

	e.FieldStart("bloch_angles")
	e.ArrStart()
	for _, b := range r.BlochAngles {
		pair(e, b.Theta, b.Phi)
	}
	e.ArrEnd()

	e.ObjEnd()
}

// MarshalResult returns the encoded record.
func MarshalResult(r *sim.Result) []byte {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	EncodeResult(e, r)
	out := make([]byte, len(e.Bytes()))
	copy(out, e.Bytes())
	return out
}

func pair(e *jx.Encoder, a, b float64) {
	e.ArrStart()
	e.Float64(a)
	e.Float64(b)
	e.ArrEnd()
}
