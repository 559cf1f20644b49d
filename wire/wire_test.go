//go:build unit
// +build unit

package wire

import (
	"math"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/oqtopus-team/quantum-emulator/sim"
)

func TestParseTheta(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"1.25", 1.25},
		{"-0.5", -0.5},
		{"π", math.Pi},
		{"pi", math.Pi},
		{"PI", math.Pi},
		{"-π/2", -math.Pi / 2},
		{"3π/4", 3 * math.Pi / 4},
		{"2*pi", 2 * math.Pi},
		{"0.5π", math.Pi / 2},
		{" π / 3 ", math.Pi / 3},
		{"pi/3*2", 2 * math.Pi / 3},
		{"Ï€/2", math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTheta(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseThetaInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "π/", "π/0", "2**π", "inf", "1/nan", "1e308*1e308", "-1e308*10π"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTheta(in)
			assert.ErrorIs(t, err, sim.ErrMissingParameter)
		})
	}
}

func TestDecodeCircuit(t *testing.T) {
	body := heredoc.Doc(`
		{
		  "qubits": 3,
		  "gates": [
		    {"type": "H", "q": 0, "t": 0, "id": 1},
		    {"type": "Q", "q": 1, "t": 0, "id": 2},
		    {"type": "CNOT", "q": 2, "t": 1, "id": 3, "controls": [0]},
		    {"type": "RX", "q": 1, "t": 2, "id": 4, "theta": "-π/2"},
		    {"type": "RZ", "q": 2, "t": 2, "id": 5, "theta": "ignored", "thetaValue": 0.25},
		    {"type": "SWAP", "q": 0, "t": 3, "id": 6, "twoQubits": [0, 2]}
		  ]
		}`)
	c, err := DecodeCircuit([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, 3, c.NumQubits)
	require.Len(t, c.Operations, 5)

	assert.Equal(t, sim.H(0), c.Operations[0])
	assert.Equal(t, sim.CNOT(0, 2), c.Operations[1])
	assert.Equal(t, sim.RX(-math.Pi/2, 1).Qubits, c.Operations[2].Qubits)
	assert.InDelta(t, -math.Pi/2, c.Operations[2].Gate.Theta, 1e-12)
	assert.Equal(t, sim.RZ(0.25, 2), c.Operations[3])
	assert.Equal(t, sim.SWAP(0, 2), c.Operations[4])
}

func TestDecodeCircuitErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		index   int
	}{
		{
			name:    "unknown tag",
			body:    `{"qubits": 1, "gates": [{"type": "Q"}, {"type": "CZ", "q": 0}]}`,
			wantErr: sim.ErrUnknownGateKind,
			index:   1,
		},
		{
			name:    "cnot without controls",
			body:    `{"qubits": 2, "gates": [{"type": "CNOT", "q": 1}]}`,
			wantErr: sim.ErrMalformedOperation,
			index:   0,
		},
		{
			name:    "swap with one qubit",
			body:    `{"qubits": 2, "gates": [{"type": "X", "q": 0}, {"type": "SWAP", "q": 0, "twoQubits": [1]}]}`,
			wantErr: sim.ErrMalformedOperation,
			index:   1,
		},
		{
			name:    "rotation without angle",
			body:    `{"qubits": 1, "gates": [{"type": "RY", "q": 0}]}`,
			wantErr: sim.ErrMissingParameter,
			index:   0,
		},
		{
			name:    "target out of range",
			body:    `{"qubits": 2, "gates": [{"type": "H", "q": 2}]}`,
			wantErr: sim.ErrMalformedOperation,
			index:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCircuit([]byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var opErr *sim.OperationError
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, tt.index, opErr.Index)
		})
	}
}

func TestDecodeCircuitReportsEveryBadGate(t *testing.T) {
	body := `{"qubits": 1, "gates": [{"type": "X", "q": 4}, {"type": "H", "q": 0}, {"type": "RX", "q": 0}]}`
	_, err := DecodeCircuit([]byte(body))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
}

func TestDecodeCircuitBadInput(t *testing.T) {
	_, err := DecodeCircuit([]byte(`{"qubits": "two"}`))
	assert.Error(t, err)

	_, err = DecodeCircuit([]byte(`{"qubits": 0, "gates": []}`))
	assert.ErrorIs(t, err, sim.ErrInvalidQubitCount)
}

func TestMarshalResult(t *testing.T) {
	c, err := sim.NewCircuit(1, sim.X(0))
	require.NoError(t, err)
	r, err := sim.Simulate(c)
	require.NoError(t, err)

	got := MarshalResult(r)
	want := `{"state_vector":[[0,0],[1,0]],"basis_vectors":["0","1"],"probabilities":[0,1],` +
		`"bloch_angles":[[3.141592653589793,0]]}`
	assert.JSONEq(t, want, string(got))
}
