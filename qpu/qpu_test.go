//go:build unit
// +build unit

package qpu

import (
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oqtopus-team/quantum-emulator/core"
	"github.com/oqtopus-team/quantum-emulator/sim"
)

func newTestQPU(t *testing.T, maxQubits, maxGates int) *SimulatorQPU {
	core.ResetSetting()
	t.Cleanup(core.ResetSetting)
	q := &SimulatorQPU{}
	require.Nil(t, q.Setup(&core.Conf{}))
	q.deviceSetting.MaxQubits = maxQubits
	q.deviceSetting.MaxGates = maxGates
	return q
}

func newTestJob(t *testing.T, c *sim.Circuit) core.Job {
	s := core.SCWithUnimplementedContainer()
	t.Cleanup(s.TearDown)
	jm, err := core.NewJobManager(&core.UnimplementedJob{})
	require.Nil(t, err)
	jc, err := core.NewJobContext()
	require.Nil(t, err)
	jd := core.NewJobData()
	jd.ID = "simulator-test"
	jd.Circuit = c
	jd.Status = core.RUNNING
	j, err := jm.NewJobFromJobData(jd, jc)
	require.Nil(t, err)
	return j
}

func TestSimulatorQPUValidate(t *testing.T) {
	q := newTestQPU(t, 2, 3)
	tests := []struct {
		name    string
		circuit *sim.Circuit
		wantErr string
	}{
		{
			name:    "within limits",
			circuit: &sim.Circuit{NumQubits: 2, Operations: []sim.Operation{sim.H(0), sim.CNOT(0, 1)}},
		},
		{
			name:    "too many qubits",
			circuit: &sim.Circuit{NumQubits: 3},
			wantErr: "qubits(3) is over the limit(2): circuit exceeds the device limits",
		},
		{
			name: "too many gates",
			circuit: &sim.Circuit{NumQubits: 1,
				Operations: []sim.Operation{sim.X(0), sim.X(0), sim.X(0), sim.X(0)}},
			wantErr: "gates(4) is over the limit(3): circuit exceeds the device limits",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := q.Validate(tt.circuit)
			if tt.wantErr == "" {
				assert.Nil(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
			assert.True(t, errors.Is(err, ErrCircuitTooLarge))
		})
	}
}

func TestSimulatorQPUSend(t *testing.T) {
	q := newTestQPU(t, DefaultMaxQubits, DefaultMaxGates)
	c, err := sim.NewCircuit(2, sim.H(0), sim.CNOT(0, 1))
	require.Nil(t, err)
	j := newTestJob(t, c)

	assert.Nil(t, q.Send(j))
	jd := j.JobData()
	assert.Equal(t, core.SUCCEEDED, jd.Status)
	require.NotNil(t, jd.Result.Simulation)
	assert.InDeltaSlice(t, []float64{0.5, 0, 0, 0.5}, jd.Result.Simulation.Probabilities, 1e-9)
	assert.Equal(t, []string{"00", "01", "10", "11"}, jd.Result.Simulation.BasisVectors)
	assert.GreaterOrEqual(t, jd.Result.ExecutionTime, time.Duration(0))
	assert.False(t, time.Time(jd.Ended).IsZero())
}

func TestSimulatorQPUSendLogsResult(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(obs))
	defer restore()

	q := newTestQPU(t, DefaultMaxQubits, DefaultMaxGates)
	c, err := sim.NewCircuit(1, sim.X(0))
	require.Nil(t, err)
	j := newTestJob(t, c)
	require.Nil(t, q.Send(j))

	entries := logs.FilterLevelExact(zapcore.DebugLevel).FilterMessageSnippet("is simulated in").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "Job ID:"+j.JobData().ID)
	assert.Contains(t, entries[0].Message, `"state_vector"`)
	assert.Contains(t, entries[0].Message, `"probabilities"`)
	assert.Contains(t, entries[0].Message, `"execution_time"`)
}

func TestSimulatorQPUSendFailure(t *testing.T) {
	q := newTestQPU(t, 1, DefaultMaxGates)
	tests := []struct {
		name        string
		circuit     *sim.Circuit
		wantMessage string
	}{
		{
			name:        "no circuit",
			wantMessage: "job(simulator-test) has no circuit",
		},
		{
			name:        "over the limit",
			circuit:     &sim.Circuit{NumQubits: 2},
			wantMessage: "qubits(2) is over the limit(1): circuit exceeds the device limits",
		},
		{
			name:        "invalid operation",
			circuit:     &sim.Circuit{NumQubits: 1, Operations: []sim.Operation{sim.X(3)}},
			wantMessage: "operation 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := newTestJob(t, tt.circuit)
			err := q.Send(j)
			assert.NotNil(t, err)
			assert.Equal(t, core.FAILED, j.JobData().Status)
			assert.Contains(t, j.JobData().Result.Message, tt.wantMessage)
			assert.Nil(t, j.JobData().Result.Simulation)
		})
	}
}

func TestSimulatorQPUDeviceInfo(t *testing.T) {
	q := newTestQPU(t, 5, 100)
	di := q.GetDeviceInfo()
	assert.Equal(t, DefaultDeviceName, di.DeviceName)
	assert.Equal(t, SimulatorType, di.Type)
	assert.Equal(t, core.Available, di.Status)
	assert.Equal(t, 5, di.MaxQubits)
	assert.Equal(t, 100, di.MaxGates)
	assert.Contains(t, di.SupportedGates, "CNOT")
}
