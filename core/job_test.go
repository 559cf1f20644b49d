//go:build unit
// +build unit

package core

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/oqtopus-team/quantum-emulator/sim"
)

func TestJobManager(t *testing.T) {
	s := SCWithUnimplementedContainer()
	defer s.TearDown()
	jm, err := NewJobManager(
		&UnimplementedJob{},
	)
	assert.Nil(t, err)
	assert.NotNil(t, jm)
	as := jm.AcceptableJobTypes()
	assert.Equal(t, len(as), 1)
	assert.Equal(t, as[0], "simulation")

	err = jm.RegisterJob(&UnimplementedJob{})
	assert.EqualError(t, err, "job:simulation is already registered")

	as = jm.AcceptableJobTypes()
	assert.Equal(t, len(as), 1)
	assert.Equal(t, as[0], "simulation")

	jc, err := NewJobContext()
	assert.Nil(t, err)

	job, err := jm.NewJobFromJobData(
		&JobData{ID: "test"},
		jc,
	)
	assert.Nil(t, err)
	assert.Equal(t, job.JobData().ID, "test")
	assert.Equal(t, job.JobData().JobType, SIMULATION_JOB)

	_, err = jm.NewJobFromJobData(&JobData{ID: "test", JobType: "sampling"}, jc)
	assert.EqualError(t, err, "job type sampling is not registered")
}

func TestNewJobFailedForDeviceValidation(t *testing.T) {
	s := SCWithValidateErrorContainer()
	defer s.TearDown()
	jm, err := NewJobManager(&UnimplementedJob{})
	assert.Nil(t, err)

	c, err := sim.NewCircuit(1, sim.H(0))
	assert.Nil(t, err)
	jc, err := NewJobContext()
	assert.Nil(t, err)
	job, err := jm.NewJobWithValidation(&JobParam{JobID: uuid.NewString(), Circuit: c}, jc)
	assert.Nil(t, job)
	assert.EqualError(t, err, validateErrorMessage)
}

func TestNewJob(t *testing.T) {
	s := SCWithDBContainer()
	defer s.TearDown()

	jm, err := NewJobManager()
	assert.Nil(t, err)
	assert.NotNil(t, jm)
	jm.RegisterJob(&UnimplementedJob{})

	bell, err := sim.NewCircuit(2, sim.H(0), sim.CNOT(0, 1))
	assert.Nil(t, err)
	wide := &sim.Circuit{NumQubits: MockMaxQubits + 1}
	long := &sim.Circuit{NumQubits: 1}
	for i := 0; i <= MockMaxGates; i++ {
		long.Operations = append(long.Operations, sim.X(0))
	}

	tests := []struct {
		name        string
		param       *JobParam
		wantError   string
		wantErrorIs error
		wantJobData *JobData
	}{
		{
			name:      "empty job id",
			param:     &JobParam{Circuit: bell},
			wantError: "jobID is empty",
		},
		{
			name:      "no circuit",
			param:     &JobParam{JobID: uuid.NewString()},
			wantError: "circuit is empty",
		},
		{
			name: "malformed circuit",
			param: &JobParam{
				JobID:   uuid.NewString(),
				Circuit: &sim.Circuit{NumQubits: 2, Operations: []sim.Operation{sim.CNOT(0, 2)}},
			},
			wantErrorIs: sim.ErrMalformedOperation,
		},
		{
			name:      "over max qubits",
			param:     &JobParam{JobID: uuid.NewString(), Circuit: wide},
			wantError: fmt.Sprintf("qubits(%d) is over the limit(%d)", MockMaxQubits+1, MockMaxQubits),
		},
		{
			name:      "over max gates",
			param:     &JobParam{JobID: uuid.NewString(), Circuit: long},
			wantError: fmt.Sprintf("gates(%d) is over the limit(%d)", MockMaxGates+1, MockMaxGates),
		},
		{
			name:  "bell pair",
			param: &JobParam{JobID: uuid.NewString(), Circuit: bell},
			wantJobData: &JobData{
				JobType: SIMULATION_JOB,
				Circuit: bell,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jc, err := NewJobContext()
			assert.Nil(t, err)
			job, err := jm.NewJobWithValidation(tt.param, jc)
			switch {
			case tt.wantError != "":
				assert.EqualError(t, err, tt.wantError)
			case tt.wantErrorIs != nil:
				assert.ErrorIs(t, err, tt.wantErrorIs)
			default:
				assert.Nil(t, err)
				tt.wantJobData.ID = tt.param.JobID
				tt.wantJobData.Result = NewResult()
				tt.wantJobData.Created = job.JobData().Created // ignore time
				assert.Equal(t, tt.wantJobData, job.JobData())
			}
		})
	}
}

func TestCloneJob(t *testing.T) {
	s := SCWithUnimplementedContainer()
	defer s.TearDown()
	jm, err := NewJobManager(&UnimplementedJob{})
	assert.Nil(t, err)

	c, err := sim.NewCircuit(1, sim.RX(0.5, 0))
	assert.Nil(t, err)
	jd := NewJobData()
	jd.ID = "test"
	jd.Circuit = c
	jc, err := NewJobContext()
	assert.Nil(t, err)
	org, err := jm.NewJobFromJobData(jd, jc)
	assert.Nil(t, err)
	cloned := org.Clone()
	assert.False(t, cloned == org)
	assert.False(t, cloned.JobData() == org.JobData(),
		"cloned.JobData()=%p, nj.JobData()=%p", cloned.JobData(), org.JobData())
	assert.Equal(t, cloned.JobData().ID, org.JobData().ID)
	assert.Equal(t, cloned.JobData().Circuit, org.JobData().Circuit)
	assert.True(t, cloned.JobContext() == org.JobContext())

	org.JobData().ID = "test2"
	assert.NotEqual(t, cloned.JobData().ID, org.JobData().ID)

	org.JobData().Status = RUNNING
	cloned.JobData().Status = SUCCEEDED
	assert.NotEqual(t, cloned.JobData().Status, org.JobData().Status)
}

func TestSetFailureWithError(t *testing.T) {
	jd := &JobData{ID: "test", Status: RUNNING}
	msg := SetFailureWithErrorToJobData(jd, fmt.Errorf("boom"))
	assert.Equal(t, "boom", msg)
	assert.Equal(t, FAILED, jd.Status)
	assert.Equal(t, "boom", jd.Result.Message)
	assert.False(t, jd.Ended.IsZero())
}
