package core

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/oqtopus-team/quantum-emulator/sim"
)

const MockMaxQubits int = 4
const MockMaxGates int = 20
const validateErrorMessage string = "circuit is rejected by the device"

// UnimplementedJob does nothing in every phase. Tests embed it and override
// the phases they care about.
type UnimplementedJob struct {
	jobData    *JobData
	jobContext *JobContext
}

func (j *UnimplementedJob) New(jd *JobData, jc *JobContext) Job {
	return &UnimplementedJob{
		jobData:    jd,
		jobContext: jc,
	}
}

func (j *UnimplementedJob) PreProcess() {}

func (j *UnimplementedJob) Process() {}

func (j *UnimplementedJob) PostProcess() {}

func (j *UnimplementedJob) IsFinished() bool {
	return j.JobData().Status == SUCCEEDED || j.JobData().Status == FAILED
}

func (j *UnimplementedJob) JobData() *JobData {
	return j.jobData
}

func (j *UnimplementedJob) JobType() string {
	return SIMULATION_JOB
}

func (j *UnimplementedJob) JobContext() *JobContext {
	return j.jobContext
}

func (j *UnimplementedJob) Clone() Job {
	cloned := &UnimplementedJob{
		jobData:    j.jobData.Clone(),
		jobContext: j.jobContext,
	}
	return cloned
}

type UnimplementedQPU struct{}

func (u *UnimplementedQPU) Setup(*Conf) error {
	return nil
}

func (u *UnimplementedQPU) Send(Job) error {
	return nil
}

func (u *UnimplementedQPU) Validate(c *sim.Circuit) error {
	if c.NumQubits > MockMaxQubits {
		return fmt.Errorf("qubits(%d) is over the limit(%d)", c.NumQubits, MockMaxQubits)
	}
	if len(c.Operations) > MockMaxGates {
		return fmt.Errorf("gates(%d) is over the limit(%d)", len(c.Operations), MockMaxGates)
	}
	return nil
}

func (u *UnimplementedQPU) GetDeviceInfo() *DeviceInfo {
	return &DeviceInfo{
		DeviceName:     "unimplementedQPU",
		ProviderName:   "test",
		Type:           "simulator",
		Status:         Available,
		MaxQubits:      MockMaxQubits,
		MaxGates:       MockMaxGates,
		SupportedGates: []string{"X", "H", "CNOT"},
	}
}

type validateErrorQPUForTest struct {
	UnimplementedQPU
}

func (validateErrorQPUForTest) Validate(*sim.Circuit) error {
	return fmt.Errorf(validateErrorMessage)
}

// successQPUForTest finishes every job it is sent.
type successQPUForTest struct {
	UnimplementedQPU
}

func (successQPUForTest) Send(j Job) error {
	j.JobData().Status = SUCCEEDED
	return nil
}

type unimplementedDB struct {
	innerJobIDSet map[string]struct{}
}

func (u *unimplementedDB) Setup(DBChan, *Conf) error {
	u.innerJobIDSet = make(map[string]struct{})
	return nil
}
func (u *unimplementedDB) Insert(Job) error { return nil }
func (u *unimplementedDB) Get(jobID string) (Job, error) {
	return nil, fmt.Errorf("failed to find %s", jobID)
}
func (u *unimplementedDB) Update(Job) error      { return nil }
func (u *unimplementedDB) Delete(string) error   { return nil }
func (u *unimplementedDB) Count() map[Status]int { return map[Status]int{} }
func (u *unimplementedDB) AddToInnerJobIDSet(jobID string) {
	u.innerJobIDSet[jobID] = struct{}{}
}
func (u *unimplementedDB) RemoveFromInnerJobIDSet(jobID string) {
	delete(u.innerJobIDSet, jobID)
}
func (u *unimplementedDB) ExistInInnerJobIDSet(jobID string) bool {
	_, ok := u.innerJobIDSet[jobID]
	return ok
}

type successDBForTest struct {
	unimplementedDB
}

func (successDBForTest) Get(jobID string) (Job, error) {
	return &UnimplementedJob{
		jobData: &JobData{
			ID:     jobID,
			Status: RUNNING,
			Result: NewResult(),
		},
	}, nil
}

type unimplementedScheduler struct{}

func (u *unimplementedScheduler) Setup(*Conf) error           { return nil }
func (u *unimplementedScheduler) Start() error                { return nil }
func (u *unimplementedScheduler) HandleJob(_ Job)             {}
func (u *unimplementedScheduler) GetCurrentQueueSize() int    { return 0 }
func (u *unimplementedScheduler) IsOverRefillThreshold() bool { return false }

func SCWithUnimplementedContainer() *SystemComponents {
	c := dig.New()
	c.Provide(func() QPUManager { return &successQPUForTest{} })
	c.Provide(func() DBManager { return &successDBForTest{} })
	c.Provide(func() Scheduler { return &unimplementedScheduler{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{})
	return s
}

func SCWithValidateErrorContainer() *SystemComponents {
	c := dig.New()
	c.Provide(func() QPUManager { return &validateErrorQPUForTest{} })
	c.Provide(func() DBManager { return &successDBForTest{} })
	c.Provide(func() Scheduler { return &unimplementedScheduler{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{})
	return s
}

func SCWithDBContainer() *SystemComponents {
	c := dig.New()
	c.Provide(func() QPUManager { return &successQPUForTest{} })
	c.Provide(func() DBManager { return &MemoryDB{} })
	c.Provide(func() Scheduler { return &unimplementedScheduler{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{})
	return s
}

func SCWithScheduler(sc Scheduler) *SystemComponents {
	return SCWithQPUAndScheduler(&successQPUForTest{}, sc)
}

// SCWithQPUAndScheduler wires a real MemoryDB between the given QPU and
// scheduler.
func SCWithQPUAndScheduler(q QPUManager, sc Scheduler) *SystemComponents {
	c := dig.New()
	c.Provide(func() QPUManager { return q })
	c.Provide(func() DBManager { return &MemoryDB{} })
	c.Provide(func() Scheduler { return sc })
	s := NewSystemComponents(c)
	s.Setup(&Conf{QueueMaxSize: 1000, QueueRefillThreshold: 10, Workers: 2})
	return s
}
