package simulation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oqtopus-team/quantum-emulator/core"
)

// SimulationJob runs one circuit through the QPU. It has no post-processing
// and is finished as soon as the QPU has set a terminal status.
type SimulationJob struct {
	jobData    *core.JobData
	jobContext *core.JobContext
}

func (j *SimulationJob) New(jd *core.JobData, jc *core.JobContext) core.Job {
	return &SimulationJob{
		jobData:    jd,
		jobContext: jc,
	}
}

func (j *SimulationJob) PreProcess() {
	if err := j.preProcessImpl(); err != nil {
		zap.L().Error(fmt.Sprintf("failed to pre-process a job(%s). Reason:%s",
			j.JobData().ID, err.Error()))
		core.SetFailureWithError(j, err)
	}
}

func (j *SimulationJob) preProcessImpl() error {
	jd := j.JobData()
	if jd.Circuit == nil {
		return fmt.Errorf("job(%s) has no circuit", jd.ID)
	}
	if err := jd.Circuit.Validate(); err != nil {
		return err
	}
	return core.GetSystemComponents().Invoke(
		func(q core.QPUManager) error {
			return q.Validate(jd.Circuit)
		})
}

func (j *SimulationJob) Process() {
	c := core.GetSystemComponents().Container
	err := c.Invoke(
		func(q core.QPUManager) error {
			return q.Send(j)
		})
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to send a job(%s) to QPU. Reason:%s", j.JobData().ID, err.Error()))
		if !j.JobData().Status.IsTerminal() {
			core.SetFailureWithError(j, err)
		}
	}
	zap.L().Debug(fmt.Sprintf("finished to process a job(%s)/status:%s", j.JobData().ID, j.JobData().Status))
}

func (j *SimulationJob) PostProcess() {}

func (j *SimulationJob) IsFinished() bool {
	return j.JobData().Status == core.SUCCEEDED || j.JobData().Status == core.FAILED
}

func (j *SimulationJob) JobData() *core.JobData {
	return j.jobData
}

func (j *SimulationJob) JobType() string {
	return core.SIMULATION_JOB
}

func (j *SimulationJob) JobContext() *core.JobContext {
	return j.jobContext
}

func (j *SimulationJob) Clone() core.Job {
	return &SimulationJob{
		jobData:    j.jobData.Clone(),
		jobContext: j.jobContext,
	}
}
