package qpu

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-openapi/strfmt"
	"go.uber.org/zap"

	"github.com/oqtopus-team/quantum-emulator/core"
	"github.com/oqtopus-team/quantum-emulator/sim"
)

const SimulatorType = "simulator"

var ErrCircuitTooLarge = errors.New("circuit exceeds the device limits")

// SimulatorQPU runs circuits on the state vector simulator.
type SimulatorQPU struct {
	deviceSetting *DeviceSetting
}

func (s *SimulatorQPU) Setup(conf *core.Conf) error {
	zap.L().Debug("setting up simulator QPU")
	ds, err := LoadDeviceSetting()
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to load the simulator setting/reason:%s", err))
		return err
	}
	s.deviceSetting = ds
	zap.L().Info(fmt.Sprintf("simulator QPU %s is ready. max_qubits:%d, max_gates:%d",
		ds.DeviceName, ds.MaxQubits, ds.MaxGates))
	return nil
}

func (s *SimulatorQPU) Validate(c *sim.Circuit) error {
	ds := s.setting()
	if c.NumQubits > ds.MaxQubits {
		return errors.Wrapf(ErrCircuitTooLarge, "qubits(%d) is over the limit(%d)", c.NumQubits, ds.MaxQubits)
	}
	if len(c.Operations) > ds.MaxGates {
		return errors.Wrapf(ErrCircuitTooLarge, "gates(%d) is over the limit(%d)", len(c.Operations), ds.MaxGates)
	}
	return nil
}

// Send simulates the circuit of the job and stores the result on it. A
// failed simulation leaves the job FAILED with the reason as its message.
func (s *SimulatorQPU) Send(j core.Job) error {
	jd := j.JobData()
	zap.L().Info("starting simulation of Job ID:" + jd.ID)
	if jd.Circuit == nil {
		err := fmt.Errorf("job(%s) has no circuit", jd.ID)
		core.SetFailureWithError(j, err)
		return err
	}
	if err := s.Validate(jd.Circuit); err != nil {
		core.SetFailureWithError(j, err)
		return err
	}
	start := time.Now()
	res, err := sim.Simulate(jd.Circuit)
	elapsed := time.Since(start)
	if err != nil {
		zap.L().Info(fmt.Sprintf("failed to simulate job(%s)/reason:%s", jd.ID, err))
		core.SetFailureWithError(j, err)
		return err
	}
	if jd.Result == nil {
		jd.Result = core.NewResult()
	}
	jd.Result.Simulation = res
	jd.Result.ExecutionTime = elapsed
	jd.Status = core.SUCCEEDED
	jd.Ended = strfmt.DateTime(time.Now())
	zap.L().Debug(fmt.Sprintf("Job ID:%s is simulated in %v/result:%s", jd.ID, elapsed, jd.Result.ToString()))
	return nil
}

func (s *SimulatorQPU) GetDeviceInfo() *core.DeviceInfo {
	ds := s.setting()
	return &core.DeviceInfo{
		DeviceName:     ds.DeviceName,
		ProviderName:   ds.ProviderName,
		Type:           SimulatorType,
		Status:         core.Available,
		MaxQubits:      ds.MaxQubits,
		MaxGates:       ds.MaxGates,
		SupportedGates: ds.supportedGates(),
	}
}

func (s *SimulatorQPU) setting() *DeviceSetting {
	if s.deviceSetting == nil {
		return NewDeviceSetting()
	}
	return s.deviceSetting
}
