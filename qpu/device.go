package qpu

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oqtopus-team/quantum-emulator/core"
	"github.com/oqtopus-team/quantum-emulator/sim"
)

const (
	SimulatorSettingName = "simulator"

	DefaultDeviceName   = "QuantumEmulator"
	DefaultProviderName = "oqtopus"
	DefaultMaxQubits    = 10
	DefaultMaxGates     = 1000
)

// DeviceSetting is the [com.simulator] table of the setting file.
type DeviceSetting struct {
	DeviceName   string `toml:"device_name"`
	ProviderName string `toml:"provider_name"`
	MaxQubits    int    `toml:"max_qubits"`
	MaxGates     int    `toml:"max_gates"`
}

func NewDeviceSetting() *DeviceSetting {
	return &DeviceSetting{
		DeviceName:   DefaultDeviceName,
		ProviderName: DefaultProviderName,
		MaxQubits:    DefaultMaxQubits,
		MaxGates:     DefaultMaxGates,
	}
}

// LoadDeviceSetting reads [com.simulator] from the global setting. Missing
// keys keep their defaults.
func LoadDeviceSetting() (*DeviceSetting, error) {
	ds := NewDeviceSetting()
	found, err := core.DecodeComponentSetting(SimulatorSettingName, ds)
	if err != nil {
		return nil, err
	}
	if !found {
		zap.L().Info(fmt.Sprintf("no [com.%s] setting, using defaults", SimulatorSettingName))
	}
	if err := ds.validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func (d *DeviceSetting) validate() error {
	if d.MaxQubits < 1 {
		return fmt.Errorf("max_qubits must be positive, got %d", d.MaxQubits)
	}
	if d.MaxGates < 0 {
		return fmt.Errorf("max_gates must not be negative, got %d", d.MaxGates)
	}
	return nil
}

func (d *DeviceSetting) supportedGates() []string {
	kinds := sim.GateKinds()
	gates := make([]string, 0, len(kinds))
	for _, k := range kinds {
		gates = append(gates, k.String())
	}
	return gates
}
