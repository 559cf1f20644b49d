//go:build unit
// +build unit

package qpu

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"

	"github.com/oqtopus-team/quantum-emulator/core"
)

func TestLoadDeviceSetting(t *testing.T) {
	tests := []struct {
		name    string
		setting string
		want    *DeviceSetting
		wantErr bool
		errMsg  string
	}{
		{
			name:    "defaults without a table",
			setting: "",
			want:    NewDeviceSetting(),
		},
		{
			name: "partial table keeps defaults",
			setting: heredoc.Doc(`
				[com.simulator]
				max_qubits = 4
			`),
			want: &DeviceSetting{
				DeviceName:   DefaultDeviceName,
				ProviderName: DefaultProviderName,
				MaxQubits:    4,
				MaxGates:     DefaultMaxGates,
			},
		},
		{
			name: "full table",
			setting: heredoc.Doc(`
				[com.simulator]
				device_name = "lab"
				provider_name = "test"
				max_qubits = 6
				max_gates = 50
			`),
			want: &DeviceSetting{
				DeviceName:   "lab",
				ProviderName: "test",
				MaxQubits:    6,
				MaxGates:     50,
			},
		},
		{
			name: "zero qubits",
			setting: heredoc.Doc(`
				[com.simulator]
				max_qubits = 0
			`),
			wantErr: true,
			errMsg:  "max_qubits must be positive, got 0",
		},
		{
			name: "wrong type",
			setting: heredoc.Doc(`
				[com.simulator]
				max_gates = "many"
			`),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core.ResetSetting()
			defer core.ResetSetting()
			assert.Nil(t, core.ParseSettingFromString(tt.setting))
			ds, err := LoadDeviceSetting()
			if tt.wantErr {
				assert.NotNil(t, err)
				if tt.errMsg != "" {
					assert.EqualError(t, err, tt.errMsg)
				}
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tt.want, ds)
		})
	}
}

func TestSupportedGates(t *testing.T) {
	assert.Equal(t,
		[]string{"X", "Y", "Z", "S", "H", "T", "RX", "RY", "RZ", "CNOT", "SWAP"},
		NewDeviceSetting().supportedGates())
}
