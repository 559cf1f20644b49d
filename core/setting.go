package core

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/oqtopus-team/quantum-emulator/common"
)

var globalSetting *Setting

// Setting holds the undecoded [com.*] tables of the setting file. Each
// component decodes its own table into its own struct.
type Setting struct {
	ComponentSetting map[string]toml.Primitive `toml:"com,omitempty"`

	meta toml.MetaData
}

func newSetting() *Setting {
	return &Setting{
		ComponentSetting: make(map[string]toml.Primitive),
	}
}

func ResetSetting() {
	globalSetting = newSetting()
}

func ParseSettingFromPath(settingsPath string) error {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read setting file/reason:%s", err))
		return err
	}
	if globalSetting == nil {
		ResetSetting()
	}
	return globalSetting.parseSetting(tomlString)
}

func ParseSettingFromString(tomlString string) error {
	if globalSetting == nil {
		ResetSetting()
	}
	return globalSetting.parseSetting(tomlString)
}

func GetGlobalSetting() *Setting {
	return globalSetting
}

// DecodeComponentSetting decodes [com.<name>] into out. Fields absent from
// the file keep the values out already holds. It reports whether the table
// exists.
func DecodeComponentSetting(name string, out interface{}) (bool, error) {
	if globalSetting == nil {
		zap.L().Debug("Setting is not initialized")
		return false, nil
	}
	return globalSetting.decodeComponent(name, out)
}

func (s *Setting) decodeComponent(name string, out interface{}) (bool, error) {
	prim, ok := s.ComponentSetting[name]
	if !ok {
		return false, nil
	}
	if err := s.meta.PrimitiveDecode(prim, out); err != nil {
		zap.L().Error(fmt.Sprintf("failed to decode setting of %s/reason:%s", name, err))
		return true, err
	}
	return true, nil
}

func (s *Setting) parseSetting(tomlString string) error {
	meta, err := toml.Decode(tomlString, s)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse setting/reason:%s", err))
		return err
	}
	s.meta = meta
	keys := make([]string, 0, len(s.ComponentSetting))
	for k := range s.ComponentSetting {
		keys = append(keys, k)
	}
	zap.L().Debug(fmt.Sprintf("component settings found:%v", keys))
	return nil
}
