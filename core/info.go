package core

import (
	"fmt"

	"go.uber.org/zap"
)

// NoVersion is reported when neither the build nor the config names a version.
const NoVersion = "no_version_info"

// Version is resolved once at start-up by SetVersion.
var Version string

// SetVersion prefers the version linked in at build time over the config.
func SetVersion(c *Conf, versionByBuildFlag string) {
	switch {
	case versionByBuildFlag != "":
		Version = versionByBuildFlag
	case c.Version != "":
		Version = c.Version
	default:
		Version = NoVersion
	}
	zap.L().Info(fmt.Sprintf("Version is %s", Version))
}

type NonSecretConf struct {
	DevMode              bool   `json:"dev_mode"`
	DisableStdoutLog     bool   `json:"disable_stdout_log"`
	EnableFileLog        bool   `json:"enable_file_log"`
	LogDir               string `json:"log_dir"`
	LogLevel             string `json:"log_level"`
	LogRotationMaxDays   int    `json:"log_rotation_max_days"`
	QueueMaxSize         int    `json:"queue_max_size"`
	QueueRefillThreshold int    `json:"queue_refill_threshold"`
	Workers              int    `json:"workers"`
	HTTPHost             string `json:"http_host"`
	HTTPPort             string `json:"http_port"`
	StaticDir            string `json:"static_dir"`
	SettingPath          string `json:"setting_path"`
}

// Info is what the emulator reports about itself at /info.
type Info struct {
	Version string         `json:"version"`
	Conf    *NonSecretConf `json:"conf"`
}

var CurrentInfo *Info

func SetInfo(c *Conf) {
	conf := &NonSecretConf{
		DevMode:              c.DevMode,
		DisableStdoutLog:     c.DisableStdoutLog,
		EnableFileLog:        c.EnableFileLog,
		LogDir:               c.LogDir,
		LogLevel:             c.LogLevel,
		LogRotationMaxDays:   c.LogRotationMaxDays,
		QueueMaxSize:         c.QueueMaxSize,
		QueueRefillThreshold: c.QueueRefillThreshold,
		Workers:              c.Workers,
		HTTPHost:             c.HTTPHost,
		HTTPPort:             c.HTTPPort,
		StaticDir:            c.StaticDir,
		SettingPath:          c.SettingPath,
	}

	CurrentInfo = &Info{
		Version: Version,
		Conf:    conf,
	}
}
