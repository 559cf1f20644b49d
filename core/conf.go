package core

type Conf struct {
	Version              string `long:"version" description:"version of the emulator" env:"QEMU_VERSION"`
	DevMode              bool   `long:"dev-mode" description:"run in dev mode" env:"QEMU_DEV_MODE"`
	DisableStdoutLog     bool   `long:"disable-stdout-log" description:"do not log in standard output" env:"QEMU_DISABLE_STDOUT_LOG"`
	EnableFileLog        bool   `long:"enable-file-log" description:"enable log in file" env:"QEMU_ENABLE_FILE_LOG"`
	LogDir               string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"QEMU_LOG_DIR"`
	LogLevel             string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"QEMU_LOG_LEVEL"`
	LogRotationMaxDays   int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"QEMU_LOG_ROTATION_MAX_DAYS"`
	QueueMaxSize         int    `long:"queue-max-size" description:"queue max size" default:"100" env:"QEMU_QUEUE_MAX_SIZE"`
	QueueRefillThreshold int    `long:"queue-refill-threshold" description:"queue refill threshold" default:"10" env:"QEMU_QUEUE_REFILL_THRESHOLD"`
	Workers              int    `long:"workers" description:"number of jobs simulated at the same time" default:"2" env:"QEMU_WORKERS"`
	HTTPHost             string `long:"http-host" description:"HTTP API listen host" default:"0.0.0.0" env:"QEMU_HTTP_HOST"`
	HTTPPort             string `long:"http-port" description:"HTTP API listen port" default:"8000" env:"QEMU_HTTP_PORT"`
	StaticDir            string `long:"static-dir" description:"directory holding index.html of the circuit editor" default:"./static" env:"QEMU_STATIC_DIR"`
	SettingPath          string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"QEMU_SETTING_PATH"`
}
