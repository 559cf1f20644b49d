package log

import (
	"go.uber.org/zap"

	"github.com/oqtopus-team/quantum-emulator/core"
)

const VersionLogTaskName = "version_log"

type VersionLogTaskImpl struct {
	core.DefaultTaskImpl
}

func (v *VersionLogTaskImpl) Task() {
	zap.L().Info("Emulator version:" + core.Version)
}
