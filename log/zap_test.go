//go:build unit
// +build unit

package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oqtopus-team/quantum-emulator/core"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{in: "debug", want: zapcore.DebugLevel},
		{in: "info", want: zapcore.InfoLevel},
		{in: "warn", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "", want: zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewZapLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewZapLogger(&core.Conf{
		DisableStdoutLog:   true,
		EnableFileLog:      true,
		LogDir:             dir,
		LogLevel:           "warn",
		LogRotationMaxDays: 1,
	})
	require.Nil(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	files, err := filepath.Glob(filepath.Join(dir, "emulator-*.log"))
	require.Nil(t, err)
	require.Len(t, files, 1)
	blob, err := os.ReadFile(files[0])
	require.Nil(t, err)
	assert.Contains(t, string(blob), `"msg":"shown"`)
	assert.Contains(t, string(blob), `"timestamp"`)
	assert.NotContains(t, string(blob), "hidden")
}

func TestMakeRotatorErrors(t *testing.T) {
	_, err := makeRotator(filepath.Join(t.TempDir(), "missing"), 1)
	assert.ErrorContains(t, err, "is not found")

	f := filepath.Join(t.TempDir(), "file")
	require.Nil(t, os.WriteFile(f, nil, 0o644))
	_, err = makeRotator(f, 1)
	assert.EqualError(t, err, f+" is not a directory")
}
