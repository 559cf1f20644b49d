//go:build unit
// +build unit

package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqtopus-team/quantum-emulator/core"
)

func todayMetricsFile(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("metrics-%s.log", time.Now().Format("2006-01-02")))
}

func TestMetricsLogTask(t *testing.T) {
	s := core.SCWithDBContainer()
	defer s.TearDown()
	err := s.Invoke(func(d core.DBManager) error {
		for i, st := range []core.Status{core.READY, core.READY, core.SUCCEEDED} {
			jd := core.NewJobData()
			jd.ID = fmt.Sprintf("job-%d", i)
			jd.Status = st
			if err := d.Insert((&core.UnimplementedJob{}).New(jd, nil)); err != nil {
				return err
			}
		}
		return nil
	})
	require.Nil(t, err)

	dir := t.TempDir()
	m := &MetricsLogTaskImpl{}
	p := m.GetEmptyParams().(*MetricsLogParams)
	assert.Equal(t, defaultMetricsDir, p.FileDir)
	p.FileDir = dir
	require.Nil(t, m.SetParams(p))
	require.Nil(t, m.Setup())
	m.Task()
	m.Cleanup()

	blob, err := os.ReadFile(todayMetricsFile(dir))
	require.Nil(t, err)
	lines := strings.Split(strings.TrimSpace(string(blob)), "\n")
	require.Len(t, lines, 1)

	var record struct {
		Msg         string         `json:"msg"`
		QueueLength int            `json:"queue_length"`
		Jobs        map[string]int `json:"jobs"`
	}
	require.Nil(t, jsoniter.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "Metrics", record.Msg)
	assert.Equal(t, 0, record.QueueLength)
	assert.Equal(t, map[string]int{"ready": 2, "succeeded": 1}, record.Jobs)
}

func TestMetricsLogTaskSetupFailure(t *testing.T) {
	m := &MetricsLogTaskImpl{}
	require.Nil(t, m.SetParams(&MetricsLogParams{FileDir: filepath.Join(t.TempDir(), "missing")}))
	assert.NotNil(t, m.Setup())
	assert.NotNil(t, m.SetParams("dir"))

	// a task that was never set up does nothing
	m.Task()
	m.Cleanup()
}

func TestDailyLoggerAppends(t *testing.T) {
	dir := t.TempDir()
	dl := newDailyLogger(dir)
	_, err := dl.Write([]byte("first\n"))
	require.Nil(t, err)
	_, err = dl.Write([]byte("second\n"))
	require.Nil(t, err)
	require.Nil(t, dl.Close())

	blob, err := os.ReadFile(todayMetricsFile(dir))
	require.Nil(t, err)
	assert.Equal(t, "first\nsecond\n", string(blob))
}
