package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oqtopus-team/quantum-emulator/common"
	"github.com/oqtopus-team/quantum-emulator/core"
)

const MetricsLogTaskName = "metrics_log"
const queueLengthKeyInMetrics = "queue_length"
const jobsKeyInMetrics = "jobs"
const defaultMetricsDir = "./shares/metrics"

type MetricsLogParams struct {
	FileDir string `toml:"file_dir"`
}

type MetricsLogTaskImpl struct {
	FileDir string

	dl     *dailyLogger
	logger *slog.Logger
	sc     *core.SystemComponents

	core.DefaultTaskImpl
}

func setupMetricsLogTask(fileDir string) (*dailyLogger, error) {
	if err := common.IsDirWritable(fileDir); err != nil {
		return nil, fmt.Errorf("failed to write to %s: %w", fileDir, err)
	}
	return newDailyLogger(fileDir), nil
}

func (m *MetricsLogTaskImpl) Setup() error {
	dl, err := setupMetricsLogTask(m.FileDir)
	if err != nil {
		zap.L().Error("failed to set up metrics log task", zap.Error(err))
		return err
	}
	m.dl = dl
	m.logger = slog.New(slog.NewJSONHandler(dl, nil))
	m.sc = core.GetSystemComponents()
	return nil
}

func (m *MetricsLogTaskImpl) GetEmptyParams() interface{} {
	return &MetricsLogParams{FileDir: defaultMetricsDir}
}

func (m *MetricsLogTaskImpl) SetParams(p interface{}) error {
	mp, ok := p.(*MetricsLogParams)
	if !ok {
		msg := fmt.Errorf("failed to set params for metrics log task/params: %v", p)
		zap.L().Error(msg.Error())
		return msg
	}
	m.FileDir = mp.FileDir
	return nil
}

func (m *MetricsLogTaskImpl) Task() {
	if m.sc == nil {
		return
	}
	counts := m.sc.CountJobs()
	attrs := make([]any, 0, len(counts))
	for st, n := range counts {
		attrs = append(attrs, slog.Int(st.String(), n))
	}
	m.logger.Info(
		"Metrics",
		slog.Int(
			queueLengthKeyInMetrics,
			m.sc.GetCurrentQueueSize()),
		slog.Group(jobsKeyInMetrics, attrs...),
	)
}

func (m *MetricsLogTaskImpl) Cleanup() {
	if m.dl != nil {
		m.dl.Close()
	}
}

type dailyLogger struct {
	mu              sync.Mutex
	fileDir         string
	currentFileName string
	file            *os.File
}

func newDailyLogger(fileDir string) *dailyLogger {
	return &dailyLogger{
		fileDir: fileDir,
	}
}

func (dl *dailyLogger) Write(p []byte) (n int, err error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	fileName := fmt.Sprintf("metrics-%s.log", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(dl.fileDir, fileName)
	currentFilePath := filepath.Join(dl.fileDir, dl.currentFileName)

	if dl.file == nil || currentFilePath != filePath {
		if dl.file != nil {
			dl.file.Close()
		}
		var err error
		dl.file, err = os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return 0, err
		}
		dl.currentFileName = fileName
	}

	return dl.file.Write(p)
}

func (dl *dailyLogger) Close() error {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file != nil {
		return dl.file.Close()
	}
	return nil
}
