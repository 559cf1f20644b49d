package core

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/oklog/run"
	"go.uber.org/zap"

	"github.com/oqtopus-team/quantum-emulator/common"
)

var runContext *RunContext

const (
	PERIODIC_TASKS = "periodic_tasks"
	API_SERVERS    = "api_servers"

	defaultPeriod = time.Minute
)

type PeriodicTaskImplMap map[string]PeriodicTaskImpl
type APIServerImplMap map[string]APIServerImpl

type PeriodicTaskMap map[string]*PeriodicTask
type APIServerMap map[string]*APIServer

type ImplMaps struct {
	PeriodicTaskImplMap PeriodicTaskImplMap
	APIServerImplMap    APIServerImplMap
}

type RunnerImpl interface {
	// GetEmptyParams returns a pointer the [params] table is decoded into.
	GetEmptyParams() interface{}
	SetParams(interface{}) error
	Setup() error
}

type RunContext struct {
	*run.Group
	context.Context

	settingsPath string

	PeriodicTasks PeriodicTaskMap
	APIServers    APIServerMap
}

// runnerEntry is one [run_group.<kind>.<name>] table.
type runnerEntry struct {
	Period time.Duration  `toml:"period"`
	Params toml.Primitive `toml:"params"`
}

type runGroupSetting struct {
	RunGroup map[string]map[string]runnerEntry `toml:"run_group"`
}

func NewRunContext() *RunContext {
	return &RunContext{
		Group:         &run.Group{},
		Context:       context.Background(),
		PeriodicTasks: make(PeriodicTaskMap),
		APIServers:    make(APIServerMap),
	}
}

func NewRunContextWithSettingPath(settingsPath string, im *ImplMaps) (*RunContext, error) {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read settings file/reason:%s", err))
		return nil, err
	}
	rc, err := NewRunContextFromString(tomlString, im)
	if err != nil {
		return nil, err
	}
	rc.settingsPath = settingsPath
	return rc, nil
}

// NewRunContextFromString builds the run group declared under [run_group].
// Every declared runner must have an implementation in im; it is given its
// params, set up and added to the group.
func NewRunContextFromString(tomlString string, im *ImplMaps) (*RunContext, error) {
	s := &runGroupSetting{}
	meta, err := toml.Decode(tomlString, s)
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to decode settings. Reason:%s", err))
		return nil, err
	}
	rc := NewRunContext()
	for kind, entries := range s.RunGroup {
		switch kind {
		case PERIODIC_TASKS:
			impls, err := configureRunners(kind, entries, im.PeriodicTaskImplMap, meta)
			if err != nil {
				return nil, err
			}
			for name, impl := range impls {
				period := entries[name].Period
				if period <= 0 {
					period = defaultPeriod
				}
				t := &PeriodicTask{Period: period, PeriodicTaskImpl: impl}
				if err := rc.AddPeriodicTask(t, name); err != nil {
					return nil, err
				}
				rc.PeriodicTasks[name] = t
			}
		case API_SERVERS:
			impls, err := configureRunners(kind, entries, im.APIServerImplMap, meta)
			if err != nil {
				return nil, err
			}
			for name, impl := range impls {
				as := &APIServer{APIServerImpl: impl}
				if err := rc.AddAPIServer(as, name); err != nil {
					return nil, err
				}
				rc.APIServers[name] = as
			}
		default:
			msg := fmt.Sprintf("Unknown run group type. Group:%s", kind)
			zap.L().Error(msg)
			return nil, fmt.Errorf("%s", msg)
		}
	}
	zap.L().Info(fmt.Sprintf("Successfully initialized RunContext. periodic tasks:%d, api servers:%d",
		len(rc.PeriodicTasks), len(rc.APIServers)))
	return rc, nil
}

func configureRunners[I RunnerImpl](kind string, entries map[string]runnerEntry,
	implMap map[string]I, meta toml.MetaData) (map[string]I, error) {
	configured := make(map[string]I)
	for name, entry := range entries {
		impl, ok := implMap[name]
		if !ok {
			msg := fmt.Sprintf("failed to find %s implementation of %s", name, kind)
			zap.L().Error(msg)
			return nil, fmt.Errorf("%s", msg)
		}
		params := impl.GetEmptyParams()
		if meta.IsDefined("run_group", kind, name, "params") {
			if err := meta.PrimitiveDecode(entry.Params, params); err != nil {
				zap.L().Error(fmt.Sprintf("failed to decode params/name:%s/reason:%s", name, err))
				return nil, err
			}
		}
		if err := impl.SetParams(params); err != nil {
			zap.L().Error(fmt.Sprintf("failed to set parameters to Impl/name:%s/reason:%s", name, err))
			return nil, err
		}
		if err := impl.Setup(); err != nil {
			zap.L().Error(fmt.Sprintf("failed to setup/name:%s/reason:%s", name, err))
			return nil, err
		}
		zap.L().Debug(fmt.Sprintf("configured %s/%s", kind, name))
		configured[name] = impl
	}
	return configured, nil
}

func GetRunContext() *RunContext {
	return runContext
}

func SetRunContext(rc *RunContext) {
	runContext = rc
}

type PeriodicTask struct {
	Period time.Duration
	PeriodicTaskImpl
}

type PeriodicTaskImpl interface {
	RunnerImpl
	RequirePeriodUpdate() (ok bool, duration time.Duration)
	Task()
	Cleanup()
}

type DefaultTaskImpl struct{}

func (v *DefaultTaskImpl) Setup() error {
	return nil
}

func (v *DefaultTaskImpl) GetEmptyParams() interface{} {
	return &struct{}{}
}

func (v *DefaultTaskImpl) SetParams(p interface{}) error {
	return nil
}

func (v *DefaultTaskImpl) RequirePeriodUpdate() (bool, time.Duration) {
	return false, 0
}

func (v *DefaultTaskImpl) Task() {}

func (v *DefaultTaskImpl) Cleanup() {}

func (rc *RunContext) AddPeriodicTask(t *PeriodicTask, taskName string) error {
	if t.Period <= 0 {
		return fmt.Errorf("period of %s must be positive, got %v", taskName, t.Period)
	}
	ctx, cancel := context.WithCancel(rc.Context)
	lastPeriod := t.Period
	rc.Group.Add(
		func() error {
			ticker := time.NewTicker(t.Period)
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/Start]", taskName))
			t.PeriodicTaskImpl.Task()
			for {
				select {
				case <-ctx.Done():
					zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cleaning up periodic task", taskName))
					ticker.Stop()
					t.PeriodicTaskImpl.Cleanup()
					zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cleaned up periodic task", taskName))
					return ctx.Err()
				case <-ticker.C:
					t.PeriodicTaskImpl.Task()
					ok, newPeriod := t.RequirePeriodUpdate()
					if ok && newPeriod > 0 && newPeriod != lastPeriod {
						zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/ResetPeriod]Resetting periodic task. from %v to %v",
							taskName, lastPeriod, newPeriod))
						ticker.Reset(newPeriod)
						lastPeriod = newPeriod
					}
				}
			}
		},
		func(error) {
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cancelling periodic task", taskName))
			cancel()
		},
	)
	return nil
}

type APIServer struct {
	APIServerImpl
}

type APIServerImpl interface {
	RunnerImpl
	// Serve blocks until the server stops.
	Serve() error
	Shutdown()
}

func NewAPIServer(impl APIServerImpl) *APIServer {
	return &APIServer{
		APIServerImpl: impl,
	}
}

func (rc *RunContext) AddAPIServer(s *APIServer, serverName string) error {
	rc.Group.Add(
		func() error {
			zap.L().Info(fmt.Sprintf("[APIServer/%s/Start]", serverName))
			if err := s.Serve(); err != nil {
				zap.L().Error(fmt.Sprintf("[APIServer/%s/Error]failed to start api server/reason:%s",
					serverName, err.Error()))
				return err
			}
			return nil
		},
		func(error) {
			zap.L().Info(fmt.Sprintf("[APIServer/%s/TearDown]shutting down api server", serverName))
			s.Shutdown()
			zap.L().Info(fmt.Sprintf("[APIServer/%s/TearDown]shut down api server", serverName))
		},
	)
	return nil
}
