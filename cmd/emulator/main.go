package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"
	"github.com/oklog/run"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/oqtopus-team/quantum-emulator/api"
	"github.com/oqtopus-team/quantum-emulator/core"
	"github.com/oqtopus-team/quantum-emulator/log"
	"github.com/oqtopus-team/quantum-emulator/qpu"
	"github.com/oqtopus-team/quantum-emulator/scheduler"
	"github.com/oqtopus-team/quantum-emulator/simulation"
)

var versionByBuildFlag string
var parser *flags.Parser
var emulator *Emulator

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Println("Found \".env\" file. Environment variables are preferred, " +
			"but non-conflicting variables are those in the \".env\" file.")
	}
	emulator = &Emulator{}
	setParser(emulator)
}

type Emulator struct {
	DIContainerParameters *DIContainerParameters
	Conf                  *core.Conf
}

type DIContainerParameters struct {
	DBManager string `long:"db" description:"db" default:"memory" choice:"memory" env:"QEMU_DB_MANAGER_TYPE"`
	QPU       string `long:"qpu" description:"qpu-type" default:"simulator" choice:"simulator" env:"QEMU_QPU_TYPE"`
	Scheduler string `long:"scheduler" description:"scheduler-type" default:"normal" choice:"normal" env:"QEMU_SCHEDULER_TYPE"`
}

func setParser(e *Emulator) {
	parser = flags.NewParser(e, flags.Default)
	parser.ShortDescription = "quantum emulator"
	parser.LongDescription = "state vector simulation of small quantum circuits over HTTP."
	parser.AddCommand("serve", "start the emulator", "serve the HTTP API until interrupted", newServeCmd())
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Printf("failed to parse flags, because %s\n", err)
		}
		os.Exit(code)
	}
}

func (e *Emulator) provideDIContainer() (*dig.Container, error) {
	c := dig.New()
	err := c.Provide(func() (core.QPUManager, error) {
		switch e.DIContainerParameters.QPU {
		case "simulator":
			return &qpu.SimulatorQPU{}, nil
		default:
			return nil, fmt.Errorf("%s is an unknown QPU", e.DIContainerParameters.QPU)
		}
	})
	if err != nil {
		return nil, err
	}
	err = c.Provide(func() (core.Scheduler, error) {
		switch e.DIContainerParameters.Scheduler {
		case "normal":
			return &scheduler.NormalScheduler{}, nil
		default:
			return nil, fmt.Errorf("%s is an unknown scheduler", e.DIContainerParameters.Scheduler)
		}
	})
	if err != nil {
		return nil, err
	}
	err = c.Provide(func() (core.DBManager, error) {
		switch e.DIContainerParameters.DBManager {
		case "memory":
			return &core.MemoryDB{}, nil
		default:
			return nil, fmt.Errorf("%s is an unknown DB", e.DIContainerParameters.DBManager)
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (e *Emulator) startCore(conf *core.Conf) error {
	if _, err := core.NewJobManager(&simulation.SimulationJob{}); err != nil {
		return err
	}
	if err := core.GetSystemComponents().StartContainer(); err != nil {
		return err
	}
	core.SetInfo(conf)
	return nil
}

func main() {
	parse()
}

type serveCmd struct{}

func newServeCmd() *serveCmd {
	return &serveCmd{}
}

func (c *serveCmd) Execute(args []string) error {
	logger, err := log.SetZap(emulator.Conf)
	if err != nil {
		fmt.Printf("Failed to setup logger. Reason:%s\n", err)
		return err
	}
	defer logger.Sync()

	core.ResetSetting()
	if err := core.ParseSettingFromPath(emulator.Conf.SettingPath); err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse settings/reason:%s", err))
		return err
	}

	s, err := setupSystemComponents(emulator.Conf)
	if err != nil {
		return err
	}
	defer s.TearDown()

	// job manager and scheduler must be up before the API servers are set up
	if err := emulator.startCore(emulator.Conf); err != nil {
		zap.L().Error(fmt.Sprintf("failed to start core/reason:%s", err))
		return err
	}

	im := &core.ImplMaps{
		PeriodicTaskImplMap: core.PeriodicTaskImplMap{
			log.VersionLogTaskName: &log.VersionLogTaskImpl{},
			log.MetricsLogTaskName: &log.MetricsLogTaskImpl{},
		},
		APIServerImplMap: core.APIServerImplMap{
			api.HTTPServerName:   api.NewServer(emulator.Conf),
			api.HealthServerName: &api.HealthServer{},
		},
	}
	rc, err := core.NewRunContextWithSettingPath(emulator.Conf.SettingPath, im)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to setup run context/reason:%s", err.Error()))
		return err
	}

	zap.L().Debug("Setting up run-group")
	c.setupRunGroup(rc)

	if err := rc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "execution error:%v\n", err)
		os.Exit(1)
	}
	return nil
}

func (c *serveCmd) setupRunGroup(rc *core.RunContext) {
	rc.Add(
		run.SignalHandler(
			rc.Context,
			os.Interrupt))
	core.SetRunContext(rc)
}

func setupSystemComponents(conf *core.Conf) (*core.SystemComponents, error) {
	core.SetVersion(conf, versionByBuildFlag)
	zap.L().Debug(fmt.Sprintf("Providing DI Container with parameters %+v", emulator.DIContainerParameters))

	container, err := emulator.provideDIContainer()
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up DI-Container. Reason:%s", err.Error()))
		return nil, err
	}
	zap.L().Debug("Setting up System Components")
	s := core.NewSystemComponents(container)
	if err := s.Setup(conf); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up Container. Reason:%s", err.Error()))
		return nil, err
	}
	return s, nil
}
