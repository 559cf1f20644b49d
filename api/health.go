package api

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oqtopus-team/quantum-emulator/common"
	"github.com/oqtopus-team/quantum-emulator/core"
)

const (
	HealthServerName = "grpc_health"
	ServiceName      = "quantum-emulator"

	defaultHealthPort    = "50051"
	defaultRefreshPeriod = 10 * time.Second
)

type HealthServerParams struct {
	Host          string        `toml:"host"`
	Port          string        `toml:"port"`
	RefreshPeriod time.Duration `toml:"refresh_period"`
}

// HealthServer answers grpc.health.v1.Health. The emulator is SERVING while
// its device is available.
type HealthServer struct {
	params *HealthServerParams

	sc       *core.SystemComponents
	health   *health.Server
	server   *grpc.Server
	listener net.Listener

	done     chan struct{}
	stopOnce sync.Once
}

func (h *HealthServer) GetEmptyParams() interface{} {
	return &HealthServerParams{
		Host:          defaultHost,
		Port:          defaultHealthPort,
		RefreshPeriod: defaultRefreshPeriod,
	}
}

func (h *HealthServer) SetParams(p interface{}) error {
	params, ok := p.(*HealthServerParams)
	if !ok {
		return fmt.Errorf("unexpected params type %T", p)
	}
	if params.RefreshPeriod <= 0 {
		return fmt.Errorf("refresh_period must be positive, got %v", params.RefreshPeriod)
	}
	h.params = params
	return nil
}

func (h *HealthServer) Setup() error {
	if h.params == nil {
		if err := h.SetParams(h.GetEmptyParams()); err != nil {
			return err
		}
	}
	h.sc = core.GetSystemComponents()
	if h.sc == nil {
		return fmt.Errorf("system components is not initialized")
	}
	addr, err := common.ValidAddress(h.params.Host, h.params.Port)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	h.listener = listener
	h.health = health.NewServer()
	h.server = grpc.NewServer()
	healthpb.RegisterHealthServer(h.server, h.health)
	h.done = make(chan struct{})
	h.refresh()
	zap.L().Info(fmt.Sprintf("gRPC health listens on %s", listener.Addr()))
	return nil
}

func (h *HealthServer) Addr() string {
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

func (h *HealthServer) Serve() error {
	go h.watch()
	return h.server.Serve(h.listener)
}

func (h *HealthServer) Shutdown() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.health.Shutdown()
		h.server.GracefulStop()
	})
}

func (h *HealthServer) watch() {
	t := time.NewTicker(h.params.RefreshPeriod)
	defer t.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-t.C:
			h.refresh()
		}
	}
}

func (h *HealthServer) refresh() {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if di := h.sc.GetDeviceInfo(); di != nil && di.Status == core.Available {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}
