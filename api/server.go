// Package api serves the emulator over HTTP and reports its health over gRPC.
package api

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/oqtopus-team/quantum-emulator/common"
	"github.com/oqtopus-team/quantum-emulator/core"
	"github.com/oqtopus-team/quantum-emulator/wire"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	HTTPServerName = "http"

	defaultHost      = "0.0.0.0"
	defaultPort      = "8000"
	defaultStaticDir = "./static"
	indexFile        = "index.html"
	maxBodyBytes     = 1 << 20
	shutdownTimeout  = 5 * time.Second
)

type ServerParams struct {
	Host      string `toml:"host"`
	Port      string `toml:"port"`
	StaticDir string `toml:"static_dir"`
}

// Server is the HTTP API of the emulator. It runs as an API server of the
// run group.
type Server struct {
	defaults *ServerParams
	params   *ServerParams

	sc  *core.SystemComponents
	jm  *core.JobManager
	tel *telemetry

	listener   net.Listener
	httpServer *http.Server
}

// NewServer takes the listen address and static dir from conf. The
// [params] table of the run group overrides them.
func NewServer(conf *core.Conf) *Server {
	d := &ServerParams{Host: defaultHost, Port: defaultPort, StaticDir: defaultStaticDir}
	if conf != nil {
		if conf.HTTPHost != "" {
			d.Host = conf.HTTPHost
		}
		if conf.HTTPPort != "" {
			d.Port = conf.HTTPPort
		}
		if conf.StaticDir != "" {
			d.StaticDir = conf.StaticDir
		}
	}
	return &Server{defaults: d}
}

func (s *Server) GetEmptyParams() interface{} {
	if s.defaults == nil {
		return &ServerParams{Host: defaultHost, Port: defaultPort, StaticDir: defaultStaticDir}
	}
	p := *s.defaults
	return &p
}

func (s *Server) SetParams(p interface{}) error {
	params, ok := p.(*ServerParams)
	if !ok {
		return fmt.Errorf("unexpected params type %T", p)
	}
	s.params = params
	return nil
}

func (s *Server) Setup() error {
	if s.params == nil {
		if err := s.SetParams(s.GetEmptyParams()); err != nil {
			return err
		}
	}
	s.sc = core.GetSystemComponents()
	if s.sc == nil {
		return fmt.Errorf("system components is not initialized")
	}
	s.jm = core.GetJobManager()
	if s.jm == nil {
		return fmt.Errorf("job manager is not initialized")
	}
	tel, err := newTelemetry()
	if err != nil {
		return err
	}
	s.tel = tel
	addr, err := common.ValidAddress(s.params.Host, s.params.Port)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	zap.L().Info(fmt.Sprintf("HTTP API listens on %s", listener.Addr()))
	return nil
}

// Addr is the address the server listens on once set up.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Serve() error {
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown() {
	if s.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		zap.L().Error(fmt.Sprintf("failed to shut down HTTP API/reason:%s", err))
	}
}

// Handler returns the routes wrapped in the CORS policy of the editor:
// every origin, no credentials.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /simulate", s.simulate)
	mux.HandleFunc("POST /jobs", s.submitJob)
	mux.HandleFunc("GET /jobs/{id}", s.getJob)
	mux.HandleFunc("DELETE /jobs/{id}", s.deleteJob)
	mux.HandleFunc("GET /device", s.getDevice)
	mux.HandleFunc("GET /info", s.getInfo)
	mux.HandleFunc("GET /home", s.home)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/home", http.StatusFound)
	})
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	})
	return c.Handler(mux)
}

// simulate answers with the result record in the same request.
func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tel.start(r.Context(), "api.Simulate")
	defer span.End()

	job, status, err := s.newJob(w, r)
	if err != nil {
		failSpan(span, err, "rejected circuit")
		s.tel.record(ctx, "simulate", outcomeRejected, 0, 0)
		writeError(w, status, err)
		return
	}
	jd := job.JobData()
	span.SetAttributes(
		attribute.String("job.id", jd.ID),
		attribute.Int("circuit.qubits", jd.Circuit.NumQubits),
		attribute.Int("circuit.operations", len(jd.Circuit.Operations)),
	)
	err = s.sc.Invoke(func(q core.QPUManager) error {
		return q.Send(job)
	})
	if err != nil || jd.Status != core.SUCCEEDED {
		if err == nil {
			err = fmt.Errorf("simulation finished in %s", jd.Status)
		}
		failSpan(span, err, "simulation failed")
		s.tel.record(ctx, "simulate", outcomeFailed, jd.Circuit.NumQubits, 0)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.tel.record(ctx, "simulate", outcomeOK, jd.Circuit.NumQubits, jd.Result.ExecutionTime)
	zap.L().Debug(fmt.Sprintf("simulated circuit of %d qubit(s) in %v",
		jd.Circuit.NumQubits, jd.Result.ExecutionTime))
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		wire.EncodeResult(e, jd.Result.Simulation)
	})
}

// submitJob queues the circuit and answers before it is simulated.
func (s *Server) submitJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tel.start(r.Context(), "api.SubmitJob")
	defer span.End()

	job, status, err := s.newJob(w, r)
	if err != nil {
		failSpan(span, err, "rejected circuit")
		s.tel.record(ctx, "jobs", outcomeRejected, 0, 0)
		writeError(w, status, err)
		return
	}
	jd := job.JobData()
	jd.Status = core.READY
	span.SetAttributes(attribute.String("job.id", jd.ID))
	err = s.sc.Invoke(func(d core.DBManager) error {
		if err := d.Insert(job); err != nil {
			return err
		}
		d.AddToInnerJobIDSet(jd.ID)
		return nil
	})
	if err != nil {
		failSpan(span, err, "failed to store job")
		code := http.StatusInternalServerError
		if errors.Is(err, core.ErrorJobIDConflict) {
			code = http.StatusConflict
		}
		writeError(w, code, err)
		return
	}
	// the response is encoded before the scheduler may touch the job
	resp := jd.Clone()
	err = s.sc.Invoke(func(sc core.Scheduler) {
		sc.HandleJob(job)
	})
	if err != nil {
		failSpan(span, err, "failed to schedule job")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.tel.record(ctx, "jobs", outcomeOK, resp.Circuit.NumQubits, 0)
	zap.L().Info(fmt.Sprintf("accepted job(%s)", resp.ID))
	writeJSON(w, http.StatusAccepted, func(e *jx.Encoder) {
		encodeSubmitted(e, resp)
	})
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job := core.GetJob(id)
	if job == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("job %s is not found", id))
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeJob(e, job.JobData())
	})
}

// deleteJob forgets a finished job. Jobs still held by the scheduler are
// kept.
func (s *Server) deleteJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var held bool
	_ = s.sc.Invoke(func(d core.DBManager) {
		held = d.ExistInInnerJobIDSet(id)
	})
	if held {
		writeError(w, http.StatusConflict, fmt.Errorf("job %s is not finished", id))
		return
	}
	if !core.DeleteJob(id) {
		writeError(w, http.StatusNotFound, fmt.Errorf("job %s is not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getDevice(w http.ResponseWriter, r *http.Request) {
	di := s.sc.GetDeviceInfo()
	if di == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("device is not available"))
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeDeviceInfo(e, di)
	})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	info := core.CurrentInfo
	if info == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("info is not set"))
		return
	}
	blob, err := jsonIter.Marshal(info)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob); err != nil {
		zap.L().Info("failed to write response", zap.Error(err))
	}
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(s.params.StaticDir, indexFile)
	if _, err := common.ReadFile(path); err != nil {
		zap.L().Info(fmt.Sprintf("failed to read %s/reason:%s", path, err))
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// newJob decodes and validates the circuit of the request. The returned
// status is the one to answer with when err is not nil.
func (s *Server) newJob(w http.ResponseWriter, r *http.Request) (core.Job, int, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, err
		}
		return nil, http.StatusBadRequest, err
	}
	zap.L().Debug(fmt.Sprintf("received circuit:%s", common.PlainJsonString(string(body))))
	c, err := wire.DecodeCircuit(body)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	jc, err := core.NewJobContext()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	job, err := s.jm.NewJobWithValidation(&core.JobParam{
		JobID:   uuid.NewString(),
		Circuit: c,
		JobType: core.SIMULATION_JOB,
	}, jc)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return job, 0, nil
}
