package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/oqtopus-team/quantum-emulator/core"
	"github.com/oqtopus-team/quantum-emulator/sim"
	"github.com/oqtopus-team/quantum-emulator/wire"
)

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encode(e)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		zap.L().Info("failed to write response", zap.Error(err))
	}
}

// writeError answers {"message": ...}. Circuit errors also list every
// rejected operation with its position.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("message")
		e.Str(err.Error())
		var opErrs []*sim.OperationError
		for _, single := range multierr.Errors(err) {
			var opErr *sim.OperationError
			if errors.As(single, &opErr) {
				opErrs = append(opErrs, opErr)
			}
		}
		if len(opErrs) > 0 {
			e.FieldStart("errors")
			e.ArrStart()
			for _, oe := range opErrs {
				e.ObjStart()
				e.FieldStart("index")
				e.Int(oe.Index)
				e.FieldStart("gate")
				e.Str(oe.Kind.String())
				e.FieldStart("message")
				e.Str(oe.Err.Error())
				e.ObjEnd()
			}
			e.ArrEnd()
		}
		e.ObjEnd()
	})
}

func encodeSubmitted(e *jx.Encoder, jd *core.JobData) {
	e.ObjStart()
	e.FieldStart("job_id")
	e.Str(jd.ID)
	e.FieldStart("status")
	e.Str(jd.Status.String())
	e.ObjEnd()
}

func encodeJob(e *jx.Encoder, jd *core.JobData) {
	e.ObjStart()
	e.FieldStart("job_id")
	e.Str(jd.ID)
	e.FieldStart("job_type")
	e.Str(jd.JobType)
	e.FieldStart("status")
	e.Str(jd.Status.String())
	e.FieldStart("created")
	e.Str(jd.Created.String())
	if !time.Time(jd.Ended).IsZero() {
		e.FieldStart("ended")
		e.Str(jd.Ended.String())
	}
	if jd.Result != nil {
		e.FieldStart("message")
		e.Str(jd.Result.Message)
		e.FieldStart("execution_time")
		e.Float64(jd.Result.ExecutionTime.Seconds())
		if jd.Result.Simulation != nil {
			e.FieldStart("result")
			wire.EncodeResult(e, jd.Result.Simulation)
		}
	}
	e.ObjEnd()
}

func encodeDeviceInfo(e *jx.Encoder, di *core.DeviceInfo) {
	e.ObjStart()
	e.FieldStart("device_name")
	e.Str(di.DeviceName)
	e.FieldStart("provider_name")
	e.Str(di.ProviderName)
	e.FieldStart("type")
	e.Str(di.Type)
	e.FieldStart("status")
	e.Str(di.Status.String())
	e.FieldStart("max_qubits")
	e.Int(di.MaxQubits)
	e.FieldStart("max_gates")
	e.Int(di.MaxGates)
	e.FieldStart("supported_gates")
	e.ArrStart()
	for _, g := range di.SupportedGates {
		e.Str(g)
	}
	e.ArrEnd()
	e.ObjEnd()
}
