package core

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	jsoniter "github.com/json-iterator/go"
	"github.com/mohae/deepcopy"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"github.com/oqtopus-team/quantum-emulator/sim"
)

type Status int

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

func ToStatus(s string) (Status, error) {
	switch s {
	case "submitted":
		return SUBMITTED, nil
	case "ready":
		return READY, nil
	case "running":
		return RUNNING, nil
	case "succeeded":
		return SUCCEEDED, nil
	case "failed":
		return FAILED, nil
	case "cancelled":
		return CANCELLED, nil
	default:
		return 0, fmt.Errorf("unknown status: %s", s)
	}
}

const (
	SUBMITTED Status = iota // Accepted by the API, not yet queued.
	READY                   // Queued and never simulated.
	RUNNING                 // Being simulated.
	SUCCEEDED               // Finished successfully.
	FAILED                  // Finished with failure.
	CANCELLED               // Finished with cancellation.
)

func (s Status) String() string {
	switch s {
	case SUBMITTED:
		return "submitted"
	case READY:
		return "ready"
	case RUNNING:
		return "running"
	case SUCCEEDED:
		return "succeeded"
	case FAILED:
		return "failed"
	case CANCELLED:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s Status) IsTerminal() bool {
	return s == SUCCEEDED || s == FAILED || s == CANCELLED
}

type Result struct {
	Simulation    *sim.Result   `json:"simulation"`
	Message       string        `json:"message"`
	ExecutionTime time.Duration `json:"execution_time"`
}

type JobData struct {
	ID      string
	Status  Status
	Circuit *sim.Circuit
	Result  *Result
	JobType string
	Created strfmt.DateTime
	Ended   strfmt.DateTime
}

func (jd *JobData) Clone() *JobData {
	c := deepcopy.Copy(jd).(*JobData)
	c.Created = *jd.Created.DeepCopy()
	c.Ended = *jd.Ended.DeepCopy()
	return c
}

func NewResult() *Result {
	return &Result{}
}

func NewJobData() *JobData {
	return &JobData{
		Result:  NewResult(),
		Created: strfmt.DateTime(time.Now()),
	}
}

func (r *Result) ToString() string {
	st, err := jsonIter.Marshal(r)
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to marshal core.Result/reason:%s", err))
		return ""
	}
	st = pretty.Pretty(st)
	return string(st)
}
