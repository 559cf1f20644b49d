package api

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/oqtopus-team/quantum-emulator/api"

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// telemetry records spans and counters through the global otel providers.
// Nothing is exported unless the process installs an SDK.
type telemetry struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newTelemetry() (*telemetry, error) {
	meter := otel.Meter(instrumentationName)
	requests, err := meter.Int64Counter("emulator.requests",
		metric.WithDescription("circuits received by the API"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("emulator.simulation.duration",
		metric.WithDescription("time spent simulating one circuit"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &telemetry{
		tracer:   otel.Tracer(instrumentationName),
		requests: requests,
		duration: duration,
	}, nil
}

func (t *telemetry) start(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindServer))
}

func (t *telemetry) record(ctx context.Context, endpoint, outcome string, qubits int, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome),
		attribute.Int("qubits", qubits),
	)
	t.requests.Add(ctx, 1, attrs)
	if outcome == outcomeOK {
		t.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

func failSpan(span trace.Span, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}
