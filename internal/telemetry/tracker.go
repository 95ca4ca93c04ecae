package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/wendlabs/wend/internal/tracker"
	"github.com/wendlabs/wend/internal/workflow"
)

const trackerScopeName = "github.com/wendlabs/wend/tracker"

// InstrumentedTracker wraps a tracker.RecordTracker with OTel tracing and
// metrics. Every live call gets a span and is counted in wend.tracker.*
// metrics. Use WrapTracker to create one; it returns the original tracker
// unchanged when telemetry is disabled.
type InstrumentedTracker struct {
	inner  tracker.RecordTracker
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

// WrapTracker returns t decorated with OTel instrumentation.
// When telemetry is disabled, t is returned as-is with zero overhead.
func WrapTracker(t tracker.RecordTracker) tracker.RecordTracker {
	if !Enabled() {
		return t
	}
	m := Meter(trackerScopeName)
	ops, _ := m.Int64Counter("wend.tracker.operations",
		metric.WithDescription("Total live tracker operations executed"),
	)
	dur, _ := m.Float64Histogram("wend.tracker.operation.duration",
		metric.WithDescription("Live tracker operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("wend.tracker.errors",
		metric.WithDescription("Total live tracker operation errors"),
	)
	return &InstrumentedTracker{
		inner:  t,
		tracer: Tracer(trackerScopeName),
		ops:    ops,
		dur:    dur,
		errs:   errs,
	}
}

// op starts a span and records a metric for the named live operation.
func (t *InstrumentedTracker) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{
		attribute.String("wend.tracker", t.inner.Name()),
		attribute.String("wend.operation", name),
	}, attrs...)
	ctx, span := t.tracer.Start(ctx, "tracker."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	t.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span, records duration and optional error.
func (t *InstrumentedTracker) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	t.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func (t *InstrumentedTracker) Name() string {
	return t.inner.Name()
}

func (t *InstrumentedTracker) Init(ctx context.Context, cfg *tracker.Config) error {
	ctx, span, start := t.op(ctx, "Init")
	err := t.inner.Init(ctx, cfg)
	t.done(ctx, span, start, err)
	return err
}

func (t *InstrumentedTracker) Validate() error {
	return t.inner.Validate()
}

func (t *InstrumentedTracker) FetchState(ctx context.Context, key string) (*tracker.RecordState, error) {
	attrs := []attribute.KeyValue{attribute.String("wend.record.key", key)}
	ctx, span, start := t.op(ctx, "FetchState", attrs...)
	state, err := t.inner.FetchState(ctx, key)
	if err == nil && state != nil {
		span.SetAttributes(
			attribute.String("wend.record.type", state.Type),
			attribute.String("wend.record.state", state.State),
		)
	}
	t.done(ctx, span, start, err, attrs...)
	return state, err
}

func (t *InstrumentedTracker) ListTransitions(ctx context.Context, key string) ([]workflow.Transition, error) {
	attrs := []attribute.KeyValue{attribute.String("wend.record.key", key)}
	ctx, span, start := t.op(ctx, "ListTransitions", attrs...)
	transitions, err := t.inner.ListTransitions(ctx, key)
	if err == nil {
		span.SetAttributes(attribute.Int("wend.result.count", len(transitions)))
	}
	t.done(ctx, span, start, err, attrs...)
	return transitions, err
}

func (t *InstrumentedTracker) ApplyTransition(ctx context.Context, key string, tr workflow.Transition) error {
	attrs := []attribute.KeyValue{
		attribute.String("wend.record.key", key),
		attribute.String("wend.transition.id", tr.ID),
		attribute.String("wend.transition.to", tr.To),
	}
	ctx, span, start := t.op(ctx, "ApplyTransition", attrs...)
	err := t.inner.ApplyTransition(ctx, key, tr)
	t.done(ctx, span, start, err, attrs...)
	return err
}

func (t *InstrumentedTracker) AddComment(ctx context.Context, key, text string) error {
	attrs := []attribute.KeyValue{attribute.String("wend.record.key", key)}
	ctx, span, start := t.op(ctx, "AddComment", attrs...)
	err := t.inner.AddComment(ctx, key, text)
	t.done(ctx, span, start, err, attrs...)
	return err
}

func (t *InstrumentedTracker) Close() error {
	return t.inner.Close()
}
