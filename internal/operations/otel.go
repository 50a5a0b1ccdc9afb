package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"fuelcli/internal/infrastructure"
)

const (
	TracerName = "fuelcli.operation"
)

// OperationTracer provides OpenTelemetry instrumentation for report runs
type OperationTracer struct {
	tracer trace.Tracer

	runs         metric.Int64Counter
	sources      metric.Int64Counter
	records      metric.Int64Counter
	groups       metric.Int64Counter
	stepDuration metric.Float64Histogram
}

// NewOperationTracer creates a tracer on the given providers. With nil
// providers every signal is a no-op.
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	var (
		tracer trace.Tracer = tracenoop.NewTracerProvider().Tracer(TracerName)
		meter  metric.Meter = metricnoop.NewMeterProvider().Meter(TracerName)
	)
	if providers != nil {
		tracer = providers.Tracer
		meter = providers.Meter
	}

	pt := &OperationTracer{tracer: tracer}
	var err error

	if pt.runs, err = meter.Int64Counter("fuel_runs",
		metric.WithDescription("Report runs by mode and outcome")); err != nil {
		return nil, fmt.Errorf("failed to create runs counter: %w", err)
	}
	if pt.sources, err = meter.Int64Counter("fuel_sources",
		metric.WithDescription("Source spreadsheets by read status")); err != nil {
		return nil, fmt.Errorf("failed to create sources counter: %w", err)
	}
	if pt.records, err = meter.Int64Counter("fuel_records",
		metric.WithDescription("Normalized fuel transaction records")); err != nil {
		return nil, fmt.Errorf("failed to create records counter: %w", err)
	}
	if pt.groups, err = meter.Int64Counter("fuel_groups",
		metric.WithDescription("Vehicle and fuel groups by consolidation result")); err != nil {
		return nil, fmt.Errorf("failed to create groups counter: %w", err)
	}
	if pt.stepDuration, err = meter.Float64Histogram("fuel_step_duration",
		metric.WithDescription("Step execution time"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create step duration histogram: %w", err)
	}

	return pt, nil
}

// TraceOperationExecution creates a span for the entire run
func (pt *OperationTracer) TraceOperationExecution(ctx context.Context, operationID, mode string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "operation.execute."+mode,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("operation.mode", mode),
		),
	)
}

// TraceStageExecution creates a span for one Step
func (pt *OperationTracer) TraceStageExecution(ctx context.Context, operationID, stepID string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "operation.step."+stepID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordOperationCompletion closes out the run span and counts the run
func (pt *OperationTracer) RecordOperationCompletion(ctx context.Context, span trace.Span, mode string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	span.SetAttributes(
		attribute.String("operation.status", status),
		attribute.Float64("operation.duration_seconds", duration.Seconds()),
	)
	pt.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("status", status),
	))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "operation completed")
}

// RecordStageCompletion closes out a Step span and records its duration
func (pt *OperationTracer) RecordStageCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, status StepStatus, err error) {
	span.SetAttributes(
		attribute.String("step.status", string(status)),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)
	pt.stepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("step", stepID),
		attribute.String("status", string(status)),
	))

	if err != nil {
		infrastructure.RecordError(ctx, err)
		return
	}
	span.SetStatus(codes.Ok, "")
}

// RecordSources counts read and failed sources. The Record* helpers accept
// a nil tracer.
func (pt *OperationTracer) RecordSources(ctx context.Context, read, failed int) {
	if pt == nil {
		return
	}
	pt.sources.Add(ctx, int64(read), metric.WithAttributes(attribute.String("status", "read")))
	pt.sources.Add(ctx, int64(failed), metric.WithAttributes(attribute.String("status", "failed")))
	infrastructure.AddSpanEvent(ctx, "sources.loaded",
		attribute.Int("read", read),
		attribute.Int("failed", failed))
}

// RecordRecords counts normalized records and the anomalies absorbed
func (pt *OperationTracer) RecordRecords(ctx context.Context, records, unparseableDates, unparseableNumbers int) {
	if pt == nil {
		return
	}
	pt.records.Add(ctx, int64(records))
	infrastructure.AddSpanEvent(ctx, "records.normalized",
		attribute.Int("records", records),
		attribute.Int("unparseable_dates", unparseableDates),
		attribute.Int("unparseable_numbers", unparseableNumbers))
}

// RecordGroups counts folded and degenerate consolidation groups
func (pt *OperationTracer) RecordGroups(ctx context.Context, folded, degenerate int) {
	if pt == nil {
		return
	}
	pt.groups.Add(ctx, int64(folded), metric.WithAttributes(attribute.String("result", "folded")))
	pt.groups.Add(ctx, int64(degenerate), metric.WithAttributes(attribute.String("result", "degenerate")))
}
