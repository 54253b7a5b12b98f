package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/ports"
)

const (
	InvocationsMetric = "actual_mcp.invocations"
	DurationMetric    = "actual_mcp.invoke.duration"
)

// Observer records one span and two instruments per dynamic invocation.
type Observer struct {
	tracer trace.Tracer

	invocations metric.Int64Counter
	duration    metric.Float64Histogram
}

var _ ports.CallObserver = (*Observer)(nil)

func NewObserver(meter metric.Meter, tracer trace.Tracer) (*Observer, error) {
	invocations, err := meter.Int64Counter(
		InvocationsMetric,
		metric.WithDescription("Number of remote method invocations"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(
		DurationMetric,
		metric.WithDescription("Remote method invocation latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Observer{
		tracer:      tracer,
		invocations: invocations,
		duration:    duration,
	}, nil
}

func (o *Observer) Start(ctx context.Context, method string) (context.Context, func(domain.CallRecord)) {
	if o == nil {
		return ctx, func(domain.CallRecord) {}
	}

	var span trace.Span
	if o.tracer != nil {
		ctx, span = o.tracer.Start(ctx, "actual.invoke "+method,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(attribute.String("method", method)),
		)
	}

	return ctx, func(record domain.CallRecord) {
		attrs := []attribute.KeyValue{
			attribute.String("method", record.Method),
			attribute.Bool("success", record.Success),
		}
		if record.ErrorCode != "" {
			attrs = append(attrs, attribute.String("error_code", record.ErrorCode))
		}

		options := metric.WithAttributes(attrs...)
		o.invocations.Add(ctx, 1, options)
		o.duration.Record(ctx, record.Duration.Seconds(), options)

		if span == nil {
			return
		}
		span.SetAttributes(attribute.String("call_id", record.ID))
		if record.BudgetID != "" {
			span.SetAttributes(attribute.String("budget_id", record.BudgetID))
		}
		if record.Success {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetAttributes(attribute.String("error_code", record.ErrorCode))
			span.SetStatus(codes.Error, record.Message)
		}
		span.End()
	}
}
