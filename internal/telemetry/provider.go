// Package telemetry exports invocation traces over OTLP/HTTP and keeps an
// in-process metric view for the shutdown summary.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/bnema/actual-mcp"

type Options struct {
	// Endpoint is an OTLP/HTTP host:port. Empty disables trace export.
	Endpoint    string
	Insecure    bool
	ServiceName string
	Version     string
}

// Provider owns the trace and meter providers backing an Observer.
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	reader         *sdkmetric.ManualReader
	observer       *Observer
}

func Setup(ctx context.Context, opts Options) (*Provider, error) {
	serviceName := strings.TrimSpace(opts.ServiceName)
	if serviceName == "" {
		serviceName = "actual-mcp"
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", opts.Version),
	)

	p := &Provider{reader: sdkmetric.NewManualReader()}
	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(p.reader),
		sdkmetric.WithResource(res),
	)

	var tracer trace.Tracer = noop.NewTracerProvider().Tracer(instrumentationName)
	if endpoint := strings.TrimSpace(opts.Endpoint); endpoint != "" {
		exporterOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
		if opts.Insecure {
			exporterOpts = append(exporterOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, exporterOpts...)
		if err != nil {
			_ = p.meterProvider.Shutdown(ctx)
			return nil, fmt.Errorf("create trace exporter: %w", err)
		}
		p.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		tracer = p.tracerProvider.Tracer(instrumentationName)
	}

	observer, err := NewObserver(p.meterProvider.Meter(instrumentationName), tracer)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, fmt.Errorf("create observer: %w", err)
	}
	p.observer = observer

	return p, nil
}

func (p *Provider) Observer() *Observer {
	return p.observer
}

// TracerProvider falls back to a no-op provider when export is disabled.
func (p *Provider) TracerProvider() trace.TracerProvider {
	if p.tracerProvider == nil {
		return noop.NewTracerProvider()
	}
	return p.tracerProvider
}

// Summary returns the invocation counts per method collected so far.
func (p *Provider) Summary(ctx context.Context) (map[string]int64, error) {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}
	return InvocationCounts(rm), nil
}

func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
	}
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
	}
	return errors.Join(errs...)
}

// InvocationCounts sums the invocation counter per method attribute.
func InvocationCounts(rm metricdata.ResourceMetrics) map[string]int64 {
	counts := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != InvocationsMetric {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				method, _ := dp.Attributes.Value("method")
				counts[method.AsString()] += dp.Value
			}
		}
	}
	return counts
}
