package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/bnema/actual-mcp/internal/domain"
)

func newTestObserver(t *testing.T) (*Observer, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	observer, err := NewObserver(mp.Meter("test"), tp.Tracer("test"))
	require.NoError(t, err)
	return observer, recorder, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

func TestObserverRecordsSuccessfulCall(t *testing.T) {
	observer, recorder, reader := newTestObserver(t)

	_, finish := observer.Start(context.Background(), "getAccounts")
	finish(domain.CallRecord{
		ID:       "call-1",
		Method:   "getAccounts",
		BudgetID: "budget-1",
		Duration: 250 * time.Millisecond,
		Success:  true,
	})

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "actual.invoke getAccounts", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("budget_id", "budget-1"))

	rm := collect(t, reader)
	assert.Equal(t, map[string]int64{"getAccounts": 1}, InvocationCounts(rm))

	duration := findMetric(rm, DurationMetric)
	require.NotNil(t, duration)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.InDelta(t, 0.25, hist.DataPoints[0].Sum, 1e-9)
}

func TestObserverRecordsFailureCode(t *testing.T) {
	observer, recorder, reader := newTestObserver(t)

	for range 2 {
		_, finish := observer.Start(context.Background(), "deleteAccount")
		finish(domain.CallRecord{
			Method:    "deleteAccount",
			ErrorCode: "NOT_FOUND",
			Message:   "no account matches",
		})
	}

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "no account matches", spans[0].Status().Description)

	counter := findMetric(collect(t, reader), InvocationsMetric)
	require.NotNil(t, counter)
	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	code, found := sum.DataPoints[0].Attributes.Value("error_code")
	require.True(t, found)
	assert.Equal(t, "NOT_FOUND", code.AsString())
}

func TestObserverStartReturnsSpanContext(t *testing.T) {
	observer, _, _ := newTestObserver(t)

	ctx, finish := observer.Start(context.Background(), "sync")
	defer finish(domain.CallRecord{Method: "sync", Success: true})

	assert.NotEqual(t, context.Background(), ctx)
}

func TestNilObserverIsNoop(t *testing.T) {
	var observer *Observer

	ctx, finish := observer.Start(context.Background(), "sync")
	assert.Equal(t, context.Background(), ctx)
	assert.NotPanics(t, func() { finish(domain.CallRecord{}) })
}

func TestSetupWithoutEndpointKeepsLocalSummary(t *testing.T) {
	provider, err := Setup(context.Background(), Options{Version: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	_, finish := provider.Observer().Start(context.Background(), "getPayees")
	finish(domain.CallRecord{Method: "getPayees", Success: true})
	_, finish = provider.Observer().Start(context.Background(), "getPayees")
	finish(domain.CallRecord{Method: "getPayees", Success: true})

	summary, err := provider.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"getPayees": 2}, summary)
}
