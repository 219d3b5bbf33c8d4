package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/salehub/backend/internal/domain/sale"
	infraconfig "github.com/salehub/backend/internal/infrastructure/config"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestStartSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := StartSpan(context.Background(), "webhook.process",
		WithAttribute(SpanAttrGateway, "orion"),
		WithSpanKind(trace.SpanKindServer),
	)
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())
	SetAttributes(span, SpanAttrExternalID, "tx_1", 42, "ignored", SpanAttrAction, sale.ActionCreated)
	RecordError(span, errors.New("boom"))
	RecordError(span, nil)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "webhook.process", s.Name())
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Contains(t, s.Attributes(), attribute.String(SpanAttrGateway, "orion"))
	assert.Contains(t, s.Attributes(), attribute.String(SpanAttrExternalID, "tx_1"))
	assert.Contains(t, s.Attributes(), attribute.String(SpanAttrAction, "created"))
	assert.Equal(t, trace.SpanKindServer, s.SpanKind())
	require.Len(t, s.Events(), 1)
	assert.Equal(t, "exception", s.Events()[0].Name)
}

func TestProvidersDisabled(t *testing.T) {
	cfg := infraconfig.TelemetryConfig{Enabled: false, ServiceName: "salehub"}

	p, err := Setup(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Meter(TracerName))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Sum[int64]{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				out[m.Name] = sum
			}
		}
	}
	return out
}

func TestWebhookMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewWebhookMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordDelivery(ctx, "orion", "created", "success", 20*time.Millisecond)
	m.RecordDelivery(ctx, "orion", "created", "success", 10*time.Millisecond)
	m.RecordDelivery(ctx, "vega", "", "validation", time.Millisecond)
	m.RecordBestEffortFailure(ctx, "notification.push")

	sums := collectSums(t, reader)

	deliveries := sums["webhook_deliveries_total"]
	require.Len(t, deliveries.DataPoints, 2)
	var total int64
	for _, dp := range deliveries.DataPoints {
		total += dp.Value
		if v, _ := dp.Attributes.Value(AttrGateway); v.AsString() == "orion" {
			assert.Equal(t, int64(2), dp.Value)
		}
	}
	assert.Equal(t, int64(3), total)

	failures := sums["webhook_best_effort_failures_total"]
	require.Len(t, failures.DataPoints, 1)
	assert.Equal(t, int64(1), failures.DataPoints[0].Value)
}

func TestWebhookMetrics_NilSafe(t *testing.T) {
	var m *WebhookMetrics
	m.RecordDelivery(context.Background(), "orion", "", "internal", 0)
	m.RecordBestEffortFailure(context.Background(), "archive")

	_, err := NewWebhookMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestRegisterDBTracing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	assert.NoError(t, RegisterDBTracing(db, false, nil))
	assert.NoError(t, RegisterDBTracing(db, true, zap.NewNop()))
}
