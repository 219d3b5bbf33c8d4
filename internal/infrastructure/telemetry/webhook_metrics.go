package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when NewWebhookMetrics receives no meter
var ErrMeterNil = errors.New("telemetry: meter must not be nil")

// Metric attribute keys
var (
	AttrGateway   = attribute.Key("gateway")
	AttrAction    = attribute.Key("action")
	AttrOutcome   = attribute.Key("outcome")
	AttrOperation = attribute.Key("operation")
)

// processingBuckets are the duration boundaries in seconds
var processingBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// WebhookMetrics records the outcome of every webhook delivery. A nil
// *WebhookMetrics records nothing.
type WebhookMetrics struct {
	deliveries         metric.Int64Counter
	bestEffortFailures metric.Int64Counter
	duration           metric.Float64Histogram
}

// NewWebhookMetrics registers the webhook instruments on meter
func NewWebhookMetrics(meter metric.Meter) (*WebhookMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	deliveries, err := meter.Int64Counter("webhook_deliveries_total",
		metric.WithDescription("Webhook deliveries by gateway, action and outcome"),
		metric.WithUnit("{deliveries}"),
	)
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("webhook_best_effort_failures_total",
		metric.WithDescription("Failed best-effort steps (logging, archiving, locking, notifications)"),
		metric.WithUnit("{failures}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("webhook_processing_duration_seconds",
		metric.WithDescription("Time spent processing a webhook delivery"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(processingBuckets...),
	)
	if err != nil {
		return nil, err
	}

	return &WebhookMetrics{
		deliveries:         deliveries,
		bestEffortFailures: failures,
		duration:           duration,
	}, nil
}

// RecordDelivery counts one processed delivery. action is empty when no sale
// was written.
func (m *WebhookMetrics) RecordDelivery(ctx context.Context, gateway, action, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.deliveries.Add(ctx, 1, metric.WithAttributes(
		AttrGateway.String(gateway), AttrAction.String(action), AttrOutcome.String(outcome)))
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		AttrGateway.String(gateway), AttrOutcome.String(outcome)))
}

// RecordBestEffortFailure counts a failed best-effort step
func (m *WebhookMetrics) RecordBestEffortFailure(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.bestEffortFailures.Add(ctx, 1, metric.WithAttributes(AttrOperation.String(operation)))
}
