package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DispatchMetrics counts job publish attempts. All record methods are
// nil-safe so instrumentation can be absent without gating the publish path.
type DispatchMetrics struct {
	published metric.Int64Counter
}

// NewDispatchMetrics creates the publisher counters.
func NewDispatchMetrics() (*DispatchMetrics, error) {
	meter := GetMeter("portal.dispatch")

	published, err := meter.Int64Counter(
		"portal_jobs_published_total",
		metric.WithDescription("Job publish attempts by type and outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &DispatchMetrics{published: published}, nil
}

// RecordPublish records one publish attempt.
func (m *DispatchMetrics) RecordPublish(ctx context.Context, jobType string, ok bool) {
	if m == nil {
		return
	}
	m.published.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("job_type", jobType),
			attribute.Bool("ok", ok),
		),
	)
}

// WebhookMetrics counts inbound callback verification outcomes.
type WebhookMetrics struct {
	verifications metric.Int64Counter
}

// NewWebhookMetrics creates the receiver counters.
func NewWebhookMetrics() (*WebhookMetrics, error) {
	meter := GetMeter("portal.webhook")

	verifications, err := meter.Int64Counter(
		"portal_webhook_verifications_total",
		metric.WithDescription("Inbound callback verification outcomes"),
	)
	if err != nil {
		return nil, err
	}

	return &WebhookMetrics{verifications: verifications}, nil
}

// RecordVerification records one verification outcome.
func (m *WebhookMetrics) RecordVerification(ctx context.Context, valid bool) {
	if m == nil {
		return
	}
	m.verifications.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("valid", valid)),
	)
}

// DeliveryMetrics instruments the queue's outbound callback deliveries.
type DeliveryMetrics struct {
	attempts metric.Int64Counter
	duration metric.Float64Histogram
}

// NewDeliveryMetrics creates the delivery worker counters.
func NewDeliveryMetrics() (*DeliveryMetrics, error) {
	meter := GetMeter("portal.relay")

	attempts, err := meter.Int64Counter(
		"portal_relay_deliveries_total",
		metric.WithDescription("Callback delivery attempts by job type and outcome"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"portal_relay_delivery_duration_seconds",
		metric.WithDescription("Duration of callback deliveries in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &DeliveryMetrics{attempts: attempts, duration: duration}, nil
}

// RecordDelivery records one delivery attempt.
func (m *DeliveryMetrics) RecordDelivery(ctx context.Context, jobType string, ok bool, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("job_type", jobType),
		attribute.Bool("ok", ok),
	)
	m.attempts.Add(ctx, 1, attrs)
	m.duration.Record(ctx, seconds, attrs)
}
