// Package dispatch implements the portal's job publisher: payload
// validation, delay parsing and submission of typed envelopes to the push
// queue, normalized into a single result shape.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/serenvista/portal/internal/jobs"
	"github.com/serenvista/portal/internal/logger"
	"github.com/serenvista/portal/internal/observability"
)

// subscriptionCheckDelay is the fixed deferral applied to every
// subscription re-check. Callers cannot override it.
const subscriptionCheckDelay = "1d"

// Envelope is the unit submitted to the queue: routing and delivery
// metadata around an opaque job body.
type Envelope struct {
	API   EnvelopeAPI    `json:"api"`
	Body  map[string]any `json:"body"`
	Delay string         `json:"delay,omitempty"`
}

// EnvelopeAPI carries the routing key and the base URL the queue will POST
// back to.
type EnvelopeAPI struct {
	Name    string `json:"name"`
	BaseURL string `json:"baseUrl"`
}

// Client is the queue collaborator. PublishJSON submits an envelope and
// returns the queue-assigned message id; it is the publisher's only network
// dependency and every call to it is wrapped.
type Client interface {
	PublishJSON(ctx context.Context, env Envelope) (string, error)
}

// Scheduler validates job payloads and forwards them to the queue client.
// Safe for concurrent use: all state is read-only after construction.
type Scheduler struct {
	client  Client
	baseURL string
	log     *slog.Logger
	metrics *observability.DispatchMetrics
}

// NewScheduler builds a Scheduler publishing callbacks under baseURL. A nil
// client is allowed and turns every schedule attempt into a soft
// "not configured" failure: the rest of the application keeps functioning
// when the queue integration is absent.
func NewScheduler(client Client, baseURL string, metrics *observability.DispatchMetrics) *Scheduler {
	return &Scheduler{
		client:  client,
		baseURL: baseURL,
		log:     logger.NewLogger("dispatch"),
		metrics: metrics,
	}
}

// ScheduleEmailJob schedules a deferred email send. delay is optional; pass
// "" for immediate delivery.
func (s *Scheduler) ScheduleEmailJob(ctx context.Context, email, subject, delay string) PublishResult {
	if v := jobs.ValidateEmail(email, subject); !v.Valid {
		return failure(v.Reason)
	}
	return s.publish(ctx, jobs.KindEmail, map[string]any{
		"email":   email,
		"subject": subject,
	}, delay)
}

// ScheduleAnalyticsJob schedules a usage-analytics recording job.
func (s *Scheduler) ScheduleAnalyticsJob(ctx context.Context, userID string) PublishResult {
	if v := jobs.ValidateUserID(userID); !v.Valid {
		return failure(v.Reason)
	}
	return s.publish(ctx, jobs.KindAnalytics, map[string]any{
		"userId": userID,
	}, "")
}

// ScheduleSubscriptionCheck schedules a subscription re-check one day out.
func (s *Scheduler) ScheduleSubscriptionCheck(ctx context.Context, userID string) PublishResult {
	if v := jobs.ValidateUserID(userID); !v.Valid {
		return failure(v.Reason)
	}
	return s.publish(ctx, jobs.KindSubscriptionCheck, map[string]any{
		"userId": userID,
	}, subscriptionCheckDelay)
}

func (s *Scheduler) publish(ctx context.Context, kind string, body map[string]any, delay string) PublishResult {
	env := Envelope{
		API:  EnvelopeAPI{Name: kind, BaseURL: s.baseURL},
		Body: body,
	}

	if delay != "" {
		d, err := ParseDelay(delay)
		if err != nil {
			return failure(err.Error())
		}
		env.Delay = d.String()
	}

	if s.client == nil {
		s.log.Warn("queue client not configured, dropping job",
			"job_type", kind,
			"delay", delay,
		)
		return failure("not configured")
	}

	id, err := s.client.PublishJSON(ctx, env)
	if err != nil {
		// Payload bodies may carry end-user PII; log the routing
		// metadata only.
		s.log.Error("failed to publish job",
			"job_type", kind,
			"delay", delay,
			"error", err,
		)
		s.metrics.RecordPublish(ctx, kind, false)
		return failure(err.Error())
	}

	s.metrics.RecordPublish(ctx, kind, true)
	s.log.Info("job published",
		"job_type", kind,
		"delay", delay,
		"message_id", id,
	)
	return success(id)
}
