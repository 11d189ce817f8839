// Package handlers holds the portal's HTTP handlers: schedule endpoints that
// feed the publisher and callback endpoints that run behind webhook
// verification.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/serenvista/portal/internal/jobs"
	"github.com/serenvista/portal/internal/logger"
	"github.com/serenvista/portal/internal/webhook"
)

// JobHandlers executes verified job callbacks by delegating to the
// collaborator services.
type JobHandlers struct {
	mailer        Mailer
	analytics     AnalyticsSink
	subscriptions SubscriptionChecker
	log           *slog.Logger
}

// NewJobHandlers wires the collaborators.
func NewJobHandlers(mailer Mailer, analytics AnalyticsSink, subscriptions SubscriptionChecker) *JobHandlers {
	return &JobHandlers{
		mailer:        mailer,
		analytics:     analytics,
		subscriptions: subscriptions,
		log:           logger.NewLogger("job-handlers"),
	}
}

// Email handles a verified email job callback.
func (h *JobHandlers) Email(ctx context.Context, body jobs.EmailArgs, r *http.Request) webhook.Response {
	md := webhook.GetMetadata(r)
	h.log.Info("processing email job",
		"subject", body.Subject,
		"message_id", md.MessageID,
		"retry_count", md.RetryCount,
	)

	if err := h.mailer.Send(ctx, body.Email, body.Subject); err != nil {
		h.log.Error("email send failed", "message_id", md.MessageID, "error", err)
		// Non-2xx tells the queue to retry this delivery.
		return webhook.JSON(http.StatusInternalServerError, map[string]string{
			"error": "email send failed",
		})
	}
	return webhook.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// Analytics handles a verified analytics job callback.
func (h *JobHandlers) Analytics(ctx context.Context, body jobs.AnalyticsArgs, r *http.Request) webhook.Response {
	md := webhook.GetMetadata(r)
	h.log.Info("processing analytics job",
		"user_id", body.UserID,
		"message_id", md.MessageID,
		"retry_count", md.RetryCount,
	)

	if err := h.analytics.Record(ctx, body.UserID); err != nil {
		h.log.Error("analytics record failed", "message_id", md.MessageID, "error", err)
		return webhook.JSON(http.StatusInternalServerError, map[string]string{
			"error": "analytics record failed",
		})
	}
	return webhook.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// SubscriptionCheck handles a verified subscription-check job callback.
func (h *JobHandlers) SubscriptionCheck(ctx context.Context, body jobs.SubscriptionCheckArgs, r *http.Request) webhook.Response {
	md := webhook.GetMetadata(r)
	h.log.Info("processing subscription check",
		"user_id", body.UserID,
		"message_id", md.MessageID,
		"retry_count", md.RetryCount,
	)

	if err := h.subscriptions.Check(ctx, body.UserID); err != nil {
		h.log.Error("subscription check failed", "message_id", md.MessageID, "error", err)
		return webhook.JSON(http.StatusInternalServerError, map[string]string{
			"error": "subscription check failed",
		})
	}
	return webhook.JSON(http.StatusOK, map[string]bool{"ok": true})
}
