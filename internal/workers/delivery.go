// Package workers holds the River workers behind the relay queue.
package workers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/riverqueue/river"

	"github.com/serenvista/portal/internal/deliveries"
	"github.com/serenvista/portal/internal/jobs"
	"github.com/serenvista/portal/internal/logger"
	"github.com/serenvista/portal/internal/observability"
	"github.com/serenvista/portal/internal/signature"
	"github.com/serenvista/portal/internal/webhook"
)

// DeliveryWorker performs the HTTP callback for a published job: it signs
// the payload with the current key and POSTs it to the job's callback
// endpoint. Non-2xx responses return an error so the queue retries.
type DeliveryWorker struct {
	river.WorkerDefaults[jobs.DeliveryArgs]
	keys    signature.Keys
	repo    *deliveries.Repository
	client  *http.Client
	metrics *observability.DeliveryMetrics
}

// NewDeliveryWorker creates a delivery worker. repo and metrics may be nil;
// timeout bounds each callback so a slow receiver cannot hold a worker slot
// indefinitely.
func NewDeliveryWorker(keys signature.Keys, repo *deliveries.Repository, timeout time.Duration, metrics *observability.DeliveryMetrics) *DeliveryWorker {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &DeliveryWorker{
		keys:    keys,
		repo:    repo,
		client:  &http.Client{Timeout: timeout},
		metrics: metrics,
	}
}

// Work delivers one callback.
func (w *DeliveryWorker) Work(ctx context.Context, job *river.Job[jobs.DeliveryArgs]) error {
	log := logger.NewLogger("delivery-worker")
	args := job.Args
	attempt := job.Attempt

	log.Info("delivering callback",
		"job_id", job.ID,
		"message_id", args.MessageID,
		"job_type", args.JobType,
		"url", args.URL,
		"attempt", attempt,
	)

	w.updateStatus(ctx, log, args.MessageID, deliveries.StatusSending, attempt, 0, "")

	req, err := w.buildRequest(ctx, args, attempt)
	if err != nil {
		log.Error("failed to build callback request",
			"job_id", job.ID,
			"message_id", args.MessageID,
			"error", err,
		)
		w.updateStatus(ctx, log, args.MessageID, deliveries.StatusFailed, attempt, 0, err.Error())
		return fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	resp, err := w.client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		log.Error("callback request failed",
			"job_id", job.ID,
			"message_id", args.MessageID,
			"url", args.URL,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		w.metrics.RecordDelivery(ctx, args.JobType, false, elapsed.Seconds())
		w.updateStatus(ctx, log, args.MessageID, deliveries.StatusFailed, attempt, 0, err.Error())
		return fmt.Errorf("deliver callback: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Info("callback delivered",
			"job_id", job.ID,
			"message_id", args.MessageID,
			"status_code", resp.StatusCode,
			"duration_ms", elapsed.Milliseconds(),
		)
		w.metrics.RecordDelivery(ctx, args.JobType, true, elapsed.Seconds())
		w.updateStatus(ctx, log, args.MessageID, deliveries.StatusSuccess, attempt, resp.StatusCode, "")
		return nil
	}

	errorMessage := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status)
	log.Warn("callback rejected by receiver",
		"job_id", job.ID,
		"message_id", args.MessageID,
		"status_code", resp.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
	)
	w.metrics.RecordDelivery(ctx, args.JobType, false, elapsed.Seconds())
	w.updateStatus(ctx, log, args.MessageID, deliveries.StatusFailed, attempt, resp.StatusCode, errorMessage)
	return fmt.Errorf("callback delivery failed: %s", errorMessage)
}

func (w *DeliveryWorker) buildRequest(ctx context.Context, args jobs.DeliveryArgs, attempt int) (*http.Request, error) {
	u, err := url.Parse(args.URL)
	if err != nil {
		return nil, fmt.Errorf("parse callback url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, args.URL, bytes.NewReader(args.Body))
	if err != nil {
		return nil, err
	}

	// Signatures cover the request path plus the exact payload bytes so
	// the receiver can verify behind proxies that rewrite host or scheme.
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signature.Header, w.keys.Sign(u.RequestURI(), args.Body))
	req.Header.Set(webhook.MessageIDHeader, args.MessageID)
	req.Header.Set(webhook.RetriedHeader, strconv.Itoa(attempt-1))
	if args.ScheduleID != "" {
		req.Header.Set(webhook.ScheduleIDHeader, args.ScheduleID)
	}
	if args.NotBefore > 0 {
		req.Header.Set(webhook.NotBeforeHeader, strconv.FormatInt(args.NotBefore, 10))
	}
	return req, nil
}

func (w *DeliveryWorker) updateStatus(ctx context.Context, log *slog.Logger, messageID string, status deliveries.Status, attempt, code int, errorMessage string) {
	if w.repo == nil {
		return
	}
	if err := w.repo.UpdateStatus(ctx, messageID, status, attempt, code, errorMessage); err != nil {
		log.Error("failed to update delivery status",
			"message_id", messageID,
			"status", string(status),
			"error", err,
		)
	}
}
