// Package queue self-hosts the portal's push queue on River. Published
// envelopes become relay delivery jobs; a worker POSTs each one back to the
// portal's callback endpoints with a signed request.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"

	"github.com/serenvista/portal/internal/deliveries"
	"github.com/serenvista/portal/internal/dispatch"
	"github.com/serenvista/portal/internal/jobs"
	"github.com/serenvista/portal/internal/logger"
	"github.com/serenvista/portal/internal/observability"
	"github.com/serenvista/portal/internal/signature"
	"github.com/serenvista/portal/internal/workers"
)

// QueueRelay is the River queue callback deliveries run on.
const QueueRelay = "relay"

// Options configures the queue manager.
type Options struct {
	DatabaseURL     string
	Keys            signature.Keys
	DeliveryTimeout time.Duration
}

// Manager owns the database pool and the River client. It implements
// dispatch.Client so the publisher can stay ignorant of the backend.
type Manager struct {
	client *river.Client[pgx.Tx]
	dbPool *pgxpool.Pool
	repo   *deliveries.Repository
	log    *slog.Logger
}

// NewManager connects to the database and builds the River client with the
// delivery worker registered.
func NewManager(ctx context.Context, opts Options) (*Manager, error) {
	log := logger.NewLogger("queue-manager")

	dbPool, err := pgxpool.New(ctx, opts.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	repo := deliveries.NewRepository(dbPool)

	deliveryMetrics, err := observability.NewDeliveryMetrics()
	if err != nil {
		// Instrumentation is optional; the queue runs without it.
		log.Error("failed to initialize delivery metrics", "error", err)
	}

	riverWorkers := river.NewWorkers()
	river.AddWorker(riverWorkers, workers.NewDeliveryWorker(opts.Keys, repo, opts.DeliveryTimeout, deliveryMetrics))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			QueueRelay:         {MaxWorkers: 8},
		},
		Workers: riverWorkers,
	})
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("create River client: %w", err)
	}

	return &Manager{
		client: riverClient,
		dbPool: dbPool,
		repo:   repo,
		log:    log,
	}, nil
}

// Start begins queue processing.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("start River client: %w", err)
	}
	m.log.Info("relay queue started")
	return nil
}

// Stop drains workers and closes the pool.
func (m *Manager) Stop(ctx context.Context) error {
	err := m.client.Stop(ctx)
	m.dbPool.Close()
	return err
}

// Deliveries returns the delivery log repository.
func (m *Manager) Deliveries() *deliveries.Repository {
	return m.repo
}

// PublishJSON accepts an envelope, enqueues its delivery and returns the
// assigned message id. The envelope body is serialized exactly once here;
// the delivery worker forwards those bytes unmodified.
func (m *Manager) PublishJSON(ctx context.Context, env dispatch.Envelope) (string, error) {
	body, err := json.Marshal(env.Body)
	if err != nil {
		return "", fmt.Errorf("marshal job body: %w", err)
	}

	messageID := "msg_" + uuid.New().String()
	callbackURL := strings.TrimRight(env.API.BaseURL, "/") + "/api/jobs/" + env.API.Name

	args := jobs.DeliveryArgs{
		MessageID: messageID,
		JobType:   env.API.Name,
		URL:       callbackURL,
		Body:      body,
	}
	insertOpts := &river.InsertOpts{Queue: QueueRelay}

	var scheduledFor *time.Time
	if env.Delay != "" {
		d, err := dispatch.ParseDelay(env.Delay)
		if err != nil {
			return "", err
		}
		at := time.Now().Add(d.Duration())
		insertOpts.ScheduledAt = at
		args.ScheduleID = "sched_" + uuid.New().String()
		args.NotBefore = at.Unix()
		scheduledFor = &at
	}

	if err := m.repo.Create(ctx, &deliveries.Delivery{
		MessageID:    messageID,
		JobType:      env.API.Name,
		URL:          callbackURL,
		ScheduledFor: scheduledFor,
	}); err != nil {
		// Log-only: the delivery log is advisory, the queue row is not.
		m.log.Warn("failed to record delivery", "message_id", messageID, "error", err)
	}

	res, err := m.client.Insert(ctx, args, insertOpts)
	if err != nil {
		return "", fmt.Errorf("enqueue delivery: %w", err)
	}

	m.log.Info("envelope enqueued",
		"message_id", messageID,
		"job_type", env.API.Name,
		"river_job_id", insertedJobID(res),
		"delay", env.Delay,
	)
	return messageID, nil
}

// insertedJobID normalizes an insert result into a plain job id for logging.
func insertedJobID(res *rivertype.JobInsertResult) int64 {
	if res == nil || res.Job == nil {
		return 0
	}
	return res.Job.ID
}
