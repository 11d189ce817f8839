// Package deliveries persists a log of callback deliveries. Writes are best
// effort from the worker's point of view: a failed log write never fails a
// delivery.
package deliveries

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores delivery records in Postgres.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a delivery repository on the given pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new delivery record. The ID is assigned here.
func (r *Repository) Create(ctx context.Context, d *Delivery) error {
	d.ID = uuid.New().String()
	d.CreatedAt = time.Now()
	if d.Status == "" {
		d.Status = StatusPending
	}

	query := `
		INSERT INTO relay_deliveries (
			id, message_id, job_type, url, status, attempt_count,
			response_code, error_message, scheduled_for, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		d.ID,
		d.MessageID,
		d.JobType,
		d.URL,
		d.Status,
		d.AttemptCount,
		d.ResponseCode,
		d.ErrorMessage,
		d.ScheduledFor,
		d.CreatedAt,
	)
	return err
}

// UpdateStatus records the outcome of a delivery attempt, keyed by the
// queue-assigned message id.
func (r *Repository) UpdateStatus(ctx context.Context, messageID string, status Status, attempt, responseCode int, errorMessage string) error {
	query := `
		UPDATE relay_deliveries
		SET status = $2, attempt_count = $3, response_code = $4,
		    error_message = $5, last_attempt_at = $6
		WHERE message_id = $1
	`
	_, err := r.db.Exec(ctx, query,
		messageID, status, attempt, responseCode, errorMessage, time.Now(),
	)
	return err
}

// GetByMessageID fetches one delivery record.
func (r *Repository) GetByMessageID(ctx context.Context, messageID string) (*Delivery, error) {
	query := `
		SELECT id, message_id, job_type, url, status, attempt_count,
		       response_code, error_message, scheduled_for, created_at,
		       last_attempt_at
		FROM relay_deliveries
		WHERE message_id = $1
	`
	var d Delivery
	err := r.db.QueryRow(ctx, query, messageID).Scan(
		&d.ID,
		&d.MessageID,
		&d.JobType,
		&d.URL,
		&d.Status,
		&d.AttemptCount,
		&d.ResponseCode,
		&d.ErrorMessage,
		&d.ScheduledFor,
		&d.CreatedAt,
		&d.LastAttemptAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get delivery %s: %w", messageID, err)
	}
	return &d, nil
}

// ListRecent returns the most recent deliveries, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*Delivery, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, message_id, job_type, url, status, attempt_count,
		       response_code, error_message, scheduled_for, created_at,
		       last_attempt_at
		FROM relay_deliveries
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Delivery
	for rows.Next() {
		var d Delivery
		err := rows.Scan(
			&d.ID,
			&d.MessageID,
			&d.JobType,
			&d.URL,
			&d.Status,
			&d.AttemptCount,
			&d.ResponseCode,
			&d.ErrorMessage,
			&d.ScheduledFor,
			&d.CreatedAt,
			&d.LastAttemptAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
