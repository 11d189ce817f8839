package deliveries

import "time"

// Status is the state of a callback delivery.
type Status string

const (
	StatusPending Status = "pending"
	StatusSending Status = "sending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Delivery is one callback delivery tracked in the log. The log is
// operational visibility only; the queue owns retry state.
type Delivery struct {
	ID            string     `json:"id" db:"id"`
	MessageID     string     `json:"message_id" db:"message_id"`
	JobType       string     `json:"job_type" db:"job_type"`
	URL           string     `json:"url" db:"url"`
	Status        Status     `json:"status" db:"status"`
	AttemptCount  int        `json:"attempt_count" db:"attempt_count"`
	ResponseCode  int        `json:"response_code" db:"response_code"`
	ErrorMessage  string     `json:"error_message" db:"error_message"`
	ScheduledFor  *time.Time `json:"scheduled_for" db:"scheduled_for"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	LastAttemptAt *time.Time `json:"last_attempt_at" db:"last_attempt_at"`
}
