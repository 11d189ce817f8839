package jobs

import "encoding/json"

// DeliveryArgs is the internal relay job that carries a published envelope to
// its callback endpoint. Body holds the payload bytes exactly as submitted;
// the worker must POST them unmodified so signature verification on the
// receiving side runs over the original bytes.
type DeliveryArgs struct {
	MessageID  string          `json:"message_id"`
	JobType    string          `json:"job_type"`
	URL        string          `json:"url"`
	Body       json.RawMessage `json:"body"`
	ScheduleID string          `json:"schedule_id,omitempty"`
	NotBefore  int64           `json:"not_before,omitempty"` // epoch seconds
}

// Kind returns the job type name.
func (DeliveryArgs) Kind() string { return "relay_delivery" }
