package webhook

import (
	"net/http"
	"strconv"
)

// Queue-assigned callback headers, readable regardless of verification
// outcome.
const (
	MessageIDHeader  = "X-Relay-Message-Id"
	RetriedHeader    = "X-Relay-Retried"
	ScheduleIDHeader = "X-Relay-Schedule-Id"
	NotBeforeHeader  = "X-Relay-Not-Before"
)

// Metadata is the queue-assigned information on an inbound callback. It is
// derived from headers only; its presence is no proof of authenticity.
type Metadata struct {
	MessageID  string
	RetryCount int
	ScheduleID string
	NotBefore  int64 // epoch seconds, 0 when absent
}

// GetMetadata reads the queue headers off a request. Pure header read, no
// side effects, independent of verification.
func GetMetadata(r *http.Request) Metadata {
	md := Metadata{
		MessageID:  r.Header.Get(MessageIDHeader),
		ScheduleID: r.Header.Get(ScheduleIDHeader),
	}
	if raw := r.Header.Get(RetriedHeader); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			md.RetryCount = n
		}
	}
	if raw := r.Header.Get(NotBeforeHeader); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			md.NotBefore = n
		}
	}
	return md
}
