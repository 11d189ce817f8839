package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/serenvista/portal/internal/dispatch"
)

// ScheduleHandlers exposes the publisher over HTTP. Scheduling failures are
// soft: the response is always a PublishResult, with ok=false carrying the
// reason, so these endpoints keep returning normal responses even when the
// queue integration is absent or down.
type ScheduleHandlers struct {
	scheduler *dispatch.Scheduler
}

// NewScheduleHandlers builds the schedule endpoints around a scheduler.
func NewScheduleHandlers(scheduler *dispatch.Scheduler) *ScheduleHandlers {
	return &ScheduleHandlers{scheduler: scheduler}
}

type emailRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Delay   string `json:"delay,omitempty"`
}

type userRequest struct {
	UserID string `json:"userId"`
}

// Email handles POST /api/schedule/email.
func (h *ScheduleHandlers) Email(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decode(w, r, &req) {
		return
	}
	writeResult(w, h.scheduler.ScheduleEmailJob(r.Context(), req.Email, req.Subject, req.Delay))
}

// Analytics handles POST /api/schedule/analytics.
func (h *ScheduleHandlers) Analytics(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decode(w, r, &req) {
		return
	}
	writeResult(w, h.scheduler.ScheduleAnalyticsJob(r.Context(), req.UserID))
}

// SubscriptionCheck handles POST /api/schedule/subscription-check. The 1-day
// delay is fixed; the request carries no delay field.
func (h *ScheduleHandlers) SubscriptionCheck(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decode(w, r, &req) {
		return
	}
	writeResult(w, h.scheduler.ScheduleSubscriptionCheck(r.Context(), req.UserID))
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return false
	}
	return true
}

func writeResult(w http.ResponseWriter, res dispatch.PublishResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(res)
}
