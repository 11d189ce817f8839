// Package server assembles the portal's HTTP surface.
package server

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/serenvista/portal/internal/handlers"
	"github.com/serenvista/portal/internal/jobs"
	"github.com/serenvista/portal/internal/webhook"
)

// New builds the portal handler: schedule endpoints, verified job callback
// endpoints and a liveness probe, wrapped in otelhttp instrumentation.
func New(schedule *handlers.ScheduleHandlers, jobHandlers *handlers.JobHandlers, verifier *webhook.Verifier) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/schedule/email", schedule.Email)
	mux.HandleFunc("POST /api/schedule/analytics", schedule.Analytics)
	mux.HandleFunc("POST /api/schedule/subscription-check", schedule.SubscriptionCheck)

	mux.Handle("POST /api/jobs/"+jobs.KindEmail, webhook.Wrap(verifier, jobHandlers.Email))
	mux.Handle("POST /api/jobs/"+jobs.KindAnalytics, webhook.Wrap(verifier, jobHandlers.Analytics))
	mux.Handle("POST /api/jobs/"+jobs.KindSubscriptionCheck, webhook.Wrap(verifier, jobHandlers.SubscriptionCheck))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return otelhttp.NewHandler(mux, "portal")
}
