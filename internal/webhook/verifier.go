// Package webhook authenticates inbound job callbacks from the push queue
// and gates execution of the job handlers on verification success.
package webhook

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/serenvista/portal/internal/logger"
	"github.com/serenvista/portal/internal/observability"
	"github.com/serenvista/portal/internal/signature"
)

// VerificationResult is the gate for whether a wrapped handler runs.
type VerificationResult struct {
	Valid bool
	Err   string
}

// Verifier authenticates callbacks against the configured signing keys.
// Safe for concurrent use: keys and the environment flag are fixed at
// construction.
type Verifier struct {
	keys       signature.Keys
	production bool
	log        *slog.Logger
	metrics    *observability.WebhookMetrics
}

// NewVerifier builds a Verifier. The production flag is injected rather than
// read from the environment at the point of use so both policy branches stay
// unit-testable. metrics may be nil.
func NewVerifier(keys signature.Keys, production bool, metrics *observability.WebhookMetrics) *Verifier {
	return &Verifier{
		keys:       keys,
		production: production,
		log:        logger.NewLogger("webhook-verifier"),
		metrics:    metrics,
	}
}

// Verify authenticates the request against rawBody, which must be the exact
// bytes read from the request. Verification never panics past this function;
// any fault degrades to a rejection.
func (v *Verifier) Verify(r *http.Request, rawBody []byte) (res VerificationResult) {
	defer func() {
		if p := recover(); p != nil {
			v.log.Error("verification fault", "panic", fmt.Sprint(p))
			res = VerificationResult{Err: fmt.Sprintf("verification failed: %v", p)}
		}
		v.metrics.RecordVerification(r.Context(), res.Valid)
	}()

	if !v.keys.Configured() {
		if v.production {
			// Fail closed: production must never accept unsigned
			// callbacks.
			return VerificationResult{Err: "verification not configured for production"}
		}
		// Fail open outside production so missing queue credentials do
		// not block local development.
		v.log.Warn("no signing key configured, skipping webhook verification")
		return VerificationResult{Valid: true}
	}

	sig := r.Header.Get(signature.Header)
	if sig == "" {
		return VerificationResult{Err: "missing signature header"}
	}

	if !v.keys.Verify(r.URL.RequestURI(), rawBody, sig) {
		return VerificationResult{Err: "invalid signature"}
	}

	return VerificationResult{Valid: true}
}
