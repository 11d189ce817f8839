package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/serenvista/portal/internal/logger"
)

// maxBodyBytes bounds callback bodies; job payloads are small JSON objects.
const maxBodyBytes = 1 << 20

// Response is what a job handler returns; it is written to the client
// unmodified.
type Response struct {
	Status int
	Body   any
}

// JSON builds a Response with a JSON body.
func JSON(status int, body any) Response {
	return Response{Status: status, Body: body}
}

// Handler is a typed job callback handler.
type Handler[T any] func(ctx context.Context, body T, r *http.Request) Response

// Wrap turns a typed handler into an http.HandlerFunc guarded by the
// verifier. The raw body is read exactly once and the same bytes feed both
// signature verification and JSON decoding; verifying a re-serialized form
// would let forged payloads through.
func Wrap[T any](v *Verifier, handler Handler[T]) http.HandlerFunc {
	log := logger.NewLogger("webhook")

	return func(w http.ResponseWriter, r *http.Request) {
		rawBody, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			log.Error("failed to read callback body", "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "Invalid JSON body",
			})
			return
		}

		if res := v.Verify(r, rawBody); !res.Valid {
			md := GetMetadata(r)
			log.Warn("rejected callback",
				"reason", res.Err,
				"message_id", md.MessageID,
				"retry_count", md.RetryCount,
			)
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":   "Unauthorized",
				"message": res.Err,
			})
			return
		}

		var body T
		if err := json.Unmarshal(rawBody, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "Invalid JSON body",
			})
			return
		}

		resp := handler(r.Context(), body, r)
		writeJSON(w, resp.Status, resp.Body)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}
