package workers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenvista/portal/internal/jobs"
	"github.com/serenvista/portal/internal/signature"
	"github.com/serenvista/portal/internal/webhook"
)

func deliveryJob(args jobs.DeliveryArgs, attempt int) *river.Job[jobs.DeliveryArgs] {
	return &river.Job[jobs.DeliveryArgs]{
		JobRow: &rivertype.JobRow{ID: 42, Attempt: attempt},
		Args:   args,
	}
}

func TestDeliveryWorkerSignsAndDelivers(t *testing.T) {
	keys := signature.Keys{Current: "secret"}
	body := json.RawMessage(`{"email":"a@b.com","subject":"hi"}`)

	var receivedHeaders http.Header
	var receivedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedHeaders = r.Header.Clone()
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewDeliveryWorker(keys, nil, 2*time.Second, nil)
	args := jobs.DeliveryArgs{
		MessageID: "msg_1",
		JobType:   "email",
		URL:       srv.URL + "/api/jobs/email",
		Body:      body,
	}

	err := w.Work(context.Background(), deliveryJob(args, 1))
	require.NoError(t, err)
	require.NotNil(t, receivedHeaders, "no callback received")

	// The payload bytes arrive exactly as submitted.
	assert.Equal(t, string(body), string(receivedBody))
	assert.Equal(t, "application/json", receivedHeaders.Get("Content-Type"))
	assert.Equal(t, "msg_1", receivedHeaders.Get(webhook.MessageIDHeader))
	assert.Equal(t, "0", receivedHeaders.Get(webhook.RetriedHeader), "first attempt means zero retries")

	// The signature verifies over the request path and the received bytes.
	sig := receivedHeaders.Get(signature.Header)
	require.NotEmpty(t, sig)
	assert.True(t, keys.Verify("/api/jobs/email", receivedBody, sig))
}

func TestDeliveryWorkerRetriedHeader(t *testing.T) {
	var retried string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		retried = r.Header.Get(webhook.RetriedHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewDeliveryWorker(signature.Keys{Current: "secret"}, nil, 2*time.Second, nil)
	args := jobs.DeliveryArgs{MessageID: "msg_2", JobType: "email", URL: srv.URL + "/api/jobs/email", Body: json.RawMessage(`{}`)}

	require.NoError(t, w.Work(context.Background(), deliveryJob(args, 3)))
	assert.Equal(t, "2", retried)
}

func TestDeliveryWorkerScheduleHeaders(t *testing.T) {
	var scheduleID, notBefore string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheduleID = r.Header.Get(webhook.ScheduleIDHeader)
		notBefore = r.Header.Get(webhook.NotBeforeHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewDeliveryWorker(signature.Keys{Current: "secret"}, nil, 2*time.Second, nil)
	args := jobs.DeliveryArgs{
		MessageID:  "msg_3",
		JobType:    "subscription-check",
		URL:        srv.URL + "/api/jobs/subscription-check",
		Body:       json.RawMessage(`{"userId":"u1"}`),
		ScheduleID: "sched_1",
		NotBefore:  1735689600,
	}

	require.NoError(t, w.Work(context.Background(), deliveryJob(args, 1)))
	assert.Equal(t, "sched_1", scheduleID)
	assert.Equal(t, "1735689600", notBefore)
}

func TestDeliveryWorkerNon2xxReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	w := NewDeliveryWorker(signature.Keys{Current: "secret"}, nil, 2*time.Second, nil)
	args := jobs.DeliveryArgs{MessageID: "msg_4", JobType: "email", URL: srv.URL + "/api/jobs/email", Body: json.RawMessage(`{}`)}

	err := w.Work(context.Background(), deliveryJob(args, 1))
	require.Error(t, err, "a rejected callback must surface as an error so the queue retries")
	assert.Contains(t, err.Error(), "401")
}

func TestDeliveryWorkerUnreachableReceiver(t *testing.T) {
	w := NewDeliveryWorker(signature.Keys{Current: "secret"}, nil, time.Second, nil)
	args := jobs.DeliveryArgs{MessageID: "msg_5", JobType: "email", URL: "http://127.0.0.1:1/api/jobs/email", Body: json.RawMessage(`{}`)}

	err := w.Work(context.Background(), deliveryJob(args, 1))
	require.Error(t, err)
}
