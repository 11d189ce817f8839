package webhook

import (
	"net/http/httptest"
	"testing"
)

func TestGetMetadataDefaults(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/jobs/email", nil)

	md := GetMetadata(r)
	if md.RetryCount != 0 {
		t.Errorf("RetryCount = %d, want 0 when the header is absent", md.RetryCount)
	}
	if md.MessageID != "" || md.ScheduleID != "" || md.NotBefore != 0 {
		t.Errorf("expected zero metadata, got %+v", md)
	}
}

func TestGetMetadataReadsHeaders(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/jobs/email", nil)
	r.Header.Set(MessageIDHeader, "msg_abc")
	r.Header.Set(RetriedHeader, "2")
	r.Header.Set(ScheduleIDHeader, "sched_xyz")
	r.Header.Set(NotBeforeHeader, "1735689600")

	md := GetMetadata(r)
	if md.MessageID != "msg_abc" {
		t.Errorf("MessageID = %q", md.MessageID)
	}
	if md.RetryCount != 2 {
		t.Errorf("RetryCount = %d, want 2", md.RetryCount)
	}
	if md.ScheduleID != "sched_xyz" {
		t.Errorf("ScheduleID = %q", md.ScheduleID)
	}
	if md.NotBefore != 1735689600 {
		t.Errorf("NotBefore = %d", md.NotBefore)
	}
}

func TestGetMetadataMalformedRetried(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/jobs/email", nil)
	r.Header.Set(RetriedHeader, "banana")

	if md := GetMetadata(r); md.RetryCount != 0 {
		t.Errorf("RetryCount = %d, want 0 for a malformed header", md.RetryCount)
	}
}
