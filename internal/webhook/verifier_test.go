package webhook

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/serenvista/portal/internal/signature"
)

func TestVerifyMissingSignatureHeader(t *testing.T) {
	keys := signature.Keys{Current: "secret"}

	for _, production := range []bool{true, false} {
		v := NewVerifier(keys, production, nil)
		r := httptest.NewRequest("POST", "/api/jobs/email", bytes.NewReader(nil))

		res := v.Verify(r, nil)
		if res.Valid {
			t.Errorf("production=%v: accepted a request without a signature header", production)
		}
		if !strings.Contains(res.Err, "signature") {
			t.Errorf("production=%v: error %q does not mention signature", production, res.Err)
		}
	}
}

func TestVerifyValidSignature(t *testing.T) {
	keys := signature.Keys{Current: "secret"}
	v := NewVerifier(keys, true, nil)
	body := []byte(`{"email":"a@b.com","subject":"hi"}`)

	r := httptest.NewRequest("POST", "/api/jobs/email", bytes.NewReader(body))
	r.Header.Set(signature.Header, keys.Sign("/api/jobs/email", body))

	res := v.Verify(r, body)
	if !res.Valid {
		t.Fatalf("valid signature rejected: %s", res.Err)
	}
}

func TestVerifyInvalidSignature(t *testing.T) {
	keys := signature.Keys{Current: "secret"}
	v := NewVerifier(keys, true, nil)
	body := []byte(`{"email":"a@b.com","subject":"hi"}`)

	r := httptest.NewRequest("POST", "/api/jobs/email", bytes.NewReader(body))
	r.Header.Set(signature.Header, "deadbeef")

	res := v.Verify(r, body)
	if res.Valid {
		t.Fatal("invalid signature accepted")
	}
	if !strings.Contains(res.Err, "signature") {
		t.Errorf("error %q does not mention signature", res.Err)
	}
}

func TestVerifyNextKeyFallback(t *testing.T) {
	outgoing := signature.Keys{Current: "old"}
	body := []byte(`{"userId":"u1"}`)
	sig := outgoing.Sign("/api/jobs/analytics", body)

	v := NewVerifier(signature.Keys{Current: "new", Next: "old"}, true, nil)
	r := httptest.NewRequest("POST", "/api/jobs/analytics", bytes.NewReader(body))
	r.Header.Set(signature.Header, sig)

	if res := v.Verify(r, body); !res.Valid {
		t.Fatalf("signature from the outgoing key rejected during rotation: %s", res.Err)
	}
}

func TestVerifyUnconfiguredFailClosed(t *testing.T) {
	v := NewVerifier(signature.Keys{}, true, nil)
	r := httptest.NewRequest("POST", "/api/jobs/email", bytes.NewReader(nil))

	res := v.Verify(r, nil)
	if res.Valid {
		t.Fatal("production accepted a callback with no signing key configured")
	}
	if !strings.Contains(res.Err, "not configured") {
		t.Errorf("error %q does not mention configuration", res.Err)
	}
}

func TestVerifyUnconfiguredFailOpen(t *testing.T) {
	v := NewVerifier(signature.Keys{}, false, nil)
	r := httptest.NewRequest("POST", "/api/jobs/email", bytes.NewReader(nil))

	if res := v.Verify(r, nil); !res.Valid {
		t.Fatalf("development rejected a callback with no signing key configured: %s", res.Err)
	}
}
