// Package signature implements the shared-secret scheme used between the
// push queue and the portal's job callback endpoints. Signatures are
// HMAC-SHA256 over the callback URL concatenated with the raw request body,
// hex-encoded. Verification must run over the exact bytes that were sent;
// re-serializing the body before checking would let forged payloads slip
// through serialization differences.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Header is the request header carrying the computed signature.
const Header = "X-Relay-Signature"

// Keys holds the active signing secrets. Next is non-empty only while a key
// rotation is in flight: callbacks signed with either key must verify, so
// in-flight deliveries signed with the outgoing key still pass after the
// receiver has been redeployed with the incoming key as Current.
type Keys struct {
	Current string
	Next    string
}

// Configured reports whether any signing key is available.
func (k Keys) Configured() bool {
	return k.Current != ""
}

// Sign computes the signature for a callback to url carrying body, using the
// current key.
func (k Keys) Sign(url string, body []byte) string {
	return compute(k.Current, url, body)
}

// Verify checks sig against url and body using the current key, falling back
// to the next key when one is configured.
func (k Keys) Verify(url string, body []byte, sig string) bool {
	if verifyOne(k.Current, url, body, sig) {
		return true
	}
	if k.Next != "" {
		return verifyOne(k.Next, url, body, sig)
	}
	return false
}

func verifyOne(secret, url string, body []byte, sig string) bool {
	expected := compute(secret, url, body)
	return hmac.Equal([]byte(expected), []byte(sig))
}

func compute(secret, url string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(url))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
