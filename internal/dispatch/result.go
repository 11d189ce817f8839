package dispatch

// PublishResult is the uniform outcome of a schedule attempt. Exactly one of
// ID and Err is set, keyed by OK. Schedule operations never return a Go
// error and never panic for validation or transport failures; this result is
// the whole contract.
type PublishResult struct {
	OK  bool   `json:"ok"`
	ID  string `json:"id,omitempty"`
	Err string `json:"error,omitempty"`
}

func success(id string) PublishResult {
	return PublishResult{OK: true, ID: id}
}

func failure(reason string) PublishResult {
	return PublishResult{Err: reason}
}
