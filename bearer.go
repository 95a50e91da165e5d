package authclient

import (
	"net/http"
	"sync"
)

// BearerSource holds the current outgoing Authorization header. It is the one
// piece of state shared by every request-issuing call site: the controller is
// the only writer, any number of transports read. It is an explicitly-owned
// object rather than a process global so tests can run isolated sessions.
type BearerSource struct {
	mu     sync.RWMutex
	scheme string
	token  string
}

// NewBearerSource returns an empty source using the given auth scheme,
// defaulting to "Bearer".
func NewBearerSource(scheme ...string) *BearerSource {
	s := "Bearer"
	if len(scheme) > 0 && scheme[0] != "" {
		s = scheme[0]
	}
	return &BearerSource{scheme: s}
}

// SetBearer replaces the outgoing credential.
func (b *BearerSource) SetBearer(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
}

// Clear removes the outgoing credential. Safe on an already-empty source.
func (b *BearerSource) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = ""
}

// CurrentHeader returns the full header value and whether one is set.
func (b *BearerSource) CurrentHeader() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.token == "" {
		return "", false
	}
	return b.scheme + " " + b.token, true
}

// CurrentToken returns the raw credential without the scheme prefix.
func (b *BearerSource) CurrentToken() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.token, b.token != ""
}

// Transport injects the current Authorization header into every request. The
// header is read at round-trip time, not construction time, so a credential
// change is picked up by the next request and never applied retroactively to
// requests already in flight.
type Transport struct {
	Source *BearerSource
	Base   http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if t.Source != nil {
		if header, ok := t.Source.CurrentHeader(); ok && req.Header.Get("Authorization") == "" {
			// RoundTrippers must not mutate the caller's request
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", header)
		}
	}

	return base.RoundTrip(req)
}
