// Package memory provides an in-memory credential store, mainly for tests
// and short-lived tooling.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-authclient"
)

// ErrForcedFailure is returned by an operation whose failure flag is set.
var ErrForcedFailure = errors.New("memory store: forced failure")

// Store keeps the credential in process memory.
type Store struct {
	mu      sync.Mutex
	token   string
	present bool

	// Failure flags let tests exercise storage-degradation paths.
	FailLoad  bool
	FailSave  bool
	FailClear bool
}

// Verify interface compliance
var _ authclient.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Seed pre-loads a credential, as if a previous run had persisted it.
func (s *Store) Seed(token string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.present = true
	return s
}

// Load returns the held credential.
func (s *Store) Load(_ context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailLoad {
		return "", false, ErrForcedFailure
	}
	return s.token, s.present, nil
}

// Save replaces the held credential.
func (s *Store) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSave {
		return ErrForcedFailure
	}
	s.token = token
	s.present = true
	return nil
}

// Clear drops the held credential. Safe when already empty.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailClear {
		return ErrForcedFailure
	}
	s.token = ""
	s.present = false
	return nil
}
