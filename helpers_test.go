package authclient_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-authclient"
	"github.com/stretchr/testify/require"
)

// signedToken builds a syntactically valid JWT for validator and controller
// tests. Signature correctness is irrelevant to the client-side decoder.
func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()

	claims := &authclient.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserRole: "doctor",
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

type apiStub struct {
	mu sync.Mutex

	loginResp  *authclient.LoginResponse
	loginErr   error
	profile    *authclient.Profile
	meErr      error
	newToken   string
	refreshErr error

	loginCalls   int
	meCalls      int
	refreshCalls int

	// meBlock and loginBlock, when non-nil, hold the call until closed.
	meBlock    chan struct{}
	loginBlock chan struct{}
}

func (a *apiStub) Login(_ context.Context, _ authclient.LoginPayload) (*authclient.LoginResponse, error) {
	a.mu.Lock()
	a.loginCalls++
	block := a.loginBlock
	a.mu.Unlock()
	if block != nil {
		<-block
	}
	return a.loginResp, a.loginErr
}

func (a *apiStub) Me(_ context.Context) (*authclient.Profile, error) {
	a.mu.Lock()
	a.meCalls++
	block := a.meBlock
	a.mu.Unlock()
	if block != nil {
		<-block
	}
	return a.profile, a.meErr
}

func (a *apiStub) Refresh(_ context.Context, _ string) (string, error) {
	a.mu.Lock()
	a.refreshCalls++
	a.mu.Unlock()
	return a.newToken, a.refreshErr
}

func (a *apiStub) calls() (login, me, refresh int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loginCalls, a.meCalls, a.refreshCalls
}

type recordedSink struct {
	mu     sync.Mutex
	events []authclient.SessionEvent
}

func (s *recordedSink) Record(_ context.Context, event authclient.SessionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordedSink) types() []authclient.SessionEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]authclient.SessionEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.EventType)
	}
	return out
}
