package authclient

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Store persists a single opaque credential string. Implementations may fail;
// the controller treats a failed Load as "no credential" and a failed
// Save/Clear as best-effort.
type Store interface {
	Load(ctx context.Context) (token string, ok bool, err error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Profile is the server-confirmed identity record returned by the profile
// endpoint after a successful bootstrap or login.
type Profile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Config holds client options
type Config interface {
	GetBaseURL() string
	GetStorageKey() string
	GetHTTPTimeout() int
	GetAuthScheme() string
}

// AuthAPI is the slice of the scheduling backend the session layer consumes.
type AuthAPI interface {
	Login(ctx context.Context, payload LoginPayload) (*LoginResponse, error)
	Me(ctx context.Context) (*Profile, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
