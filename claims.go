package authclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthClaims is the decoded view of a credential. Claims are recomputed from
// the raw token on every decode, never persisted on their own.
type AuthClaims interface {
	Subject() string
	UserID() string
	Role() string
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole string `json:"role,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID, falling back to the subject claim
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Role returns the role claim
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// Expires returns the expiry instant, zero when the claim is absent
func (c *JWTClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IssuedAt returns the issue instant, zero when the claim is absent
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.IssuedAt.Time
}

// SubjectUUID parses the subject claim as a UUID.
func (c *JWTClaims) SubjectUUID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject())
}
