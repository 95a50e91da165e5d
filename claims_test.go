package authclient_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-authclient"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTClaims_Accessors(t *testing.T) {
	subject := uuid.New().String()
	now := time.Now()

	claims := &authclient.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserRole: "secretary",
	}

	assert.Equal(t, subject, claims.Subject())
	assert.Equal(t, subject, claims.UserID())
	assert.Equal(t, "secretary", claims.Role())
	assert.WithinDuration(t, now, claims.IssuedAt(), time.Second)
	assert.WithinDuration(t, now.Add(time.Hour), claims.Expires(), time.Second)

	parsed, err := claims.SubjectUUID()
	require.NoError(t, err)
	assert.Equal(t, subject, parsed.String())

	assert.True(t, authclient.HasSubjectUUID(claims))
}

func TestJWTClaims_UIDOverridesSubject(t *testing.T) {
	claims := &authclient.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-1"},
		UID:              "uid-1",
	}

	assert.Equal(t, "uid-1", claims.UserID())
	assert.Equal(t, "sub-1", claims.Subject())
}

func TestJWTClaims_MissingTimesAreZero(t *testing.T) {
	claims := &authclient.JWTClaims{}
	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
}

func TestHasSubjectUUID(t *testing.T) {
	assert.False(t, authclient.HasSubjectUUID(nil))
	assert.False(t, authclient.HasSubjectUUID(&authclient.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid"},
	}))
}

func TestClaimsContext(t *testing.T) {
	claims := &authclient.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}

	ctx := authclient.WithClaimsContext(context.Background(), claims)
	found, ok := authclient.GetClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-1", found.Subject())

	_, ok = authclient.GetClaims(context.Background())
	assert.False(t, ok)
}

func TestProfileContext(t *testing.T) {
	profile := &authclient.Profile{ID: 1, Name: "Ada"}

	ctx := authclient.WithProfileContext(context.Background(), profile)
	found, ok := authclient.ProfileFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "Ada", found.Name)

	_, ok = authclient.ProfileFromContext(context.Background())
	assert.False(t, ok)
}
