package authclient_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goliatone/go-authclient"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassifiers(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expired     bool
		malformed   bool
		network     bool
		credentials bool
	}{
		{
			name: "nil error",
		},
		{
			name:    "sentinel expired",
			err:     authclient.ErrTokenExpired,
			expired: true,
		},
		{
			name:      "sentinel malformed",
			err:       authclient.ErrTokenMalformed,
			malformed: true,
		},
		{
			name:    "network sentinel",
			err:     authclient.ErrAuthUnreachable,
			network: true,
		},
		{
			name:        "credentials sentinel",
			err:         authclient.ErrInvalidCredentials,
			credentials: true,
		},
		{
			name:    "jwt library expiry text",
			err:     errors.New("token has invalid claims: token is expired"),
			expired: true,
		},
		{
			name:      "jwt library malformed text",
			err:       errors.New("token is malformed: could not base64 decode header"),
			malformed: true,
		},
		{
			name: "unrelated error",
			err:  fmt.Errorf("boom"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expired, authclient.IsTokenExpiredError(tc.err))
			assert.Equal(t, tc.malformed, authclient.IsMalformedError(tc.err))
			assert.Equal(t, tc.network, authclient.IsNetworkError(tc.err))
			assert.Equal(t, tc.credentials, authclient.IsCredentialsError(tc.err))
		})
	}
}

func TestCredentialsErrorKeepsServerMessage(t *testing.T) {
	clone := authclient.ErrInvalidCredentials.Clone()
	clone.Message = "Email ou mot de passe incorrect"

	assert.True(t, authclient.IsCredentialsError(clone))
	assert.Contains(t, clone.Error(), "Email ou mot de passe incorrect")
}
