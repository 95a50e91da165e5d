package authclient_test

import (
	"testing"

	"github.com/goliatone/go-authclient"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		status   authclient.Status
		expected authclient.Decision
	}{
		{authclient.StatusIdle, authclient.ShowLoading},
		{authclient.StatusLoading, authclient.ShowLoading},
		{authclient.StatusAuthenticated, authclient.RenderProtected},
		{authclient.StatusUnauthenticated, authclient.RedirectToLogin},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, authclient.Decide(tc.status), "status %s", tc.status)
	}
}

func TestDecide_UnknownStatusShowsLoading(t *testing.T) {
	assert.Equal(t, authclient.ShowLoading, authclient.Decide(authclient.Status("bogus")))
}
