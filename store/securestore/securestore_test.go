package securestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-authclient/store/securestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	store := securestore.New(t.TempDir(), "token", []byte("device-secret"))
	ctx := context.Background()

	_, present, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, present)

	require.NoError(t, store.Save(ctx, "T1"))

	token, present, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "T1", token)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
}

func TestStore_CiphertextNotPlaintext(t *testing.T) {
	dir := t.TempDir()
	store := securestore.New(dir, "token", []byte("device-secret"))

	require.NoError(t, store.Save(context.Background(), "super-secret-token"))

	raw, err := os.ReadFile(filepath.Join(dir, "token"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret-token")
}

func TestStore_TamperedFileFailsLoad(t *testing.T) {
	dir := t.TempDir()
	store := securestore.New(dir, "token", []byte("device-secret"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "T1"))

	path := filepath.Join(dir, "token")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, present, err := store.Load(ctx)
	assert.False(t, present)
	assert.Error(t, err)
}

func TestStore_WrongSecretFailsLoad(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, securestore.New(dir, "token", []byte("secret-a")).Save(ctx, "T1"))

	_, present, err := securestore.New(dir, "token", []byte("secret-b")).Load(ctx)
	assert.False(t, present)
	assert.Error(t, err)
}

func TestStore_EmptySecretSurfacesOnUse(t *testing.T) {
	store := securestore.New(t.TempDir(), "token", nil)
	ctx := context.Background()

	_, _, err := store.Load(ctx)
	assert.Error(t, err)
	assert.Error(t, store.Save(ctx, "T1"))
}
