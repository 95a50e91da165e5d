package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-authclient/store/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	store := filestore.New(t.TempDir(), "token")
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

	_, present, err = store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, present)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	store := filestore.New(t.TempDir(), "token")
	ctx := context.Background()

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	store := filestore.New(t.TempDir(), "token")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "T1"))
	require.NoError(t, store.Save(ctx, "T2"))

	token, present, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "T2", token)
}

func TestStore_OwnerOnlyPermissions(t *testing.T) {
	dir := t.TempDir()
	store := filestore.New(dir, "token")

	require.NoError(t, store.Save(context.Background(), "T1"))

	info, err := os.Stat(filepath.Join(dir, "token"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_EmptyFileIsNoCredential(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("  \n"), 0o600))

	store := filestore.New(dir, "token")
	_, present, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, present)
}
