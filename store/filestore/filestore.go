// Package filestore persists the credential as a plain file, the equivalent
// of browser local storage for CLI and desktop clients.
package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-authclient"
	goerrors "github.com/goliatone/go-errors"
)

// Store keeps the credential in <dir>/<key>.
type Store struct {
	dir string
	key string
}

// Verify interface compliance
var _ authclient.Store = (*Store)(nil)

// New returns a store rooted at dir. The directory is created on first Save.
func New(dir, key string) *Store {
	if key == "" {
		key = "token"
	}
	return &Store{dir: dir, key: key}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, s.key)
}

// Load reads the credential file. A missing file is not an error.
func (s *Store) Load(_ context.Context) (string, bool, error) {
	raw, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read credential file")
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// Save writes the credential atomically with owner-only permissions.
func (s *Store) Save(_ context.Context, token string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create credential directory")
	}

	tmp, err := os.CreateTemp(s.dir, s.key+".*")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create temp credential file")
	}

	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to write credential file")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to set credential file mode")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to close credential file")
	}

	if err := os.Rename(tmp.Name(), s.path()); err != nil {
		os.Remove(tmp.Name())
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to replace credential file")
	}
	return nil
}

// Clear removes the credential file. Safe when the file does not exist.
func (s *Store) Clear(_ context.Context) error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to remove credential file")
	}
	return nil
}
