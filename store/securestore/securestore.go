// Package securestore persists the credential encrypted at rest, the
// equivalent of the secure item storage mobile platforms provide. The file
// holds nonce||ciphertext sealed with AES-GCM under a key derived from the
// caller's secret via HKDF-SHA256.
package securestore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"os"
	"path/filepath"

	"github.com/goliatone/go-authclient"
	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/hkdf"
)

const keyDerivationInfo = "credential-store"

// Store keeps the encrypted credential in <dir>/<key>.
type Store struct {
	dir    string
	key    string
	aead   cipher.AEAD
	keyErr error
}

// Verify interface compliance
var _ authclient.Store = (*Store)(nil)

// New derives the encryption key from secret and returns the store. Key
// derivation problems surface on the first Load/Save, matching the
// best-effort storage contract.
func New(dir, key string, secret []byte) *Store {
	if key == "" {
		key = "token"
	}
	s := &Store{dir: dir, key: key}
	s.aead, s.keyErr = deriveAEAD(secret)
	return s
}

func deriveAEAD(secret []byte) (cipher.AEAD, error) {
	if len(secret) == 0 {
		return nil, goerrors.New("secure store secret must not be empty", goerrors.CategoryBadInput)
	}

	kdf := hkdf.New(sha256.New, secret, nil, []byte(keyDerivationInfo))
	derived := make([]byte, 32)
	if _, err := io.ReadFull(kdf, derived); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to derive storage key")
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to initialize cipher")
	}
	return cipher.NewGCM(block)
}

func (s *Store) path() string {
	return filepath.Join(s.dir, s.key)
}

// Load reads and decrypts the credential. A missing file is not an error; a
// file that fails to decrypt is reported so the caller degrades to
// "no credential".
func (s *Store) Load(_ context.Context) (string, bool, error) {
	if s.keyErr != nil {
		return "", false, s.keyErr
	}

	raw, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read credential file")
	}

	nonceSize := s.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", false, goerrors.New("credential file truncated", goerrors.CategoryOperation)
	}

	plain, err := s.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", false, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to decrypt credential")
	}
	return string(plain), true, nil
}

// Save encrypts and writes the credential atomically.
func (s *Store) Save(_ context.Context, token string) error {
	if s.keyErr != nil {
		return s.keyErr
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate nonce")
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(token), nil)

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create credential directory")
	}

	tmp, err := os.CreateTemp(s.dir, s.key+".*")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create temp credential file")
	}
	if _, err := tmp.Write(sealed); err != nil {
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
