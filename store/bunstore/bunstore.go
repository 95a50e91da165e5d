// Package bunstore persists the credential as a single keyed row, for
// desktop clients that already carry a local profile database.
package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-authclient"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Credential is the persisted row model.
type Credential struct {
	bun.BaseModel `bun:"table:session_credentials,alias:cred"`
	Key           string     `bun:"key,pk" json:"key"`
	Token         string     `bun:"token,notnull" json:"token,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Store keeps the credential in a bun-managed table.
type Store struct {
	db  *bun.DB
	key string
}

// Verify interface compliance
var _ authclient.Store = (*Store)(nil)

// New returns a store writing under the given entry key.
func New(db *bun.DB, key string) *Store {
	if key == "" {
		key = "token"
	}
	return &Store{db: db, key: key}
}

// OpenSQLite opens a sqlite-backed bun DB for the given DSN,
// e.g. "file:session.db" or "file::memory:?cache=shared".
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to open sqlite database")
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// EnsureSchema creates the credential table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*Credential)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create credential table")
	}
	return nil
}

// Load reads the credential row. A missing row is not an error.
func (s *Store) Load(ctx context.Context) (string, bool, error) {
	cred := &Credential{}
	err := s.db.NewSelect().
		Model(cred).
		Where("key = ?", s.key).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to load credential row")
	}
	return cred.Token, cred.Token != "", nil
}

// Save upserts the credential row.
func (s *Store) Save(ctx context.Context, token string) error {
	now := time.Now()
	cred := &Credential{Key: s.key, Token: token, UpdatedAt: &now}

	_, err := s.db.NewInsert().
		Model(cred).
		On("CONFLICT (key) DO UPDATE").
		Set("token = EXCLUDED.token").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to save credential row")
	}
	return nil
}

// Clear deletes the credential row. Safe when no row exists.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*Credential)(nil)).
		Where("key = ?", s.key).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to clear credential row")
	}
	return nil
}
