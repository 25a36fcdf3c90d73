// Package sqlkv implements storage.Store over a single key/value table in any
// database/sql database. Dialects supply the SQL text.
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
)

// Dialect holds the statements a database needs to act as a key/value store.
type Dialect struct {
	// Name is used in error messages.
	Name string

	// Schema creates the key/value table if it does not exist.
	Schema string

	// Get selects the value for one key (one bind parameter).
	Get string

	// Upsert inserts or replaces a value (key, value bind parameters).
	Upsert string

	// Delete removes one key (one bind parameter).
	Delete string
}

// Store implements storage.Store using database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
	closed  atomic.Bool
}

var _ storage.Store = (*Store)(nil)

// New runs the dialect schema against db and returns a store over it.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	if _, err := db.ExecContext(ctx, dialect.Schema); err != nil {
		return nil, fmt.Errorf("%s: failed to run migrations: %w", dialect.Name, err)
	}
	return &Store{db: db, dialect: dialect}, nil
}

// View runs fn against the database outside of a transaction.
func (s *Store) View(_ context.Context, fn func(storage.Reader) error) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	return fn(&conn{q: s.db, d: s.dialect})
}

// Update runs fn inside a database transaction and commits only if fn succeeds.
func (s *Store) Update(ctx context.Context, fn func(storage.Txn) error) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", s.dialect.Name, err)
	}
	defer tx.Rollback()

	if err := fn(&conn{q: tx, d: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", s.dialect.Name, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type conn struct {
	q queryer
	d Dialect
}

func (c *conn) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.q.QueryRowContext(ctx, c.d.Get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get %q: %w", c.d.Name, key, err)
	}
	return value, nil
}

func (c *conn) Set(ctx context.Context, key string, value []byte) error {
	if _, err := c.q.ExecContext(ctx, c.d.Upsert, key, value); err != nil {
		return fmt.Errorf("%s: failed to set %q: %w", c.d.Name, key, err)
	}
	return nil
}

func (c *conn) Delete(ctx context.Context, key string) error {
	if _, err := c.q.ExecContext(ctx, c.d.Delete, key); err != nil {
		return fmt.Errorf("%s: failed to delete %q: %w", c.d.Name, key, err)
	}
	return nil
}
