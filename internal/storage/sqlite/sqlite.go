// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage/sqlkv"
)

const (
	KeyPath        = "path"
	KeyBusyTimeout = "busy_timeout"
)

func init() {
	storage.Register("sqlite", NewFactory, Defaults)
}

// Defaults returns the default options for the SQLite backend.
func Defaults() storage.Options {
	return storage.Options{
		KeyPath:        "./data/registry.db",
		KeyBusyTimeout: "5000",
	}
}

// NewFactory opens a SQLite store using opts.
func NewFactory(ctx context.Context, opts storage.Options) (storage.Store, error) {
	r := storage.NewOptionReader("sqlite", opts)
	path := r.Path(KeyPath)
	busyTimeout := r.Int(KeyBusyTimeout, 5000)
	if err := r.Err(); err != nil {
		return nil, err
	}

	s, err := New(ctx, path, busyTimeout)
	if err != nil {
		return nil, storage.OpenError("sqlite", KeyPath, "failed to open database", err)
	}
	return s, nil
}

// New opens (creating if needed) the database at dbPath.
// It creates the parent directories and runs migrations automatically.
func New(ctx context.Context, dbPath string, busyTimeoutMillis int) (*sqlkv.Store, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMillis)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	s, err := sqlkv.New(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("sqlite store initialized", "path", dbPath)
	return s, nil
}
