// Package storage provides the transactional key-value abstraction the registry
// persists its state through, plus shared helpers for the concrete backends.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the requested key is absent.
	ErrNotFound = errors.New("key not found")

	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("store closed")
)

// Reader reads keys from a consistent view of the store.
type Reader interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
}

// Txn is a read-write transaction. Reads observe the transaction's own pending writes.
type Txn interface {
	Reader

	// Set stores value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Store defines the interface for registry state storage.
// This abstraction allows swapping storage backends (memory, BadgerDB, Redis,
// SQLite, PostgreSQL) without changing the registry.
// All implementations must be safe for concurrent use.
type Store interface {
	// View runs fn against a read-only view of the store.
	View(ctx context.Context, fn func(r Reader) error) error

	// Update runs fn in a read-write transaction. If fn returns an error, none
	// of its writes are applied.
	Update(ctx context.Context, fn func(tx Txn) error) error

	// Close releases any resources held by the store.
	Close() error
}
