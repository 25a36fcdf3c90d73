// Package badger provides a BadgerDB-backed storage backend.
package badger

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
)

const (
	KeyPath             = "path"
	KeySyncWrites       = "sync_writes"
	KeyValueLogFileSize = "value_log_file_size"
	KeyInMemory         = "in_memory"
)

func init() {
	storage.Register("badger", NewFactory, Defaults)
}

// Defaults returns the default options for the BadgerDB backend.
func Defaults() storage.Options {
	return storage.Options{
		KeyPath:             "~/.savings-registry/badger",
		KeySyncWrites:       "true",
		KeyValueLogFileSize: strconv.FormatInt(1<<28, 10),
		KeyInMemory:         "false",
	}
}

// NewFactory opens a BadgerDB store using options. With in_memory set the path
// is ignored.
func NewFactory(_ context.Context, options storage.Options) (storage.Store, error) {
	r := storage.NewOptionReader("badger", options)
	if r.Bool(KeyInMemory, false) {
		return NewInMemory()
	}
	path := r.Path(KeyPath)
	syncWrites := r.Bool(KeySyncWrites, true)
	valueLogFileSize := r.Int(KeyValueLogFileSize, 1<<28)
	if err := r.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, storage.OpenError("badger", KeyPath, "failed to create directory", err)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = syncWrites
	if valueLogFileSize > 0 {
		opts.ValueLogFileSize = int64(valueLogFileSize)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, storage.OpenError("badger", KeyPath, "failed to open database", err)
	}

	slog.Info("badger store initialized", "path", path, "sync_writes", syncWrites)
	return NewWithDB(db), nil
}

// NewInMemory opens a BadgerDB instance that keeps everything in memory.
func NewInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, storage.OpenError("badger", KeyInMemory, "failed to open in-memory database", err)
	}

	slog.Info("badger store initialized (in-memory)")
	return NewWithDB(db), nil
}

// Store is a BadgerDB implementation of storage.Store.
type Store struct {
	db     *badger.DB
	closed atomic.Bool
}

var _ storage.Store = (*Store)(nil)

// NewWithDB creates a store over an existing BadgerDB instance.
func NewWithDB(db *badger.DB) *Store {
	return &Store{db: db}
}

// View runs fn in a read-only Badger transaction.
func (s *Store) View(_ context.Context, fn func(storage.Reader) error) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	return s.db.View(func(txn *badger.Txn) error {
		return fn(txnAdapter{txn})
	})
}

// Update runs fn in a read-write Badger transaction. Badger discards the
// transaction when fn returns an error.
func (s *Store) Update(_ context.Context, fn func(storage.Txn) error) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return fn(txnAdapter{txn})
	})
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

type txnAdapter struct {
	txn *badger.Txn
}

func (t txnAdapter) Get(_ context.Context, key string) ([]byte, error) {
	item, err := t.txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (t txnAdapter) Set(_ context.Context, key string, value []byte) error {
	return t.txn.Set([]byte(key), value)
}

func (t txnAdapter) Delete(_ context.Context, key string) error {
	return t.txn.Delete([]byte(key))
}
