// Package memory provides an in-process storage backend. State is lost on exit.
package memory

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
)

func init() {
	storage.Register("memory", func(context.Context, storage.Options) (storage.Store, error) {
		return New(), nil
	}, nil)
}

// Store is a map-backed implementation of storage.Store.
type Store struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed atomic.Bool
}

var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// View runs fn under a read lock.
func (s *Store) View(_ context.Context, fn func(storage.Reader) error) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(reader{s.data})
}

// Update runs fn against a write buffer and applies it only if fn succeeds.
func (s *Store) Update(_ context.Context, fn func(storage.Txn) error) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := storage.NewBuffer(reader{s.data})
	if err := fn(buf); err != nil {
		return err
	}
	for k, v := range buf.Sets() {
		s.data[k] = v
	}
	for _, k := range buf.Deletes() {
		delete(s.data, k)
	}
	return nil
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.closed.Store(true)
	return nil
}

type reader struct {
	data map[string][]byte
}

func (r reader) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := r.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return slices.Clone(v), nil
}
