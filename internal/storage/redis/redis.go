// Package redis provides a Redis-backed storage backend.
//
// Writes made inside Update are buffered and applied in a single MULTI/EXEC
// pipeline, so a failed update writes nothing. Reads are not isolated from other
// writers; the registry serializes its own operations, and a single registry
// process is expected per key prefix.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
)

const (
	KeyAddr         = "addr"
	KeyPassword     = "password"
	KeyDB           = "db"
	KeyMaxRetries   = "max_retries"
	KeyDialTimeout  = "dial_timeout"
	KeyReadTimeout  = "read_timeout"
	KeyWriteTimeout = "write_timeout"
	KeyKeyPrefix    = "key_prefix"
)

func init() {
	storage.Register("redis", NewFactory, Defaults)
}

// Defaults returns the default options for the Redis backend.
func Defaults() storage.Options {
	return storage.Options{
		KeyAddr:         "localhost:6379",
		KeyPassword:     "",
		KeyDB:           "0",
		KeyMaxRetries:   "3",
		KeyDialTimeout:  "5s",
		KeyReadTimeout:  "3s",
		KeyWriteTimeout: "3s",
		KeyKeyPrefix:    "savings:",
	}
}

// NewFactory connects to Redis using opts.
func NewFactory(ctx context.Context, opts storage.Options) (storage.Store, error) {
	r := storage.NewOptionReader("redis", opts)
	addr := r.Required(KeyAddr)
	db := r.Int(KeyDB, 0)
	if db < 0 {
		r.Fail(KeyDB, "must be non-negative")
	}
	maxRetries := r.Int(KeyMaxRetries, 3)
	dialTimeout := r.Duration(KeyDialTimeout, 5*time.Second)
	readTimeout := r.Duration(KeyReadTimeout, 3*time.Second)
	writeTimeout := r.Duration(KeyWriteTimeout, 3*time.Second)
	keyPrefix := r.String(KeyKeyPrefix, "savings:")
	password := r.String(KeyPassword, "")
	if err := r.Err(); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   maxRetries,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, storage.OpenError("redis", KeyAddr, "failed to connect", err)
	}

	slog.Info("redis store initialized", "addr", addr, "db", db, "key_prefix", keyPrefix)
	return NewWithClient(client, keyPrefix), nil
}

// Store is a Redis implementation of storage.Store.
type Store struct {
	client *redis.Client
	prefix string
	closed atomic.Bool
}

var _ storage.Store = (*Store)(nil)

// NewWithClient creates a store over an existing Redis client. Every key is
// namespaced with prefix.
func NewWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// View runs fn against live reads.
func (s *Store) View(_ context.Context, fn func(storage.Reader) error) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	return fn(reader{s})
}

// Update runs fn against a write buffer, then applies the buffered writes in
// one transaction pipeline.
func (s *Store) Update(ctx context.Context, fn func(storage.Txn) error) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}

	buf := storage.NewBuffer(reader{s})
	if err := fn(buf); err != nil {
		return err
	}
	if buf.Empty() {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range buf.Sets() {
			pipe.Set(ctx, s.prefix+k, v, 0)
		}
		for _, k := range buf.Deletes() {
			pipe.Del(ctx, s.prefix+k)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis update: exec: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.client.Close()
}

type reader struct {
	s *Store
}

func (r reader) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.s.client.Get(ctx, r.s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return v, nil
}
