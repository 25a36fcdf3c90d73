// Package postgres provides a PostgreSQL-backed storage backend using the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage/sqlkv"
)

const (
	KeyDSN          = "dsn"
	KeyMaxOpenConns = "max_open_conns"
	KeyPingTimeout  = "ping_timeout"
)

const schema = `
CREATE TABLE IF NOT EXISTS registry_kv (
    key   TEXT PRIMARY KEY,
    value BYTEA NOT NULL
);
`

var dialect = sqlkv.Dialect{
	Name:   "postgres",
	Schema: schema,
	Get:    "SELECT value FROM registry_kv WHERE key = $1",
	Upsert: "INSERT INTO registry_kv (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
	Delete: "DELETE FROM registry_kv WHERE key = $1",
}

func init() {
	storage.Register("postgres", NewFactory, Defaults)
}

// Defaults returns the default options for the PostgreSQL backend.
func Defaults() storage.Options {
	return storage.Options{
		KeyDSN:          "postgres://localhost:5432/registry?sslmode=disable",
		KeyMaxOpenConns: "10",
		KeyPingTimeout:  "5s",
	}
}

// NewFactory opens a PostgreSQL store using opts.
func NewFactory(ctx context.Context, opts storage.Options) (storage.Store, error) {
	r := storage.NewOptionReader("postgres", opts)
	dsn := r.Required(KeyDSN)
	maxOpen := r.Int(KeyMaxOpenConns, 10)
	pingTimeout := r.Duration(KeyPingTimeout, 5*time.Second)
	if err := r.Err(); err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, storage.OpenError("postgres", KeyDSN, "failed to open database", err)
	}
	db.SetMaxOpenConns(maxOpen)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, storage.OpenError("postgres", KeyDSN, "failed to connect", err)
	}

	s, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("postgres store initialized", "max_open_conns", maxOpen)
	return s, nil
}

// New creates a store over an open PostgreSQL handle and ensures the schema exists.
func New(ctx context.Context, db *sql.DB) (*sqlkv.Store, error) {
	return sqlkv.New(ctx, db, dialect)
}
