package sqlite

import "github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage/sqlkv"

// schema sets up the key/value table. It runs on startup to ensure the table exists.
const schema = `
CREATE TABLE IF NOT EXISTS registry_kv (
    key   TEXT PRIMARY KEY,
    value BLOB NOT NULL
);
`

var dialect = sqlkv.Dialect{
	Name:   "sqlite",
	Schema: schema,
	Get:    "SELECT value FROM registry_kv WHERE key = ?",
	Upsert: "INSERT INTO registry_kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
	Delete: "DELETE FROM registry_kv WHERE key = ?",
}
