// Package sqlite persists LifeLab collections in a local SQLite database.
// Each collection is one row: a string key and a JSON blob value. Writes
// always replace the whole value — there are no field-level partial updates.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle.
type DB struct {
	db *sql.DB
}

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS collections (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_collections_updated ON collections(updated_at)`,
	}
}

// Open opens (or creates) the database under dir and applies migrations.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	sqldb, err := sql.Open("sqlite", filepath.Join(dir, "lifelab.db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db := &DB{db: sqldb}
	for _, stmt := range Migrations() {
		if _, err := sqldb.Exec(stmt); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("apply migration: %w", err)
		}
	}
	return db, nil
}

// Close closes the database handle.
func (db *DB) Close() error {
	return db.db.Close()
}

// PutCollection replaces a collection's value atomically.
func (db *DB) PutCollection(key string, value []byte) error {
	_, err := db.db.Exec(`
		INSERT INTO collections (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = datetime('now')
	`, key, value)
	return err
}

// GetCollection returns a collection's value, or nil when the key is absent.
func (db *DB) GetCollection(key string) ([]byte, error) {
	var value []byte
	err := db.db.QueryRow(`SELECT value FROM collections WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return value, err
}

// ListCollections returns all collection keys, sorted.
func (db *DB) ListCollections() ([]string, error) {
	rows, err := db.db.Query(`SELECT key FROM collections ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Snapshot returns every collection keyed by name.
func (db *DB) Snapshot() (map[string][]byte, error) {
	rows, err := db.db.Query(`SELECT key, value FROM collections`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}
