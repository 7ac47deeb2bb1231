// Package stats persists per-key press counts in SQLite.
//
// Counts are keyed by a catalog fingerprint so heatmap data collected on one
// board layout is never mixed into another's. Only Down edges are recorded;
// the store never sees key content beyond the logical role name.
package stats

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/blake2b"

	"kbmirror/internal/keys"
	"kbmirror/internal/keyspec"
)

// Schema for the kbmirror press-count store.
const schema = `
CREATE TABLE IF NOT EXISTS press_counts (
    layout  TEXT NOT NULL,
    key     TEXT NOT NULL,
    count   INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (layout, key)
);

CREATE INDEX IF NOT EXISTS idx_press_counts_layout ON press_counts(layout);
`

// Store is the SQLite press-count store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record increments the count for key under the given layout fingerprint.
func (s *Store) Record(layout string, key keys.LogicalKey) error {
	_, err := s.db.Exec(`
		INSERT INTO press_counts (layout, key, count) VALUES (?, ?, 1)
		ON CONFLICT(layout, key) DO UPDATE SET count = count + 1`,
		layout, string(key),
	)
	if err != nil {
		return fmt.Errorf("record press: %w", err)
	}
	return nil
}

// Counts returns all per-key counts recorded under the layout fingerprint.
func (s *Store) Counts(layout string) (map[keys.LogicalKey]uint64, error) {
	rows, err := s.db.Query(
		`SELECT key, count FROM press_counts WHERE layout = ?`, layout)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[keys.LogicalKey]uint64)
	for rows.Next() {
		var key string
		var count uint64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[keys.LogicalKey(key)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

// Fingerprint derives a stable identifier for a catalog from its canonical
// JSON encoding. Two catalogs with identical rows, weights, and triggers
// fingerprint the same regardless of where they were loaded from.
func Fingerprint(c keyspec.Catalog) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode catalog: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
