package cache

import (
	"database/sql"
	"fmt"
	"sync"
)

// Current schema version
const SchemaVersion = "2"

// SQLite is a SQLite-backed cache.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite creates a new SQLite cache at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS pages (
			slug TEXT PRIMARY KEY,
			hash TEXT NOT NULL,
			body TEXT NOT NULL,
			meta TEXT NOT NULL DEFAULT '',
			toc TEXT NOT NULL DEFAULT '',
			refs TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}

	version, err := s.getMetadataUnlocked("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	switch version {
	case "":
		if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// Get retrieves an entry by slug.
func (s *SQLite) Get(slug string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var e Entry
	err := s.db.QueryRow("SELECT hash, body, meta, toc, refs FROM pages WHERE slug = ?", slug).
		Scan(&e.Hash, &e.Body, &e.Meta, &e.Toc, &e.Refs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Put stores an entry by slug.
func (s *SQLite) Put(slug string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO pages (slug, hash, body, meta, toc, refs) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			hash = excluded.hash,
			body = excluded.body,
			meta = excluded.meta,
			toc = excluded.toc,
			refs = excluded.refs
	`, slug, e.Hash, e.Body, e.Meta, e.Toc, e.Refs)
	return err
}

// Delete removes an entry by slug.
func (s *SQLite) Delete(slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM pages WHERE slug = ?", slug)
	return err
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// getMetadataUnlocked retrieves metadata without locking (caller must hold lock).
func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// setMetadataUnlocked stores metadata without locking (caller must hold lock).
func (s *SQLite) setMetadataUnlocked(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
