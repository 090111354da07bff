package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps session documents in a single-file SQLite database,
// for setups that prefer one artifact over a directory of JSON files.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS memory (
	session    TEXT PRIMARY KEY,
	doc        BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`

// NewSQLiteStore opens (and if needed initializes) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Load reads the session document. A missing row is found=false.
func (s *SQLiteStore) Load(session string) ([]byte, bool, error) {
	var doc []byte
	err := s.db.QueryRow(`SELECT doc FROM memory WHERE session = ?`, session).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session %q: %w", session, err)
	}
	return doc, true, nil
}

// Save upserts the session document.
func (s *SQLiteStore) Save(session string, doc []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO memory (session, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(session) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		session, doc, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save session %q: %w", session, err)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
