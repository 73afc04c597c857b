package service

import (
	"database/sql"
	"log"
	"sync"

	"github.com/redraft-ai/redraft/domain"

	_ "modernc.org/sqlite"
)

// MemoryStore is the in-process StringStore used for tests and for
// sessions that opt out of durability.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// SQLiteStore is the durable StringStore: one row per (session, key).
// Reads tolerate malformed or missing rows and writes are best-effort,
// matching the recovery policy for session state.
type SQLiteStore struct {
	db        *sql.DB
	sessionID string
}

const sessionStateSchema = `
CREATE TABLE IF NOT EXISTS session_state (
	session_id TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (session_id, key)
);`

// OpenSQLiteStore opens (creating if needed) the session database at
// path and scopes the store to sessionID.
func OpenSQLiteStore(path, sessionID string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, domain.NewStorageError("failed to open session database", err)
	}
	if _, err := db.Exec(sessionStateSchema); err != nil {
		_ = db.Close()
		return nil, domain.NewStorageError("failed to initialize session schema", err)
	}
	return &SQLiteStore{db: db, sessionID: sessionID}, nil
}

// Get reads one value. Query failures read as absent.
func (s *SQLiteStore) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM session_state WHERE session_id = ? AND key = ?`,
		s.sessionID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		log.Printf("store: read of %q failed: %v", key, err)
		return "", false
	}
	return value, true
}

// Set upserts one value. Write failures are reported but callers treat
// them as best-effort.
func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO session_state (session_id, key, value, updated_at)
		 VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT (session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.sessionID, key, value)
	if err != nil {
		return domain.NewStorageError("failed to write session state", err)
	}
	return nil
}

// Delete removes one value.
func (s *SQLiteStore) Delete(key string) error {
	_, err := s.db.Exec(
		`DELETE FROM session_state WHERE session_id = ? AND key = ?`,
		s.sessionID, key)
	if err != nil {
		return domain.NewStorageError("failed to delete session state", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
