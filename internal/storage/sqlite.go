package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/logger"
	_ "modernc.org/sqlite"

	"prizewheel/internal/models"
)

// recordKey is the single well-known key the participant record lives under.
const recordKey = "wheel-spinner-user"

// SQLiteStore keeps the serialized participant record in a one-row SQLite
// table.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the session database at path.
func Open(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS session_records (
		key TEXT PRIMARY KEY,
		record TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load reads the persisted record. Any failure, including a payload that no
// longer parses, is reported as "absent".
func (s *SQLiteStore) Load() (*models.ParticipantRecord, bool) {
	var payload string
	err := s.db.QueryRow(`SELECT record FROM session_records WHERE key = ?`, recordKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		logger.Warningf("session store: read failed, treating as absent: %v", err)
		return nil, false
	}
	var record models.ParticipantRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		logger.Warningf("session store: malformed record, treating as absent: %v", err)
		return nil, false
	}
	return &record, true
}

// Save persists the record. Write failures are logged and swallowed.
func (s *SQLiteStore) Save(record *models.ParticipantRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		logger.Warningf("session store: marshal failed: %v", err)
		return
	}
	_, err = s.db.Exec(
		`INSERT INTO session_records (key, record) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET record = excluded.record`,
		recordKey, string(payload),
	)
	if err != nil {
		logger.Warningf("session store: write failed: %v", err)
	}
}

// Clear removes the persisted record. Failures are logged and swallowed.
func (s *SQLiteStore) Clear() {
	if _, err := s.db.Exec(`DELETE FROM session_records WHERE key = ?`, recordKey); err != nil {
		logger.Warningf("session store: clear failed: %v", err)
	}
}
