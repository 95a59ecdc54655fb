package auth

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteStore persists credentials in a local SQLite database, one row per
// slot. Suitable when the client already keeps other local state in SQLite.
type SQLiteStore struct {
	conn   *sql.DB
	logger *logrus.Logger
}

// NewSQLiteStore opens (creating if needed) the session database
func NewSQLiteStore(databasePath string, logger *logrus.Logger) (*SQLiteStore, error) {
	if databasePath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := os.MkdirAll(filepath.Dir(databasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL", databasePath)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS session_state (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create session_state table: %w", err)
	}

	return &SQLiteStore{
		conn:   conn,
		logger: logger,
	}, nil
}

// SetCredentials persists both values, overwriting any prior pair
func (s *SQLiteStore) SetCredentials(access, refresh string) {
	s.setSlot(accessSlot, access)
	s.setSlot(refreshSlot, refresh)
}

// Access returns the current access credential, if present
func (s *SQLiteStore) Access() (string, bool) {
	return s.getSlot(accessSlot)
}

// Refresh returns the current refresh credential, if present
func (s *SQLiteStore) Refresh() (string, bool) {
	return s.getSlot(refreshSlot)
}

// Clear removes both credentials
func (s *SQLiteStore) Clear() {
	query := "DELETE FROM session_state WHERE key IN (?, ?)"
	if _, err := s.conn.Exec(query, accessSlot, refreshSlot); err != nil {
		s.logger.WithError(err).Warn("Failed to clear session state")
	}
}

// IsAuthenticated reports whether an access credential is present
func (s *SQLiteStore) IsAuthenticated() bool {
	_, ok := s.Access()
	return ok
}

// Close closes the underlying database connection
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) setSlot(key, value string) {
	query := `
		INSERT OR REPLACE INTO session_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`
	if _, err := s.conn.Exec(query, key, value); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to persist session state")
	}
}

func (s *SQLiteStore) getSlot(key string) (string, bool) {
	var value string
	query := "SELECT value FROM session_state WHERE key = ?"
	err := s.conn.QueryRow(query, key).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.WithError(err).WithField("key", key).Warn("Failed to read session state")
		}
		return "", false
	}
	return value, value != ""
}
