package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// FileStore persists credentials as a JSON file with owner-only permissions.
// This is the default backend, the client-side analogue of the browser's
// local storage. State is cached in memory; the file is rewritten on every
// mutation so a restarted process picks up the last session.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	creds  Credentials
	logger *logrus.Logger
}

// NewFileStore creates a file-backed credential store, loading any
// previously persisted session
func NewFileStore(path string, logger *logrus.Logger) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store file path is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	s := &FileStore{
		path:   path,
		logger: logger,
	}

	if err := s.load(); err != nil {
		// A missing file just means no session yet; anything else is a
		// corrupt or unreadable store and degrades to unauthenticated.
		if !os.IsNotExist(err) {
			logger.WithError(err).WithField("path", path).Warn("Failed to load credential file, starting unauthenticated")
		}
	}

	return s, nil
}

// SetCredentials persists both values, overwriting any prior pair
func (s *FileStore) SetCredentials(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = Credentials{Access: access, Refresh: refresh}
	s.persist()
}

// Access returns the current access credential, if present
func (s *FileStore) Access() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Access, s.creds.Access != ""
}

// Refresh returns the current refresh credential, if present
func (s *FileStore) Refresh() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Refresh, s.creds.Refresh != ""
}

// Clear removes both credentials and deletes the persisted file
func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = Credentials{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.WithError(err).WithField("path", s.path).Warn("Failed to remove credential file")
	}
}

// IsAuthenticated reports whether an access credential is present
func (s *FileStore) IsAuthenticated() bool {
	_, ok := s.Access()
	return ok
}

// load reads previously persisted credentials from disk
func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return fmt.Errorf("failed to parse credential file: %w", err)
	}

	s.creds = creds
	return nil
}

// persist writes the current credentials to disk. Failures are logged and
// swallowed; the in-memory state stays authoritative for this process.
// Caller must hold the write lock.
func (s *FileStore) persist() {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Warn("Failed to create credential directory")
		return
	}

	data, err := json.Marshal(s.creds)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode credentials")
		return
	}

	// Write-then-rename so a crash mid-write never leaves a torn file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Warn("Failed to write credential file")
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Warn("Failed to replace credential file")
	}
}
