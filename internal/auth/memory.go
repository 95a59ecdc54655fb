package auth

import "sync"

// MemoryStore keeps credentials in process memory. Used for tests and for
// ephemeral runs where persisting a session is undesirable.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryStore creates an empty in-memory credential store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SetCredentials persists both values, overwriting any prior pair
func (s *MemoryStore) SetCredentials(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
}

// Access returns the current access credential, if present
func (s *MemoryStore) Access() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.access != ""
}

// Refresh returns the current refresh credential, if present
func (s *MemoryStore) Refresh() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh, s.refresh != ""
}

// Clear removes both credentials
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
}

// IsAuthenticated reports whether an access credential is present
func (s *MemoryStore) IsAuthenticated() bool {
	_, ok := s.Access()
	return ok
}
