package auth

import (
	"os"
	"path/filepath"
	"testing"

	"freelance-client/internal/config"
	"freelance-client/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeUnderTest builds each backend that can run without external services
func storesUnderTest(t *testing.T) map[string]CredentialStore {
	t.Helper()
	logger := logging.Initialize("error")

	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"), logger)
	require.NoError(t, err)

	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "session.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]CredentialStore{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestCredentialStore_Contract(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			// Empty store is unauthenticated
			assert.False(t, store.IsAuthenticated())
			_, ok := store.Access()
			assert.False(t, ok)
			_, ok = store.Refresh()
			assert.False(t, ok)

			// Clear on an empty store is a no-op
			store.Clear()
			assert.False(t, store.IsAuthenticated())

			// Set persists both slots
			store.SetCredentials("A1", "R1")
			access, ok := store.Access()
			assert.True(t, ok)
			assert.Equal(t, "A1", access)
			refresh, ok := store.Refresh()
			assert.True(t, ok)
			assert.Equal(t, "R1", refresh)
			assert.True(t, store.IsAuthenticated())

			// Overwrite replaces the prior pair
			store.SetCredentials("A2", "R2")
			access, _ = store.Access()
			assert.Equal(t, "A2", access)
			refresh, _ = store.Refresh()
			assert.Equal(t, "R2", refresh)

			// Clear empties both slots and is idempotent
			store.Clear()
			store.Clear()
			assert.False(t, store.IsAuthenticated())
			_, ok = store.Refresh()
			assert.False(t, ok)
		})
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	logger := logging.Initialize("error")
	path := filepath.Join(t.TempDir(), "credentials.json")

	first, err := NewFileStore(path, logger)
	require.NoError(t, err)
	first.SetCredentials("A1", "R1")

	// A fresh instance over the same file sees the persisted session
	second, err := NewFileStore(path, logger)
	require.NoError(t, err)
	access, ok := second.Access()
	assert.True(t, ok)
	assert.Equal(t, "A1", access)
	refresh, ok := second.Refresh()
	assert.True(t, ok)
	assert.Equal(t, "R1", refresh)
}

func TestFileStore_OwnerOnlyPermissions(t *testing.T) {
	logger := logging.Initialize("error")
	path := filepath.Join(t.TempDir(), "credentials.json")

	store, err := NewFileStore(path, logger)
	require.NoError(t, err)
	store.SetCredentials("A1", "R1")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_CorruptFileDegradesToUnauthenticated(t *testing.T) {
	logger := logging.Initialize("error")
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	store, err := NewFileStore(path, logger)
	require.NoError(t, err)
	assert.False(t, store.IsAuthenticated())
}

func TestFileStore_WriteFailureIsSwallowed(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	logger := logging.Initialize("error")
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")

	store, err := NewFileStore(path, logger)
	require.NoError(t, err)

	// Make the directory unwritable so persistence fails
	require.NoError(t, os.Chmod(dir, 0500))
	defer os.Chmod(dir, 0700)

	// Must not panic or error; in-memory state stays authoritative
	store.SetCredentials("A1", "R1")
	access, ok := store.Access()
	assert.True(t, ok)
	assert.Equal(t, "A1", access)
}

func TestSQLiteStore_PersistsAcrossInstances(t *testing.T) {
	logger := logging.Initialize("error")
	path := filepath.Join(t.TempDir(), "session.db")

	first, err := NewSQLiteStore(path, logger)
	require.NoError(t, err)
	first.SetCredentials("A1", "R1")
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path, logger)
	require.NoError(t, err)
	defer second.Close()

	access, ok := second.Access()
	assert.True(t, ok)
	assert.Equal(t, "A1", access)
}

func TestNewCredentialStore(t *testing.T) {
	logger := logging.Initialize("error")

	tests := []struct {
		name    string
		modify  func(*config.Config)
		wantErr bool
	}{
		{
			name:   "memory backend",
			modify: func(c *config.Config) { c.StoreBackend = "memory" },
		},
		{
			name: "file backend",
			modify: func(c *config.Config) {
				c.StoreBackend = "file"
				c.StoreFile = filepath.Join(t.TempDir(), "creds.json")
			},
		},
		{
			name: "sqlite backend",
			modify: func(c *config.Config) {
				c.StoreBackend = "sqlite"
				c.DatabasePath = filepath.Join(t.TempDir(), "session.db")
			},
		},
		{
			name:    "unknown backend",
			modify:  func(c *config.Config) { c.StoreBackend = "etcd" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.modify(cfg)
			store, err := NewCredentialStore(cfg, logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, store)
		})
	}
}

func TestNewCredentialStore_NilArguments(t *testing.T) {
	logger := logging.Initialize("error")

	_, err := NewCredentialStore(nil, logger)
	assert.Error(t, err)

	_, err = NewCredentialStore(config.DefaultConfig(), nil)
	assert.Error(t, err)
}
