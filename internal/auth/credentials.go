package auth

import (
	"fmt"

	"freelance-client/internal/config"

	"github.com/sirupsen/logrus"
)

// Slot names for the two persisted credentials. Both are plain strings
// with no structured encoding.
const (
	accessSlot  = "access_token"
	refreshSlot = "refresh_token"
)

// CredentialStore owns the access and refresh credentials for the current
// session. Writes are best-effort: a failing backend is logged and otherwise
// swallowed, so a storage problem degrades to an unauthenticated session
// rather than an error at the call site. No other component may retain a
// credential across calls; each use reads the store again so a concurrent
// refresh is observed.
type CredentialStore interface {
	// SetCredentials persists both values, overwriting any prior pair.
	SetCredentials(access, refresh string)

	// Access returns the current access credential, if present.
	Access() (string, bool)

	// Refresh returns the current refresh credential, if present. The
	// refresh credential is only ever sent on the refresh and logout
	// exchanges, never on ordinary API requests.
	Refresh() (string, bool)

	// Clear removes both credentials. Safe to call when already empty.
	Clear()

	// IsAuthenticated reports whether an access credential is present.
	// This is a presence check only; the server may still reject it.
	IsAuthenticated() bool
}

// Credentials is the persisted shape used by the file backend
type Credentials struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// NewCredentialStore creates the credential store selected by configuration
func NewCredentialStore(cfg *config.Config, logger *logrus.Logger) (CredentialStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	switch cfg.StoreBackend {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.StoreFile, logger)
	case "sqlite":
		return NewSQLiteStore(cfg.DatabasePath, logger)
	case "redis":
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}
