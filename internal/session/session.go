// Package session orchestrates the session lifecycle: logout with
// best-effort server-side revocation, and the local authentication gate
// used by protected commands.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"freelance-client/internal/auth"
	"freelance-client/internal/config"

	"github.com/sirupsen/logrus"
)

// Navigator is invoked whenever the session becomes terminally
// unauthenticated. The CLI implementation directs the user to the login
// command; tests record the call.
type Navigator interface {
	NavigateToLogin()
}

// revokeRequest is the payload of the logout exchange
type revokeRequest struct {
	Refresh string `json:"refresh"`
}

// Manager controls session termination and the authentication gate
type Manager struct {
	store         auth.CredentialStore
	httpClient    *http.Client
	baseURL       string
	logoutPath    string
	revokeTimeout time.Duration
	navigator     Navigator
	logger        *logrus.Logger
}

// NewManager creates a session lifecycle manager
func NewManager(cfg *config.Config, store auth.CredentialStore, navigator Navigator, logger *logrus.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if navigator == nil {
		return nil, fmt.Errorf("navigator is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Manager{
		store: store,
		httpClient: &http.Client{
			Timeout: cfg.RevokeTimeoutDuration(),
		},
		baseURL:       strings.TrimSuffix(cfg.ServerURL, "/"),
		logoutPath:    cfg.LogoutPath,
		revokeTimeout: cfg.RevokeTimeoutDuration(),
		navigator:     navigator,
		logger:        logger,
	}, nil
}

// Logout ends the session. Server-side revocation is best effort and
// bounded by the revoke timeout; the local store is cleared and the user is
// sent to login no matter what the server says. After this call no further
// API request from the session can be expected to succeed.
func (m *Manager) Logout(ctx context.Context) {
	m.revoke(ctx)

	m.store.Clear()
	m.logger.Info("Session terminated, credentials cleared")

	m.navigator.NavigateToLogin()
}

// RequireAuth is the gate used by protected commands. It checks only for a
// locally present access credential; an expired-but-present credential is
// caught later, when a real API call comes back 401.
func (m *Manager) RequireAuth() bool {
	if m.store.IsAuthenticated() {
		return true
	}

	m.logger.Info("No access credential present, authentication required")
	m.navigator.NavigateToLogin()
	return false
}

// revoke tells the server to invalidate the refresh credential. All
// failures are swallowed; the response body is discarded.
func (m *Manager) revoke(ctx context.Context) {
	refresh, ok := m.store.Refresh()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, m.revokeTimeout)
	defer cancel()

	body, err := json.Marshal(&revokeRequest{Refresh: refresh})
	if err != nil {
		m.logger.WithError(err).Warn("Failed to encode revoke request")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+m.logoutPath, bytes.NewReader(body))
	if err != nil {
		m.logger.WithError(err).Warn("Failed to build revoke request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if access, ok := m.store.Access(); ok {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.logger.WithError(err).Warn("Revoke request failed")
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		m.logger.WithField("status_code", resp.StatusCode).Warn("Revoke request rejected")
	} else {
		m.logger.Debug("Refresh credential revoked on server")
	}
}
