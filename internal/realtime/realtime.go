// Package realtime streams marketplace notifications (new messages, quote
// updates) over a WebSocket authenticated with the current access
// credential.
package realtime

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"freelance-client/internal/auth"
	"freelance-client/internal/config"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// notificationsPath is the server's notification stream endpoint
const notificationsPath = "/ws/notifications/"

// Refresher is the slice of the HTTP client used when the handshake is
// rejected for a stale credential: one refresh, then one redial.
type Refresher interface {
	RefreshAccess(ctx context.Context) (string, bool)
}

// Notification is one message pushed by the server
type Notification struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Client maintains the notification stream connection
type Client struct {
	store     auth.CredentialStore
	refresher Refresher
	wsURL     string
	logger    *logrus.Logger
}

// NewClient creates a realtime notifications client
func NewClient(cfg *config.Config, store auth.CredentialStore, refresher Refresher, logger *logrus.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if refresher == nil {
		return nil, fmt.Errorf("refresher is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	wsURL := strings.TrimSuffix(cfg.ServerURL, "/")
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)

	return &Client{
		store:     store,
		refresher: refresher,
		wsURL:     wsURL + notificationsPath,
		logger:    logger,
	}, nil
}

// Listen connects to the notification stream and delivers each
// notification to handle until the context is cancelled or the connection
// is lost. A handshake rejected for a stale credential gets one refresh
// and one redial, mirroring the HTTP 401 discipline.
func (c *Client) Listen(ctx context.Context, handle func(Notification)) error {
	conn, err := c.dial(ctx, false)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.logger.Info("Connected to notification stream")

	// Close the connection when the context ends so ReadJSON unblocks
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var n Notification
		if err := conn.ReadJSON(&n); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("notification stream closed: %w", err)
		}
		handle(n)
	}
}

// dial performs the WebSocket handshake with the current access
// credential attached as a bearer header
func (c *Client) dial(ctx context.Context, retried bool) (*websocket.Conn, error) {
	header := http.Header{}
	if access, ok := c.store.Access(); ok {
		header.Set("Authorization", "Bearer "+access)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL, header)
	if err == nil {
		return conn, nil
	}

	if resp != nil && resp.StatusCode == http.StatusUnauthorized && !retried {
		c.logger.Debug("Notification handshake rejected, refreshing credential")
		if _, ok := c.refresher.RefreshAccess(ctx); ok {
			return c.dial(ctx, true)
		}
	}

	return nil, fmt.Errorf("failed to connect to notification stream: %w", err)
}
