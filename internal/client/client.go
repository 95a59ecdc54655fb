// Package client implements the authenticated HTTP client for the
// marketplace API: bearer attachment for in-scope requests, one
// refresh-and-retry cycle on 401, and typed wrappers for the API surface.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"freelance-client/internal/auth"
	"freelance-client/internal/config"

	"github.com/sirupsen/logrus"
)

// SessionController is the slice of the session lifecycle this client
// needs: ending the session when the refresh credential is gone or the
// refresh exchange fails terminally.
type SessionController interface {
	Logout(ctx context.Context)
}

// HTTPClient wraps the underlying HTTP primitive so that every in-scope
// request carries the current access credential and gets exactly one
// refresh-and-retry cycle on 401. Out-of-scope requests pass through
// untouched: no store read, no header, no retry.
type HTTPClient struct {
	httpClient  *http.Client
	store       auth.CredentialStore
	session     SessionController
	baseURL     string
	apiPrefix   string
	loginPath   string
	refreshPath string
	logger      *logrus.Logger

	// Single-flight refresh: the first caller to observe 401 runs the
	// exchange, concurrent callers wait for and share its outcome.
	refreshMu sync.Mutex
	inflight  *refreshCall
}

// NewHTTPClient creates an authenticated HTTP client
func NewHTTPClient(cfg *config.Config, store auth.CredentialStore, session SessionController, logger *logrus.Logger) (*HTTPClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if session == nil {
		return nil, fmt.Errorf("session controller is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeoutDuration(),
		},
		store:       store,
		session:     session,
		baseURL:     strings.TrimSuffix(cfg.ServerURL, "/"),
		apiPrefix:   cfg.APIPrefix,
		loginPath:   cfg.LoginPath,
		refreshPath: cfg.RefreshPath,
		logger:      logger,
	}, nil
}

// Request represents an HTTP request to be made
type Request struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// Response represents a completed HTTP exchange. Any response the server
// produced is handed back with its status; callers inspect StatusCode like
// they would with the bare primitive.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Do executes an HTTP request. For in-scope paths the current access
// credential is attached and a 401 triggers one refresh and one retry; the
// retry's response is returned as-is, even if it is another 401. Errors are
// returned only for transport-level failures.
func (c *HTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	// Marshal once so the retry resends the identical body
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	if !c.inScope(req.Path) {
		return c.dispatch(ctx, req, bodyBytes, "")
	}

	access, _ := c.store.Access()
	resp, err := c.dispatch(ctx, req, bodyBytes, access)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	newAccess, ok := c.RefreshAccess(ctx)
	if !ok {
		// Logout has already run as a side effect; the caller gets the
		// original 401 unmodified.
		return resp, nil
	}

	c.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"path":   req.Path,
	}).Debug("Retrying request with refreshed credential")

	return c.dispatch(ctx, req, bodyBytes, newAccess)
}

// inScope reports whether a request path is subject to credential
// attachment and 401 handling
func (c *HTTPClient) inScope(path string) bool {
	return strings.HasPrefix(path, c.apiPrefix)
}

// dispatch performs a single HTTP exchange using the underlying primitive.
// An empty access credential means no authorization header is attached.
func (c *HTTPClient) dispatch(ctx context.Context, req *Request, bodyBytes []byte, access string) (*Response, error) {
	var bodyReader io.Reader
	if bodyBytes != nil {
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	if bodyBytes != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	// Caller headers are preserved; the authorization header is owned by
	// this layer and overwrites a stale value on retry.
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if access != "" {
		httpReq.Header.Set("Authorization", "Bearer "+access)
	}

	c.logger.WithFields(logrus.Fields{
		"method":        req.Method,
		"path":          req.Path,
		"authenticated": access != "",
	}).Debug("Dispatching HTTP request")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"status_code": httpResp.StatusCode,
		"body_length": len(respBody),
	}).Debug("HTTP response received")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
	}, nil
}

// parseJSONResponse parses a JSON response body into the provided value
func parseJSONResponse(resp *Response, v interface{}) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if len(resp.Body) == 0 {
		return fmt.Errorf("response body is empty")
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("failed to unmarshal JSON response: %w", err)
	}
	return nil
}
