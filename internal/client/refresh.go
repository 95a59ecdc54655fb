package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// refreshRequest is the payload of the refresh exchange
type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// refreshResponse is the successful refresh exchange result. A rotated
// refresh credential is optional; the server usually returns only a new
// access credential.
type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type refreshResult struct {
	access string
	ok     bool
}

// refreshCall is one in-flight refresh exchange with its shared outcome
type refreshCall struct {
	done chan struct{}
	res  refreshResult
}

// RefreshAccess trades the refresh credential for a new access credential,
// de-duplicating concurrent calls: whoever arrives while an exchange is in
// flight waits for that exchange instead of starting another. On any
// terminal failure the session is logged out and absent is reported.
func (c *HTTPClient) RefreshAccess(ctx context.Context) (string, bool) {
	c.refreshMu.Lock()
	if call := c.inflight; call != nil {
		c.refreshMu.Unlock()
		select {
		case <-call.done:
			return call.res.access, call.res.ok
		case <-ctx.Done():
			return "", false
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	c.refreshMu.Unlock()

	call.res = c.doRefresh(ctx)

	c.refreshMu.Lock()
	c.inflight = nil
	c.refreshMu.Unlock()
	close(call.done)

	return call.res.access, call.res.ok
}

// doRefresh performs exactly one refresh exchange. No internal retries and
// no backoff: a caller wanting another attempt must come back through the
// 401 path again.
func (c *HTTPClient) doRefresh(ctx context.Context) refreshResult {
	refresh, ok := c.store.Refresh()
	if !ok {
		c.logger.Warn("No refresh credential present, ending session")
		c.session.Logout(ctx)
		return refreshResult{}
	}

	body, err := json.Marshal(&refreshRequest{Refresh: refresh})
	if err != nil {
		c.logger.WithError(err).Error("Failed to encode refresh request")
		c.session.Logout(ctx)
		return refreshResult{}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.refreshPath, bytes.NewReader(body))
	if err != nil {
		c.logger.WithError(err).Error("Failed to build refresh request")
		c.session.Logout(ctx)
		return refreshResult{}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WithError(err).Warn("Refresh exchange failed, ending session")
		c.session.Logout(ctx)
		return refreshResult{}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to read refresh response, ending session")
		c.session.Logout(ctx)
		return refreshResult{}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		c.logger.WithField("status_code", httpResp.StatusCode).Warn("Refresh rejected by server, ending session")
		c.session.Logout(ctx)
		return refreshResult{}
	}

	var refreshResp refreshResponse
	if err := json.Unmarshal(respBody, &refreshResp); err != nil || refreshResp.Access == "" {
		c.logger.WithError(err).Warn("Malformed refresh response, ending session")
		c.session.Logout(ctx)
		return refreshResult{}
	}

	// The refresh credential is kept unless the server rotated it
	newRefresh := refresh
	if refreshResp.Refresh != "" {
		newRefresh = refreshResp.Refresh
	}
	c.store.SetCredentials(refreshResp.Access, newRefresh)

	c.logger.Debug("Access credential refreshed")
	return refreshResult{access: refreshResp.Access, ok: true}
}
