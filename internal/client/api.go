package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// LoginRequest carries the login form fields
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is the credential pair issued by login
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// User describes the authenticated account
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse is the login exchange result
type LoginResponse struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// Freelancer is one search result card
type Freelancer struct {
	ID          int      `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	Tagline     string   `json:"tagline"`
	City        string   `json:"city"`
	Skills      []string `json:"skills"`
	Rating      float64  `json:"rating"`
}

// SearchResponse is the freelancer search result set
type SearchResponse struct {
	Results []Freelancer `json:"results"`
	Count   int          `json:"count"`
	Message string       `json:"message"`
}

// PortfolioItem is a single work sample
type PortfolioItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MediaURL    string `json:"media_url"`
	MediaType   string `json:"media_type"`
	IsFeatured  bool   `json:"is_featured"`
}

// Portfolio is a freelancer's portfolio with its items
type Portfolio struct {
	ID           int             `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Completeness int             `json:"completeness"`
	Items        []PortfolioItem `json:"items"`
}

// The login and refresh paths come from configuration; the remaining API
// paths are fixed by the server's routing.
const (
	currentUserPath = "/api/auth/me/"
	searchPath      = "/api/search/"
	myPortfolioPath = "/api/portfolio/mine/"
)

// Login authenticates with the marketplace and stores the issued
// credential pair, replacing any previous session
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*User, error) {
	req := &Request{
		Method: http.MethodPost,
		Path:   c.loginPath,
		Body: &LoginRequest{
			Email:    email,
			Password: password,
		},
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("invalid credentials")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var loginResp LoginResponse
	if err := parseJSONResponse(resp, &loginResp); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	if loginResp.Tokens.Access == "" || loginResp.Tokens.Refresh == "" {
		return nil, fmt.Errorf("login response missing credentials")
	}

	c.store.SetCredentials(loginResp.Tokens.Access, loginResp.Tokens.Refresh)

	c.logger.WithField("username", loginResp.User.Username).Info("Logged in")
	return &loginResp.User, nil
}

// CurrentUser fetches the account behind the current session
func (c *HTTPClient) CurrentUser(ctx context.Context) (*User, error) {
	resp, err := c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   currentUserPath,
	})
	if err != nil {
		return nil, fmt.Errorf("current user request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("current user request failed with status %d", resp.StatusCode)
	}

	var user User
	if err := parseJSONResponse(resp, &user); err != nil {
		return nil, fmt.Errorf("failed to parse current user response: %w", err)
	}
	return &user, nil
}

// SearchFreelancers runs a freelancer search for the given query
func (c *HTTPClient) SearchFreelancers(ctx context.Context, query string) (*SearchResponse, error) {
	resp, err := c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   searchPath + "?q=" + url.QueryEscape(query),
	})
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed with status %d", resp.StatusCode)
	}

	var searchResp SearchResponse
	if err := parseJSONResponse(resp, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	return &searchResp, nil
}

// MyPortfolio fetches the authenticated freelancer's portfolio
func (c *HTTPClient) MyPortfolio(ctx context.Context) (*Portfolio, error) {
	resp, err := c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   myPortfolioPath,
	})
	if err != nil {
		return nil, fmt.Errorf("portfolio request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("portfolio request failed with status %d", resp.StatusCode)
	}

	var portfolio Portfolio
	if err := parseJSONResponse(resp, &portfolio); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio response: %w", err)
	}
	return &portfolio, nil
}
