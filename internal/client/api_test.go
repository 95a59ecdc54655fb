package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login/" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode login request: %v", err)
		}
		if req.Email != "maya@example.com" || req.Password != "hunter2" {
			t.Errorf("Unexpected login payload: %+v", req)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(&LoginResponse{
			User:   User{ID: 7, Email: req.Email, Username: "maya", Role: "freelancer"},
			Tokens: TokenPair{Access: "A1", Refresh: "R1"},
		})
	}))
	defer server.Close()

	c, store, _ := testClient(t, server.URL)

	user, err := c.Login(context.Background(), "maya@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if user.Username != "maya" {
		t.Errorf("Expected username maya, got %s", user.Username)
	}

	access, _ := store.MemoryStore.Access()
	refresh, _ := store.MemoryStore.Refresh()
	if access != "A1" || refresh != "R1" {
		t.Errorf("Expected stored pair A1/R1, got %q/%q", access, refresh)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer server.Close()

	c, store, _ := testClient(t, server.URL)

	if _, err := c.Login(context.Background(), "maya@example.com", "wrong"); err == nil {
		t.Error("Expected error for rejected login")
	}
	if store.MemoryStore.IsAuthenticated() {
		t.Error("Expected no credentials stored after rejected login")
	}
}

func TestLogin_MissingTokensInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"user":{"id":7}}`))
	}))
	defer server.Close()

	c, store, _ := testClient(t, server.URL)

	if _, err := c.Login(context.Background(), "maya@example.com", "hunter2"); err == nil {
		t.Error("Expected error for login response without tokens")
	}
	if store.MemoryStore.IsAuthenticated() {
		t.Error("Expected no credentials stored")
	}
}

func TestSearchFreelancers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search/" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "logo designer" {
			t.Errorf("Expected query 'logo designer', got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer A1" {
			t.Errorf("Expected bearer header on search, got %q", got)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(&SearchResponse{
			Results: []Freelancer{{ID: 1, Username: "maya", DisplayName: "Maya D.", City: "Pune"}},
			Count:   1,
			Message: "Found 1 freelancer for logo design",
		})
	}))
	defer server.Close()

	c, store, _ := testClient(t, server.URL)
	store.SetCredentials("A1", "R1")

	result, err := c.SearchFreelancers(context.Background(), "logo designer")
	if err != nil {
		t.Fatalf("SearchFreelancers() failed: %v", err)
	}
	if result.Count != 1 || len(result.Results) != 1 {
		t.Errorf("Unexpected result set: %+v", result)
	}
	if result.Results[0].Username != "maya" {
		t.Errorf("Expected freelancer maya, got %s", result.Results[0].Username)
	}
}

func TestMyPortfolio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/portfolio/mine/" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(&Portfolio{
			ID:    3,
			Title: "Brand identity work",
			Items: []PortfolioItem{{ID: 11, Title: "Cafe rebrand", MediaType: "image"}},
		})
	}))
	defer server.Close()

	c, store, _ := testClient(t, server.URL)
	store.SetCredentials("A1", "R1")

	portfolio, err := c.MyPortfolio(context.Background())
	if err != nil {
		t.Fatalf("MyPortfolio() failed: %v", err)
	}
	if portfolio.Title != "Brand identity work" || len(portfolio.Items) != 1 {
		t.Errorf("Unexpected portfolio: %+v", portfolio)
	}
}
