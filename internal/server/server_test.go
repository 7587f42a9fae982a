package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Hardik-Kaushik/geotrackingFull/internal/config"
)

func testServer() *Server {
	return NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil)
}

func TestHealthRoute(t *testing.T) {
	s := testServer()
	defer s.Dispatcher.Close()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 status")
	}
}

func TestGeotrackingRedirectsUnauthenticated(t *testing.T) {
	s := testServer()
	defer s.Dispatcher.Close()

	req := httptest.NewRequest(http.MethodGet, "/geotracking", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if location := resp.Header.Get("Location"); location != "/" {
		t.Fatalf("expected redirect to /, got %q", location)
	}
}

func TestAdminDeniedForMissingSession(t *testing.T) {
	s := testServer()
	defer s.Dispatcher.Close()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect for missing session, got %d", resp.StatusCode)
	}
}

func TestLoginViewIsPublic(t *testing.T) {
	s := testServer()
	defer s.Dispatcher.Close()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 status, got %d", resp.StatusCode)
	}
}
