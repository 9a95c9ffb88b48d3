package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

func TestLogin_UserRouteFamily(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/apiV1/user/login" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.TokenResponse{JWT: "token-a"})
	}))
	defer s.Close()

	c := testClient(t, s.URL)
	tok, err := c.Login(context.Background(), "u@example.com", "pass")
	if err != nil {
		t.Fatal(err)
	}
	if tok != "token-a" {
		t.Fatalf("token: %q", tok)
	}
}

func TestLogin_FallsBackToAuthFamily(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/apiV1/user/login":
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(models.ErrorBody{Message: "not found"})
		case "/apiV1/auth/login":
			_ = json.NewEncoder(w).Encode(models.TokenResponse{JWT: "token-b"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer s.Close()

	c := testClient(t, s.URL)
	tok, err := c.Login(context.Background(), "u@example.com", "pass")
	if err != nil {
		t.Fatal(err)
	}
	if tok != "token-b" {
		t.Fatalf("token: %q", tok)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(models.ErrorBody{Code: "UNAUTHORIZED", Message: "invalid credentials"})
	}))
	defer s.Close()

	c := testClient(t, s.URL)
	if _, err := c.Login(context.Background(), "u@example.com", "wrong"); err == nil {
		t.Fatal("want error")
	}
}

func TestLogin_MissingJWTRejected(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer s.Close()

	c := testClient(t, s.URL)
	if _, err := c.Login(context.Background(), "u@example.com", "pass"); err == nil {
		t.Fatal("want error for empty jwt")
	}
}
