package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoginURLContainsClientAndRedirect(t *testing.T) {
	s := New("client-123", "https://app.example/callback")
	got := s.LoginURL()

	for _, want := range []string{
		"client_id=client-123",
		"response_type=code",
		"scope=openid+email+profile",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("LoginURL() = %q, missing %q", got, want)
		}
	}
}

func TestVerifyIDToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") != "tok-1" {
			http.Error(w, "bad token", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(tokenInfo{
			Audience: "client-123",
			Subject:  "google-user-9",
			Email:    "doc@example.com",
		})
	}))
	defer ts.Close()

	s := New("client-123", "https://app.example/callback")
	s.tokenInfoURL = ts.URL

	id, err := s.VerifyIDToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("VerifyIDToken() error = %v", err)
	}
	if id.Subject != "google-user-9" || id.Email != "doc@example.com" {
		t.Fatalf("identity = %+v", id)
	}
}

func TestVerifyIDTokenWrongAudience(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(tokenInfo{Audience: "someone-else", Subject: "sub"})
	}))
	defer ts.Close()

	s := New("client-123", "https://app.example/callback")
	s.tokenInfoURL = ts.URL

	if _, err := s.VerifyIDToken(context.Background(), "tok-1"); err != ErrInvalidToken {
		t.Fatalf("VerifyIDToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyIDTokenRejectedUpstream(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "expired", http.StatusUnauthorized)
	}))
	defer ts.Close()

	s := New("client-123", "https://app.example/callback")
	s.tokenInfoURL = ts.URL

	if _, err := s.VerifyIDToken(context.Background(), "tok-1"); err != ErrInvalidToken {
		t.Fatalf("VerifyIDToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyIDTokenEmpty(t *testing.T) {
	s := New("client-123", "https://app.example/callback")
	if _, err := s.VerifyIDToken(context.Background(), "  "); err != ErrInvalidToken {
		t.Fatalf("VerifyIDToken() error = %v, want ErrInvalidToken", err)
	}
}
