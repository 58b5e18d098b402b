package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateCheckoutSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("path = %q, want /v1/checkout/sessions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("authorization = %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("client_reference_id"); got != "user-7" {
			t.Errorf("client_reference_id = %q, want user-7", got)
		}
		if got := r.PostForm.Get("mode"); got != "subscription" {
			t.Errorf("mode = %q, want subscription", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://pay.example/cs_123"})
	}))
	defer ts.Close()

	c := NewClient(Config{
		APIURL:     ts.URL,
		APIKey:     "sk_test",
		PriceID:    "price_123",
		SuccessURL: "https://app.example/success",
		CancelURL:  "https://app.example/cancel",
	})

	got, err := c.CreateCheckoutSession(context.Background(), "user-7")
	if err != nil {
		t.Fatalf("CreateCheckoutSession() error = %v", err)
	}
	if got != "https://pay.example/cs_123" {
		t.Fatalf("checkout url = %q", got)
	}
}

func TestCreateCheckoutSessionUnconfigured(t *testing.T) {
	c := NewClient(Config{})
	if _, err := c.CreateCheckoutSession(context.Background(), "user-7"); err == nil {
		t.Fatalf("CreateCheckoutSession() expected error when unconfigured")
	}
}

func TestCreateCheckoutSessionUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such price", http.StatusBadRequest)
	}))
	defer ts.Close()

	c := NewClient(Config{APIURL: ts.URL, APIKey: "sk_test", PriceID: "price_bad"})
	if _, err := c.CreateCheckoutSession(context.Background(), "user-7"); err == nil {
		t.Fatalf("CreateCheckoutSession() expected error for upstream failure")
	}
}
