package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client creates checkout sessions against a Stripe-compatible payments API.
type Client struct {
	apiURL     string
	apiKey     string
	priceID    string
	successURL string
	cancelURL  string
	client     *http.Client
}

type Config struct {
	APIURL     string
	APIKey     string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

func NewClient(cfg Config) *Client {
	return &Client{
		apiURL:     strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		priceID:    cfg.PriceID,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured reports whether the payments API credentials are present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.priceID != ""
}

type checkoutSession struct {
	URL string `json:"url"`
}

// CreateCheckoutSession opens a subscription checkout for a user and returns
// the hosted payment page URL. The user ID travels as client_reference_id so
// the webhook can map the completed session back to the account.
func (c *Client) CreateCheckoutSession(ctx context.Context, userID string) (string, error) {
	if !c.Configured() {
		return "", errors.New("billing is not configured")
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("client_reference_id", userID)
	form.Set("success_url", c.successURL)
	form.Set("cancel_url", c.cancelURL)
	form.Set("line_items[0][price]", c.priceID)
	form.Set("line_items[0][quantity]", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", fmt.Errorf("billing http status %d: %s", res.StatusCode, string(body))
	}

	var session checkoutSession
	if err := json.NewDecoder(res.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if session.URL == "" {
		return "", errors.New("checkout session missing url")
	}
	return session.URL, nil
}
