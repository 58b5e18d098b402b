package auth

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

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

var ErrInvalidToken = errors.New("invalid id token")

// Identity is the verified subject of a Google ID token.
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

// Service builds the Google OAuth login URL and verifies ID tokens through
// Google's tokeninfo endpoint.
type Service struct {
	clientID     string
	redirectURI  string
	tokenInfoURL string
	client       *http.Client
}

func New(clientID, redirectURI string) *Service {
	return &Service{
		clientID:     strings.TrimSpace(clientID),
		redirectURI:  strings.TrimSpace(redirectURI),
		tokenInfoURL: defaultTokenInfoURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Configured reports whether OAuth credentials are present.
func (s *Service) Configured() bool {
	return s.clientID != "" && s.redirectURI != ""
}

// LoginURL returns the Google authorization URL the browser is redirected to.
func (s *Service) LoginURL() string {
	q := url.Values{}
	q.Set("client_id", s.clientID)
	q.Set("redirect_uri", s.redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	return "https://accounts.google.com/o/oauth2/auth?" + q.Encode()
}

type tokenInfo struct {
	Audience string `json:"aud"`
	Subject  string `json:"sub"`
	Email    string `json:"email"`
}

// VerifyIDToken checks the token against Google and confirms it was issued
// for this client.
func (s *Service) VerifyIDToken(ctx context.Context, idToken string) (Identity, error) {
	if strings.TrimSpace(idToken) == "" {
		return Identity{}, ErrInvalidToken
	}

	endpoint := s.tokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("create request: %w", err)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("verify token: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		return Identity{}, ErrInvalidToken
	}

	var info tokenInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return Identity{}, fmt.Errorf("decode token info: %w", err)
	}
	if info.Audience != s.clientID || info.Subject == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{Subject: info.Subject, Email: info.Email}, nil
}
