package httpapi

import (
	"net/http"
	"strings"
)

func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil || !s.auth.Configured() {
		respondError(w, http.StatusNotImplemented, "auth_unconfigured", "OAuth login is not configured")
		return
	}
	http.Redirect(w, r, s.auth.LoginURL(), http.StatusTemporaryRedirect)
}

func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil || !s.auth.Configured() {
		respondError(w, http.StatusNotImplemented, "auth_unconfigured", "OAuth login is not configured")
		return
	}

	token := strings.TrimSpace(r.URL.Query().Get("id_token"))
	if token == "" {
		token = strings.TrimSpace(r.URL.Query().Get("code"))
	}
	if token == "" {
		respondError(w, http.StatusBadRequest, "missing_token", "authorization token not found in the request")
		return
	}

	identity, err := s.auth.VerifyIDToken(r.Context(), token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid_token", "could not verify identity")
		return
	}

	user, err := s.store.GetOrCreate(r.Context(), identity.Subject, identity.Email)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", "could not load user record")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "user authenticated successfully",
		"user":    user,
	})
}
