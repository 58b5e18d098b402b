package httpapi

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/antoniostano/medquery/internal/billing"
	"github.com/antoniostano/medquery/internal/users"
)

type checkoutRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleBillingCheckout(w http.ResponseWriter, r *http.Request) {
	if s.billing == nil || !s.billing.Configured() {
		respondError(w, http.StatusNotImplemented, "billing_unconfigured", "billing is not configured")
		return
	}

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	if _, err := s.store.Get(r.Context(), req.UserID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", "could not load user record")
		return
	}

	url, err := s.billing.CreateCheckoutSession(r.Context(), req.UserID)
	if err != nil {
		log.Printf("checkout session creation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "billing_error", "error during checkout session creation")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"checkout_url": url})
}

func (s *Server) handleBillingWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload", "could not read payload")
		return
	}

	sig := r.Header.Get("Stripe-Signature")
	if err := billing.VerifySignature(payload, sig, s.cfg.BillingWebhookSecret, time.Now()); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_signature", "webhook signature verification failed")
		return
	}

	event, err := billing.ParseEvent(payload)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}

	if event.Type == billing.EventCheckoutCompleted {
		userID := event.Data.Object.ClientReferenceID
		if userID != "" {
			if err := s.store.SetSubscriber(r.Context(), userID, true); err != nil {
				log.Printf("subscription activation failed for %s: %v", userID, err)
				respondError(w, http.StatusServiceUnavailable, "store_unavailable", "could not update subscription")
				return
			}
			log.Printf("user %s subscription activated", userID)
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
