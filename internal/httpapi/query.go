package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/antoniostano/medquery/internal/pipeline"
)

const (
	minQuestionLen = 3
	maxQuestionLen = 500
)

type queryRequest struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
	Question       string `json:"question"`
}

type queryResponse struct {
	Answer string `json:"answer"`
	TurnID string `json:"turn_id"`
}

func (req *queryRequest) validate() (string, bool) {
	if strings.TrimSpace(req.UserID) == "" {
		return "user_id is required", false
	}
	q := strings.TrimSpace(req.Question)
	if len(q) < minQuestionLen {
		return "question is too short", false
	}
	if len(q) > maxQuestionLen {
		return "question is too long", false
	}
	req.Question = q
	// Callers without an explicit conversation fall back to one ongoing
	// dialogue per user.
	if strings.TrimSpace(req.ConversationID) == "" {
		req.ConversationID = req.UserID
	}
	return "", true
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}

	ans, err := s.pipeline.HandleQuery(r.Context(), req.UserID, req.ConversationID, req.Question)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, queryResponse{Answer: ans.Text, TurnID: ans.TurnID})
}

func (s *Server) respondPipelineError(w http.ResponseWriter, err error) {
	kind := pipeline.KindOf(err)
	switch kind {
	case pipeline.KindQuotaExceeded:
		respondError(w, http.StatusForbidden, string(kind), "query limit exceeded for this period")
	case pipeline.KindUserNotFound:
		respondError(w, http.StatusNotFound, string(kind), "user not found")
	case pipeline.KindStoreUnavailable:
		respondError(w, http.StatusServiceUnavailable, string(kind), "service temporarily unavailable")
	case pipeline.KindRetrievalError, pipeline.KindGenerationError, pipeline.KindConversationCorruption:
		respondError(w, http.StatusInternalServerError, string(kind), "error processing query")
	default:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Client went away; 499-style, nothing useful to write.
			respondError(w, http.StatusInternalServerError, "canceled", "request cancelled")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "error processing query")
	}
}
