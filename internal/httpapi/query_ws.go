package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/antoniostano/medquery/internal/pipeline"
)

type wsEvent struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Answer string `json:"answer,omitempty"`
	TurnID string `json:"turn_id,omitempty"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleQueryWS streams answer deltas over a websocket. The client sends one
// query request and receives delta events followed by a completed event, or
// a single error event. Quota and memory semantics are exactly those of the
// plain endpoint.
func (s *Server) handleQueryWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var req queryRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(wsEvent{Type: "error", Code: "invalid_request", Error: err.Error()})
		return
	}
	if msg, ok := req.validate(); !ok {
		_ = conn.WriteJSON(wsEvent{Type: "error", Code: "invalid_request", Error: msg})
		return
	}

	ans, err := s.pipeline.HandleQueryStream(r.Context(), req.UserID, req.ConversationID, req.Question,
		func(delta string) error {
			return conn.WriteJSON(wsEvent{Type: "delta", Text: delta})
		})
	if err != nil {
		kind := pipeline.KindOf(err)
		code := string(kind)
		if code == "" {
			code = "internal_error"
		}
		_ = conn.WriteJSON(wsEvent{Type: "error", Code: code, Error: "error processing query"})
		return
	}

	_ = conn.WriteJSON(wsEvent{Type: "completed", Answer: ans.Text, TurnID: ans.TurnID})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
