package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/antoniostano/medquery/internal/auth"
	"github.com/antoniostano/medquery/internal/billing"
	"github.com/antoniostano/medquery/internal/config"
	"github.com/antoniostano/medquery/internal/generation"
	"github.com/antoniostano/medquery/internal/observability"
	"github.com/antoniostano/medquery/internal/pipeline"
	"github.com/antoniostano/medquery/internal/users"
)

// Pipeline is the query orchestrator surface the API depends on.
type Pipeline interface {
	HandleQuery(ctx context.Context, userID, conversationID, question string) (pipeline.Answer, error)
	HandleQueryStream(ctx context.Context, userID, conversationID, question string, onDelta generation.DeltaHandler) (pipeline.Answer, error)
}

type Server struct {
	cfg      config.Config
	pipeline Pipeline
	store    users.Store
	auth     *auth.Service
	billing  *billing.Client
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, pl Pipeline, store users.Store, authSvc *auth.Service, billingClient *billing.Client, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:      cfg,
		pipeline: pl,
		store:    store,
		auth:     authSvc,
		billing:  billingClient,
		metrics:  metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Default: only allow browser websocket connections from the
				// same origin, so other websites cannot drive a user's query
				// session if the service is ever exposed beyond localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})
	r.Get("/v1/perf/latency", s.handlePerfLatency)

	r.Post("/v1/query", s.handleQuery)
	r.Get("/v1/query/ws", s.handleQueryWS)

	r.Get("/v1/auth/login", s.handleAuthLogin)
	r.Get("/v1/auth/callback", s.handleAuthCallback)

	r.Post("/v1/billing/checkout", s.handleBillingCheckout)
	r.Post("/v1/billing/webhook", s.handleBillingWebhook)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (s *Server) handlePerfLatency(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.metrics.SnapshotStages())
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
