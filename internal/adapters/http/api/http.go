// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/pkg/logger"
)

// maxBodyBytes caps request bodies decoded by the handlers.
const maxBodyBytes = 1 << 20

// SourcingDependencies serve the sourcing extension.
type SourcingDependencies interface {
	Links(ctx context.Context, q model.LinksQuery) (model.LinksResult, error)
	WriteCandidate(ctx context.Context, c model.SourcedCandidate) (model.WriteResult, error)
}

// QADependencies serve the QA extension.
type QADependencies interface {
	QAPath(ctx context.Context, q model.QAPathQuery) (model.QAPathResult, error)
	QAUpdate(ctx context.Context, u model.QAUpdate) (string, error)
}

// StatsProvider reports service runtime statistics.
type StatsProvider interface {
	Stats() map[string]any
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SourcingDependencies
	QADependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	metricsHandler  http.Handler
	sourcingHandler *SourcingHandler
	qaHandler       *QAHandler
	origins         []string
	logger          logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{origins: []string{"*"}}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}
	s.healthHandler = NewHealthHandler(deps)
	s.metricsHandler = NewMetricsHandler()
	s.sourcingHandler = NewSourcingHandler(deps, s.logger)
	s.qaHandler = NewQAHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	cors := CORS(s.origins)

	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.metricsHandler)
	mux.HandleFunc("/api/qa-path", cors(MetricsMiddleware(s.qaHandler.HandlePath, "qa_path")))
	mux.HandleFunc("/api/qa-update", cors(MetricsMiddleware(s.qaHandler.HandleUpdate, "qa_update")))
	mux.HandleFunc("/api", cors(MetricsMiddleware(s.sourcingHandler.Handle, "api")))
}

type errorResponse struct {
	Error string `json:"error"`
	Rows  []int  `json:"rows,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as {"error": msg}. Server-side failures are logged
// with their cause; the client only sees the mapped message.
func writeError(ctx context.Context, l logger.Logger, w http.ResponseWriter, err error) {
	writeErrorRows(ctx, l, w, err, nil)
}

// writeErrorRows is writeError that also reports the rows a partial write
// reached before failing.
func writeErrorRows(ctx context.Context, l logger.Logger, w http.ResponseWriter, err error, rows []int) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		l.Error(ctx, "request failed", logger.Int("status", status), logger.Error(err))
	} else {
		l.Debug(ctx, "request rejected", logger.Int("status", status), logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: msg, Rows: rows})
}
