package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/pkg/logger"
)

// SourcingHandler serves the sourcing extension at /api.
type SourcingHandler struct {
	deps   SourcingDependencies
	logger logger.Logger
}

// NewSourcingHandler creates a new sourcing handler.
func NewSourcingHandler(deps SourcingDependencies, l logger.Logger) *SourcingHandler {
	return &SourcingHandler{deps: deps, logger: l}
}

// Handle dispatches GET (link lookup) and POST (candidate write).
func (h *SourcingHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.HandleLinks(w, r)
	case http.MethodPost:
		h.HandleWrite(w, r)
	default:
		writeError(r.Context(), h.logger, w, NewKind("api.sourcing", ErrMethod))
	}
}

// HandleLinks handles GET /api?name&owner&link&mode.
func (h *SourcingHandler) HandleLinks(w http.ResponseWriter, r *http.Request) {
	const op = "api.links"
	q := r.URL.Query()
	res, err := h.deps.Links(r.Context(), model.LinksQuery{
		Name:  q.Get("name"),
		Owner: q.Get("owner"),
		URL:   q.Get("link"),
		Mode:  q.Get("mode"),
	})
	if err != nil {
		writeError(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleWrite handles POST /api with a sourced candidate body.
func (h *SourcingHandler) HandleWrite(w http.ResponseWriter, r *http.Request) {
	const op = "api.write_candidate"
	var c model.SourcedCandidate
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&c); err != nil {
		writeError(r.Context(), h.logger, w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.WriteCandidate(r.Context(), c)
	if err != nil {
		writeErrorRows(r.Context(), h.logger, w, Wrap(op, err), res.Rows)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
