package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/pkg/logger"
)

// QAHandler serves the QA extension.
type QAHandler struct {
	deps   QADependencies
	logger logger.Logger
}

// NewQAHandler creates a new QA handler.
func NewQAHandler(deps QADependencies, l logger.Logger) *QAHandler {
	return &QAHandler{deps: deps, logger: l}
}

// HandlePath handles GET /api/qa-path?QAOwner&candidatesNum&filterRelevant&filterJob.
func (h *QAHandler) HandlePath(w http.ResponseWriter, r *http.Request) {
	const op = "api.qa_path"
	if r.Method != http.MethodGet {
		writeError(r.Context(), h.logger, w, NewKind(op, ErrMethod))
		return
	}
	q := r.URL.Query()
	res, err := h.deps.QAPath(r.Context(), model.QAPathQuery{
		QAOwner:   q.Get("QAOwner"),
		Job:       q.Get("filterJob"),
		Relevance: q.Get("filterRelevant"),
		Count:     q.Get("candidatesNum"),
	})
	if err != nil {
		writeError(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleUpdate handles POST /api/qa-update. The update may be sent bare or
// wrapped as {"candidate": {...}}.
func (h *QAHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.qa_update"
	if r.Method != http.MethodPost {
		writeError(r.Context(), h.logger, w, NewKind(op, ErrMethod))
		return
	}
	u, err := decodeUpdate(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	msg, err := h.deps.QAUpdate(r.Context(), u)
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: msg})
}

func (h *QAHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := classify(err)
	h.logger.Error(r.Context(), "qa update failed", logger.Int("status", status), logger.Error(err))
	writeJSON(w, status, statusResponse{Status: msgUpdateFailed})
}

func decodeUpdate(body io.Reader) (model.QAUpdate, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return model.QAUpdate{}, err
	}
	var wrapped struct {
		Candidate *model.QAUpdate `json:"candidate"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return model.QAUpdate{}, err
	}
	if wrapped.Candidate != nil {
		return *wrapped.Candidate, nil
	}
	var u model.QAUpdate
	if err := json.Unmarshal(raw, &u); err != nil {
		return model.QAUpdate{}, err
	}
	return u, nil
}
