package api

import (
	"errors"
	"net/http"

	service "github.com/okian/sourceqa/internal/app"
	"github.com/okian/sourceqa/internal/domain/navigate"
	"github.com/okian/sourceqa/internal/domain/selection"
	"github.com/okian/sourceqa/internal/domain/types"
	"github.com/okian/sourceqa/internal/domain/writer"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrMethod     = errors.New("method not allowed")
)

// Messages shown to extension users.
const (
	msgGeneric       = "Something went wrong!"
	msgInvalidMode   = "Invalid mode. Please specify 'people' or 'company'."
	msgInvalidFilter = "Invalid filters. Please select a job and a positive number of candidates."
	msgBadBody       = "Invalid request body."
	msgNotFound      = "Candidate not found"
	msgNoLinks       = "Both links (Back/Next) are empty"
	msgNotAllowed    = "You are not allowed to use that extension!"
	msgNoCandidates  = "The application hasn't found any candidates that match the selected filters, please try selecting other filters."
	msgWriteFailed   = "Error when filling in the candidate data. "
	msgUpdateFailed  = "Update failed"
)

// Error annotates an error with the operation that produced it and its kind.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Kind != nil:
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Kind != nil:
		return e.Op + ": " + e.Kind.Error()
	default:
		return e.Op
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind annotates err with op and kind. It returns nil for a nil err.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap annotates err with op. It returns nil for a nil err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// classify maps a failure to its status code and user-facing message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrInvalidMode):
		return http.StatusBadRequest, msgInvalidMode
	case errors.Is(err, selection.ErrInvalidFilter):
		return http.StatusBadRequest, msgInvalidFilter
	case errors.Is(err, service.ErrInvalidIndex), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, msgBadBody
	case errors.Is(err, ErrMethod):
		return http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed)
	case errors.Is(err, writer.ErrNotFound):
		return http.StatusInternalServerError, msgNotFound
	case errors.Is(err, navigate.ErrNoLinks):
		return http.StatusInternalServerError, msgNoLinks
	case errors.Is(err, types.ErrNotAllowed):
		return http.StatusInternalServerError, msgNotAllowed
	case errors.Is(err, selection.ErrNoCandidates):
		return http.StatusInternalServerError, msgNoCandidates
	case errors.Is(err, writer.ErrWriteFailed):
		return http.StatusInternalServerError, msgWriteFailed + msgGeneric
	default:
		return http.StatusInternalServerError, msgGeneric
	}
}
