package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/runoshun/kanban/internal/domain"
)

// errBadRequest marks malformed input: bad JSON, ids or field formats.
var errBadRequest = errors.New("bad request")

// Error codes returned in the "code" field of error bodies.
const (
	CodeBadRequest       = "bad_request"
	CodeNotFound         = "not_found"
	CodeOverlap          = "timeline_overlap"
	CodeConflict         = "conflict"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternal         = "internal"
)

// errorResponse is the body of every error response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusOf maps an error to its HTTP status and code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidDuration):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrTimelineOverlap):
		return http.StatusNotAcceptable, CodeOverlap
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// writeError writes err as a JSON error body. Internal errors are logged
// and their details are not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		msg = "server error"
		if errors.Is(err, domain.ErrBackupSave) {
			msg = domain.ErrBackupSave.Error()
		}
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Code:    CodeMethodNotAllowed,
		Message: r.Method + " is not supported on " + r.URL.Path,
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Code: CodeNotFound, Message: r.URL.Path + " not found"})
}
