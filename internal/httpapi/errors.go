package httpapi

import (
	"errors"
	"net/http"

	"github.com/keiri-dev/keiri/internal/journal"
	"github.com/keiri-dev/keiri/internal/ledger"
	"github.com/keiri-dev/keiri/internal/store"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error            string   `json:"error"`
	ErrorDescription string   `json:"error_description,omitempty"`
	Violations       []string `json:"violations,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, errCode, description string) {
	writeJSON(w, status, ErrorResponse{Error: errCode, ErrorDescription: description})
}

func writeOwnerNotFound(w http.ResponseWriter) {
	writeJSONError(w, http.StatusNotFound, "not_found", "Owner not found")
}

// writeError maps engine errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *journal.ValidationError
	var ierr *ledger.IntegrityError
	switch {
	case errors.As(err, &verr):
		resp := ErrorResponse{Error: "validation_failed", ErrorDescription: "Draft rejected"}
		for _, v := range verr.Violations {
			resp.Violations = append(resp.Violations, v.String())
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, store.ErrConflict):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, store.ErrInvalidOwnerRef):
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &ierr):
		writeJSONError(w, http.StatusInternalServerError, "integrity_error", err.Error())
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Internal error")
	}
}
