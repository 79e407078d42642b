package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keiri-dev/keiri/internal/ledger"
	"github.com/keiri-dev/keiri/internal/model"
)

// ListEntries handles GET /owners/{owner}/entries. start and end default
// to the current month.
func (s *Server) ListEntries(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	first, last := ledger.MonthRange(today.Year(), int(today.Month()))
	start, ok := dateParam(r, "start", first)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid start")
		return
	}
	end, ok := dateParam(r, "end", last)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid end")
		return
	}

	j, err := s.ledger.Journal(r.Context(), chi.URLParam(r, "owner"), start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if j.NoData {
		writeOwnerNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// CreateEntry handles POST /owners/{owner}/entries. The body is a draft.
func (s *Server) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if d.Source == "" {
		d.Source = "api"
	}

	e, err := s.builder.Build(r.Context(), d, chi.URLParam(r, "owner"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entry": e})
}

// DeleteEntry handles DELETE /owners/{owner}/entries/{id}.
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ok, err := s.builder.Delete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "owner"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not_found", "Entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
