package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keiri-dev/keiri/internal/model"
)

// ListOwners handles GET /owners.
func (s *Server) ListOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := s.store.Owners(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"owners": owners})
}

// AddOwner handles POST /owners.
func (s *Server) AddOwner(w http.ResponseWriter, r *http.Request) {
	var o model.Owner
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if o.Ref == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing ref")
		return
	}
	if o.TaxMethod == "" {
		o.TaxMethod = model.TaxMethodPrinciple
	} else if _, ok := model.ParseTaxMethod(string(o.TaxMethod)); !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid tax_method")
		return
	}

	if err := s.store.AddOwner(r.Context(), o); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"owner": o})
}

// GetOwner handles GET /owners/{owner}.
func (s *Server) GetOwner(w http.ResponseWriter, r *http.Request) {
	o, err := s.store.GetOwner(r.Context(), chi.URLParam(r, "owner"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"owner": o})
}
