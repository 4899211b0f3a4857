package http

import (
	"net/http"

	"tally/internal/core"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

// handleSaveSettings replaces the whole settings blob, embedded budget
// limits and recurring templates included.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings core.UserSettings
	if err := decodeBody(r, &settings); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.settings.Save(r.Context(), settings); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}
