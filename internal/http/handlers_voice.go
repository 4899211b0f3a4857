package http

import (
	"net/http"
	"strings"

	"tally/internal/voice"
)

type voiceParseRequest struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// handleVoiceParse extracts an amount, category, and description from a
// speech transcript. Unparseable transcripts still return 200 with the
// fields it could not extract left null.
func (s *Server) handleVoiceParse(w http.ResponseWriter, r *http.Request) {
	var req voiceParseRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		s.writeError(w, r, http.StatusBadRequest, "transcript is required")
		return
	}

	result := voice.Parse(req.Transcript, req.Confidence)
	s.writeJSON(w, http.StatusOK, result)
}
