package http

import (
	"net/http"
	"strings"

	"tally/internal/store"
)

type chatSendRequest struct {
	SessionID string `json:"session_id,omitempty"` // empty starts a new session
	Content   string `json:"content"`
	General   bool   `json:"general,omitempty"` // skip the finance persona
}

type chatSendResponse struct {
	SessionID string              `json:"session_id"`
	Reply     store.ChatMessage   `json:"reply"`
	Messages  []store.ChatMessage `json:"messages"`
}

func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	var req chatSendRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		s.writeError(w, r, http.StatusBadRequest, "content is required")
		return
	}

	session, reply, err := s.chat.SendMessage(r.Context(), req.SessionID, req.Content, req.General)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, chatSendResponse{
		SessionID: session.ID,
		Reply:     reply,
		Messages:  session.Messages,
	})
}

func (s *Server) handleChatSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.chat.Sessions(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []store.ChatSession{}
	}
	s.writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	if err := s.chat.ClearSession(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleChatDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.chat.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}
