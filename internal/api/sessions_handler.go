// File path: internal/api/sessions_handler.go
package api

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/studybuddy-ai/studybuddy/internal/session"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	turns := s.sessions.History(id)
	if turns == nil {
		turns = []session.Turn{}
	}
	writeJSON(w, http.StatusOK, historyResponse{SessionID: id, Turns: turns})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	cleared := s.sessions.Clear(id)
	writeJSON(w, http.StatusOK, clearResponse{SessionID: id, Cleared: cleared})
}

func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	writeJSON(w, http.StatusOK, s.sessions.Info(id))
}
