// File path: internal/api/chat_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/studybuddy-ai/studybuddy/internal/common"
	"github.com/studybuddy-ai/studybuddy/internal/docstore"
	"github.com/studybuddy-ai/studybuddy/internal/rag"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.DocumentID) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("document_id required"))
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	answer, err := s.chat.Answer(r.Context(), req.DocumentID, req.Question, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, rag.ErrEmptyQuestion):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, docstore.ErrNotFound):
			writeError(w, http.StatusNotFound, err)
		case errors.Is(err, rag.ErrGeneration):
			writeError(w, http.StatusBadGateway, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	logger.Info("api: chat answered", "session", sessionID, "sources", len(answer.Sources))
	writeJSON(w, http.StatusOK, chatResponse{
		Answer:       answer.Text,
		Sources:      answer.Sources,
		SessionID:    sessionID,
		MessageCount: answer.MessageCount,
	})
}
