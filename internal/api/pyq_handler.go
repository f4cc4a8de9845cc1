// File path: internal/api/pyq_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/studybuddy-ai/studybuddy/internal/common"
	"github.com/studybuddy-ai/studybuddy/internal/docstore"
	"github.com/studybuddy-ai/studybuddy/internal/llm"
	"github.com/studybuddy-ai/studybuddy/internal/pyq"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.SyllabusID) == "" || strings.TrimSpace(req.PYQID) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("syllabus_id and pyq_id required"))
		return
	}
	report, err := s.analyzer.Analyze(r.Context(), req.SyllabusID, req.PYQID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: pyq analysis complete", "topics", report.UniqueTopics, "matches", report.TotalMatches)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleMockQuestions(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req mockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.SyllabusID) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("syllabus_id required"))
		return
	}
	questions, err := s.generator.Generate(r.Context(), req.SyllabusID, req.Topic, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, pyq.ErrInvalidCount), errors.Is(err, pyq.ErrEmptyTopic):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, docstore.ErrNotFound):
			writeError(w, http.StatusNotFound, err)
		case errors.Is(err, llm.ErrGeneration):
			writeError(w, http.StatusBadGateway, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	logger.Info("api: mock questions generated", "topic", req.Topic, "count", len(questions))
	writeJSON(w, http.StatusOK, mockResponse{Topic: strings.TrimSpace(req.Topic), Questions: questions})
}
