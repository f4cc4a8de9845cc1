// File path: internal/api/documents_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/studybuddy-ai/studybuddy/internal/common"
	"github.com/studybuddy-ai/studybuddy/internal/docstore"
	"github.com/studybuddy-ai/studybuddy/internal/sqlite"
)

var allowedKinds = map[string]struct{}{
	"study_material": {},
	"syllabus":       {},
	"pyq":            {},
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if kind == "" {
		kind = "study_material"
	}
	if _, ok := allowedKinds[kind]; !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported kind %q", req.Kind))
		return
	}
	doc, err := s.docs.Ingest(ctx, kind, strings.TrimSpace(req.Filename), req.Text)
	if err != nil {
		if errors.Is(err, docstore.ErrEmptyDocument) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if s.catalog != nil {
		rec := sqlite.DocumentRecord{
			ID:         doc.ID,
			Kind:       doc.Kind,
			Filename:   doc.Filename,
			ChunkCount: len(doc.Chunks),
			CreatedAt:  doc.CreatedAt,
		}
		if err := s.catalog.InsertDocument(ctx, rec); err != nil {
			logger.Warn("api: catalog insert failed", "doc", doc.ID, "error", err)
		}
	}
	logger.Info("api: document ingested", "doc", doc.ID, "kind", doc.Kind, "chunks", len(doc.Chunks))
	writeJSON(w, http.StatusCreated, ingestResponse{
		DocumentID: doc.ID,
		Kind:       doc.Kind,
		Filename:   doc.Filename,
		ChunkCount: len(doc.Chunks),
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"documents": []sqlite.DocumentRecord{}})
		return
	}
	kind := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("kind")))
	records, err := s.catalog.ListDocuments(r.Context(), kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []sqlite.DocumentRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": records})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "documentID")
	doc, err := s.docs.Get(id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ingestResponse{
		DocumentID: doc.ID,
		Kind:       doc.Kind,
		Filename:   doc.Filename,
		ChunkCount: len(doc.Chunks),
	})
}
