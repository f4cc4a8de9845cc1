// File path: internal/api/server.go
// Package api exposes the StudyBuddy HTTP surface: document ingestion,
// retrieval chat, session history, and prior-question analysis.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/studybuddy-ai/studybuddy/internal/common"
	"github.com/studybuddy-ai/studybuddy/internal/config"
	"github.com/studybuddy-ai/studybuddy/internal/docstore"
	"github.com/studybuddy-ai/studybuddy/internal/llm"
	"github.com/studybuddy-ai/studybuddy/internal/pyq"
	"github.com/studybuddy-ai/studybuddy/internal/rag"
	"github.com/studybuddy-ai/studybuddy/internal/session"
	"github.com/studybuddy-ai/studybuddy/internal/sqlite"
)

type Server struct {
	router    chi.Router
	docs      *docstore.Store
	sessions  *session.Store
	chat      *rag.Chat
	analyzer  *pyq.Analyzer
	generator *pyq.Generator
	catalog   *sqlite.Store
	provider  llm.Provider
	backend   string
}

// Options carries the wired components the server routes requests to.
// Catalog may be nil; document listing then falls back to in-memory state.
type Options struct {
	Docs     *docstore.Store
	Sessions *session.Store
	Provider llm.Provider
	Catalog  *sqlite.Store
	Config   config.Config
	Backend  string
}

func NewServer(opts Options) *Server {
	logger := common.Logger()
	providerName := "unknown"
	if opts.Provider != nil {
		providerName = opts.Provider.Name()
	}
	logger.Info("api: building server", "provider", providerName, "vector_backend", opts.Backend)
	srv := &Server{
		router:    chi.NewRouter(),
		docs:      opts.Docs,
		sessions:  opts.Sessions,
		chat:      rag.New(opts.Docs, opts.Sessions, opts.Provider, opts.Config.Retrieval),
		analyzer:  pyq.NewAnalyzer(opts.Docs, opts.Config.PYQ),
		generator: pyq.NewGenerator(opts.Docs, opts.Provider, opts.Config.PYQ),
		catalog:   opts.Catalog,
		provider:  opts.Provider,
		backend:   opts.Backend,
	}
	srv.routes()
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/api/v1/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/documents", s.handleIngest)
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{documentID}", s.handleGetDocument)
		r.Post("/rag/chat", s.handleChat)
		r.Get("/sessions/{sessionID}", s.handleSessionInfo)
		r.Get("/sessions/{sessionID}/history", s.handleHistory)
		r.Delete("/sessions/{sessionID}/history", s.handleClearHistory)
		r.Post("/pyq/analyze", s.handleAnalyze)
		r.Post("/pyq/mock", s.handleMockQuestions)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	providerName := "none"
	if s.provider != nil {
		providerName = s.provider.Name()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"provider":       providerName,
		"vector_backend": s.backend,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
