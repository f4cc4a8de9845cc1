// File path: internal/docstore/docstore.go
package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studybuddy-ai/studybuddy/internal/chunker"
	"github.com/studybuddy-ai/studybuddy/internal/common"
	"github.com/studybuddy-ai/studybuddy/internal/vector"
)

var (
	// ErrNotFound reports an unknown document id.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrEmptyDocument reports that ingestion produced no chunks.
	ErrEmptyDocument = errors.New("docstore: document produced no chunks")
)

// Chunk is one embeddable span of a document. Index values are contiguous
// from zero and stable for the lifetime of the document; SourceRefs depend
// on that.
type Chunk struct {
	Index     int
	Text      string
	Embedding []float32
	Offset    int
}

// Document is an ingested study material. Documents are immutable once
// ingestion completes; re-uploading creates a new Document under a new id.
type Document struct {
	ID        string
	Kind      string
	Filename  string
	Chunks    []Chunk
	CreatedAt time.Time
}

// Scored pairs a chunk with its similarity to a query.
type Scored struct {
	Chunk      Chunk
	Similarity float32
}

// Embedder is the slice of llm.Provider the store depends on.
type Embedder interface {
	Embed(ctx context.Context, input []string) ([][]float32, error)
}

type record struct {
	doc   *Document
	index vector.Index
}

// Store owns every ingested document and its vector index. One Store is
// shared process-wide; ingestion of distinct documents may run concurrently
// because only the id lookup map is guarded.
type Store struct {
	mu       sync.RWMutex
	chunker  *chunker.Chunker
	embedder Embedder
	backend  vector.Backend
	docs     map[string]*record
}

func New(ch *chunker.Chunker, embedder Embedder, backend vector.Backend) *Store {
	return &Store{
		chunker:  ch,
		embedder: embedder,
		backend:  backend,
		docs:     make(map[string]*record),
	}
}

// Ingest chunks and embeds text, builds a fresh index, and registers the
// document under a generated id. The embedding call runs outside any lock.
func (s *Store) Ingest(ctx context.Context, kind, filename, text string) (*Document, error) {
	logger := common.Logger()
	pieces, err := s.chunker.Split(text)
	if err != nil {
		if errors.Is(err, chunker.ErrEmptyInput) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("chunk document: %w", err)
	}
	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.Text
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed document: %w", err)
	}
	if len(vectors) != len(pieces) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(pieces))
	}
	id := uuid.NewString()
	index, err := s.backend.NewIndex(id)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	chunks := make([]Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = Chunk{Index: i, Text: p.Text, Embedding: vectors[i], Offset: p.Offset}
		if err := index.Add(ctx, i, p.Text, vectors[i]); err != nil {
			return nil, fmt.Errorf("index chunk %d: %w", i, err)
		}
	}
	doc := &Document{
		ID:        id,
		Kind:      kind,
		Filename:  filename,
		Chunks:    chunks,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.docs[id] = &record{doc: doc, index: index}
	s.mu.Unlock()
	logger.Info("docstore: document ingested", "id", id, "kind", kind, "chunks", len(chunks))
	return doc, nil
}

// Get returns the document registered under id.
func (s *Store) Get(id string) (*Document, error) {
	s.mu.RLock()
	rec, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec.doc, nil
}

// Retrieve embeds query and returns the top-k most similar chunks of the
// document, ordered by descending similarity.
func (s *Store) Retrieve(ctx context.Context, id, query string, k int) ([]Scored, error) {
	s.mu.RLock()
	rec, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if k <= 0 {
		k = 3
	}
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vectors))
	}
	matches, err := rec.index.Search(ctx, vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	scored := make([]Scored, 0, len(matches))
	for _, m := range matches {
		if m.ChunkIndex < 0 || m.ChunkIndex >= len(rec.doc.Chunks) {
			return nil, fmt.Errorf("index returned unknown chunk %d", m.ChunkIndex)
		}
		scored = append(scored, Scored{Chunk: rec.doc.Chunks[m.ChunkIndex], Similarity: m.Similarity})
	}
	return scored, nil
}
