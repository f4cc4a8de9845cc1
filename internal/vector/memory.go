// File path: internal/vector/memory.go
package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryBackend keeps every index in process memory. It is the reference
// backend: exact brute-force cosine search with fully deterministic ordering.
type MemoryBackend struct{}

func NewMemoryBackend() *MemoryBackend { return &MemoryBackend{} }

func (b *MemoryBackend) NewIndex(documentID string) (Index, error) {
	return &memoryIndex{}, nil
}

func (b *MemoryBackend) Name() string { return "memory" }

type entry struct {
	chunkIndex int
	vec        []float32
}

type memoryIndex struct {
	mu        sync.RWMutex
	dimension int
	entries   []entry
}

func (m *memoryIndex) Add(ctx context.Context, chunkIndex int, text string, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: empty vector for chunk %d", ErrDimensionMismatch, chunkIndex)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dimension == 0 {
		m.dimension = len(vec)
	} else if len(vec) != m.dimension {
		return fmt.Errorf("%w: index holds %d-dim vectors, got %d", ErrDimensionMismatch, m.dimension, len(vec))
	}
	m.entries = append(m.entries, entry{chunkIndex: chunkIndex, vec: append([]float32(nil), vec...)})
	return nil
}

func (m *memoryIndex) Search(ctx context.Context, query []float32, k int) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.entries) == 0 {
		return nil, nil
	}
	if len(query) != m.dimension {
		return nil, fmt.Errorf("%w: index holds %d-dim vectors, query has %d", ErrDimensionMismatch, m.dimension, len(query))
	}
	matches := make([]Match, 0, len(m.entries))
	for _, e := range m.entries {
		matches = append(matches, Match{ChunkIndex: e.chunkIndex, Similarity: cosine(query, e.vec)})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ChunkIndex < matches[j].ChunkIndex
	})
	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

func (m *memoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func cosine(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
