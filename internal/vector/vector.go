// File path: internal/vector/vector.go
package vector

import (
	"context"
	"errors"
)

// ErrDimensionMismatch reports a vector whose dimensionality differs from
// the vectors already held by an index. It signals an internal consistency
// fault: one index must only ever see vectors from one embedding model.
var ErrDimensionMismatch = errors.New("vector: dimension mismatch")

// Match pairs an indexed chunk with its cosine similarity to a query.
type Match struct {
	ChunkIndex int
	Similarity float32
}

// Index stores the embedding vectors of a single document and answers
// nearest-neighbour queries. Indexes are append-only; replacing a document
// means building a fresh index.
type Index interface {
	// Add registers the vector for the chunk at chunkIndex. The chunk text
	// accompanies the vector so persistent backends can rehydrate it.
	Add(ctx context.Context, chunkIndex int, text string, vec []float32) error
	// Search returns up to k matches ordered by descending similarity, ties
	// broken by ascending chunk index. An empty index yields an empty slice.
	Search(ctx context.Context, query []float32, k int) ([]Match, error)
	// Len reports the number of indexed vectors.
	Len() int
}

// Backend creates one Index per document.
type Backend interface {
	NewIndex(documentID string) (Index, error)
	Name() string
}
