// File path: internal/vector/chromem.go
package vector

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/studybuddy-ai/studybuddy/internal/common"
)

// ChromemBackend persists indexes with chromem-go, one collection per
// document, so ingested documents survive a process restart.
type ChromemBackend struct {
	db *chromem.DB
}

func NewChromemBackend(path string) (*ChromemBackend, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open chromem db: %w", err)
	}
	common.Logger().Info("vector: chromem backend ready", "path", path)
	return &ChromemBackend{db: db}, nil
}

func (b *ChromemBackend) NewIndex(documentID string) (Index, error) {
	name := "doc_" + documentID
	collection, err := b.db.GetOrCreateCollection(name, map[string]string{"hnsw:space": "cosine"}, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	return &chromemIndex{collection: collection}, nil
}

func (b *ChromemBackend) Name() string { return "chromem" }

type chromemIndex struct {
	mu         sync.Mutex
	dimension  int
	collection *chromem.Collection
}

func (c *chromemIndex) Add(ctx context.Context, chunkIndex int, text string, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: empty vector for chunk %d", ErrDimensionMismatch, chunkIndex)
	}
	c.mu.Lock()
	if c.dimension == 0 {
		c.dimension = len(vec)
	} else if len(vec) != c.dimension {
		c.mu.Unlock()
		return fmt.Errorf("%w: index holds %d-dim vectors, got %d", ErrDimensionMismatch, c.dimension, len(vec))
	}
	c.mu.Unlock()
	if text == "" {
		text = " "
	}
	err := c.collection.Add(ctx,
		[]string{strconv.Itoa(chunkIndex)},
		[][]float32{vec},
		[]map[string]string{{"chunk": strconv.Itoa(chunkIndex)}},
		[]string{text},
	)
	if err != nil {
		return fmt.Errorf("add chunk %d: %w", chunkIndex, err)
	}
	return nil
}

func (c *chromemIndex) Search(ctx context.Context, query []float32, k int) ([]Match, error) {
	count := c.collection.Count()
	if k <= 0 || count == 0 {
		return nil, nil
	}
	c.mu.Lock()
	if c.dimension != 0 && len(query) != c.dimension {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: index holds %d-dim vectors, query has %d", ErrDimensionMismatch, c.dimension, len(query))
	}
	c.mu.Unlock()
	if k > count {
		k = count
	}
	results, err := c.collection.QueryEmbedding(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	matches := make([]Match, 0, len(results))
	for _, res := range results {
		idx, err := strconv.Atoi(res.ID)
		if err != nil {
			return nil, fmt.Errorf("malformed chunk id %q: %w", res.ID, err)
		}
		matches = append(matches, Match{ChunkIndex: idx, Similarity: res.Similarity})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ChunkIndex < matches[j].ChunkIndex
	})
	return matches, nil
}

func (c *chromemIndex) Len() int {
	return c.collection.Count()
}
