// File path: internal/vector/memory_test.go
package vector

import (
	"context"
	"errors"
	"testing"
)

func TestSearchOrderingAndTies(t *testing.T) {
	ctx := context.Background()
	idx, err := NewMemoryBackend().NewIndex("doc")
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	// Chunks 1 and 3 are identical, chunk 0 is orthogonal to the query,
	// chunk 2 is a partial match.
	vectors := map[int][]float32{
		0: {0, 1, 0},
		1: {1, 0, 0},
		2: {1, 1, 0},
		3: {1, 0, 0},
	}
	for i := 0; i < 4; i++ {
		if err := idx.Add(ctx, i, "", vectors[i]); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	matches, err := idx.Search(ctx, []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 4 {
		t.Fatalf("expected 4 matches, got %d", len(matches))
	}
	order := []int{1, 3, 2, 0}
	for i, want := range order {
		if matches[i].ChunkIndex != want {
			t.Fatalf("position %d: got chunk %d, want %d", i, matches[i].ChunkIndex, want)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Similarity > matches[i-1].Similarity {
			t.Fatalf("similarities not non-increasing at %d", i)
		}
	}
}

func TestSearchRespectsK(t *testing.T) {
	ctx := context.Background()
	idx, _ := NewMemoryBackend().NewIndex("doc")
	for i := 0; i < 5; i++ {
		if err := idx.Add(ctx, i, "", []float32{float32(i + 1), 1}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	for _, k := range []int{1, 3, 5, 8} {
		matches, err := idx.Search(ctx, []float32{1, 0}, k)
		if err != nil {
			t.Fatalf("search k=%d: %v", k, err)
		}
		want := k
		if want > 5 {
			want = 5
		}
		if len(matches) != want {
			t.Fatalf("k=%d: got %d matches, want %d", k, len(matches), want)
		}
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx, _ := NewMemoryBackend().NewIndex("doc")
	matches, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected empty result, got %d", len(matches))
	}
}

func TestAddRejectsDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx, _ := NewMemoryBackend().NewIndex("doc")
	if err := idx.Add(ctx, 0, "", []float32{1, 2, 3}); err != nil {
		t.Fatalf("add: %v", err)
	}
	err := idx.Add(ctx, 1, "", []float32{1, 2})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := idx.Search(ctx, []float32{1, 2}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch on query, got %v", err)
	}
}
