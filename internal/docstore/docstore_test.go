// File path: internal/docstore/docstore_test.go
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/studybuddy-ai/studybuddy/internal/chunker"
	"github.com/studybuddy-ai/studybuddy/internal/llm/providers"
	"github.com/studybuddy-ai/studybuddy/internal/vector"
)

func newTestStore() *Store {
	return New(chunker.New(200, 40), providers.NewLocalProvider(), vector.NewMemoryBackend())
}

func syllabusText() string {
	var b strings.Builder
	topics := []string{
		"Linear Regression\nFitting a line through data points by minimising squared error.",
		"Decision Trees\nSplitting feature space with information gain and entropy.",
		"Neural Networks\nLayered perceptrons trained with backpropagation.",
	}
	for _, t := range topics {
		b.WriteString(t)
		b.WriteString("\n\n")
	}
	return b.String()
}

func TestIngestAndGet(t *testing.T) {
	store := newTestStore()
	doc, err := store.Ingest(context.Background(), "syllabus", "ml.txt", syllabusText())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if doc.ID == "" || doc.Kind != "syllabus" || doc.Filename != "ml.txt" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if len(doc.Chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, ch := range doc.Chunks {
		if ch.Index != i {
			t.Fatalf("chunk %d carries index %d", i, ch.Index)
		}
		if len(ch.Embedding) == 0 {
			t.Fatalf("chunk %d missing embedding", i)
		}
	}
	got, err := store.Get(doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != doc.ID {
		t.Fatalf("get returned wrong document %s", got.ID)
	}
}

func TestIngestEmptyText(t *testing.T) {
	store := newTestStore()
	if _, err := store.Ingest(context.Background(), "syllabus", "empty.txt", "   \n"); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestGetUnknownDocument(t *testing.T) {
	store := newTestStore()
	if _, err := store.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Retrieve(context.Background(), "missing", "anything", 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIngestTwiceProducesIndependentDocuments(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	first, err := store.Ingest(ctx, "syllabus", "a.txt", syllabusText())
	if err != nil {
		t.Fatalf("ingest first: %v", err)
	}
	second, err := store.Ingest(ctx, "syllabus", "b.txt", syllabusText())
	if err != nil {
		t.Fatalf("ingest second: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("expected distinct document ids")
	}
	for _, id := range []string{first.ID, second.ID} {
		scored, err := store.Retrieve(ctx, id, "linear regression", 2)
		if err != nil {
			t.Fatalf("retrieve %s: %v", id, err)
		}
		if len(scored) == 0 {
			t.Fatalf("retrieve %s returned nothing", id)
		}
	}
}

func TestRetrieveRanksRelevantChunkFirst(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	doc, err := store.Ingest(ctx, "syllabus", "ml.txt", syllabusText())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	scored, err := store.Retrieve(ctx, doc.ID, "backpropagation neural networks perceptrons", 3)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(scored) == 0 {
		t.Fatal("no results")
	}
	if !strings.Contains(scored[0].Chunk.Text, "Neural Networks") {
		t.Fatalf("expected neural networks chunk first, got %q", scored[0].Chunk.Text)
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].Similarity > scored[i-1].Similarity {
			t.Fatalf("results not ordered at %d", i)
		}
	}
}

func TestConcurrentIngest(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	const workers = 8
	ids := make([]string, workers)
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := store.Ingest(ctx, "generic", fmt.Sprintf("doc-%d.txt", i), syllabusText())
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = doc.ID
		}(i)
	}
	wg.Wait()
	seen := make(map[string]struct{})
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if _, dup := seen[ids[i]]; dup {
			t.Fatalf("duplicate document id %s", ids[i])
		}
		seen[ids[i]] = struct{}{}
		if _, err := store.Get(ids[i]); err != nil {
			t.Fatalf("get %s: %v", ids[i], err)
		}
	}
}
