// File path: internal/pyq/analyzer_test.go
package pyq

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/studybuddy-ai/studybuddy/internal/config"
	"github.com/studybuddy-ai/studybuddy/internal/docstore"
)

type fakeSource struct {
	docs    map[string]*docstore.Document
	results map[string][]docstore.Scored
}

func (f *fakeSource) Get(id string) (*docstore.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", docstore.ErrNotFound, id)
	}
	return doc, nil
}

func (f *fakeSource) Retrieve(ctx context.Context, id, query string, k int) ([]docstore.Scored, error) {
	if _, ok := f.docs[id]; !ok {
		return nil, fmt.Errorf("%w: %s", docstore.ErrNotFound, id)
	}
	scored := f.results[query]
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

func chunkDoc(id string, texts ...string) *docstore.Document {
	doc := &docstore.Document{ID: id, Kind: "syllabus", Filename: id + ".txt"}
	for i, text := range texts {
		doc.Chunks = append(doc.Chunks, docstore.Chunk{Index: i, Text: text})
	}
	return doc
}

func matches(n int, similarity float32) []docstore.Scored {
	scored := make([]docstore.Scored, n)
	for i := range scored {
		scored[i] = docstore.Scored{Chunk: docstore.Chunk{Index: i}, Similarity: similarity}
	}
	return scored
}

func analysisConfig() config.PYQConfig {
	return config.PYQConfig{MatchK: 10, MatchThreshold: 0.45, HighThreshold: 5, MediumThreshold: 2, MaxQuestions: 20}
}

func TestAnalyzeRanksAndTiers(t *testing.T) {
	source := &fakeSource{
		docs: map[string]*docstore.Document{
			"syl": chunkDoc("syl",
				"Gradient Descent\nIterative optimisation of differentiable losses.",
				"Bayes Theorem\nConditional probability and priors.",
				"Clustering\nUnsupervised grouping of observations.",
			),
			"pyq": chunkDoc("pyq", "question paper"),
		},
		results: map[string][]docstore.Scored{
			"Gradient Descent": append(matches(8, 0.8), matches(2, 0.2)...),
			"Bayes Theorem":    matches(1, 0.6),
			"Clustering":       matches(2, 0.1),
		},
	}
	analyzer := NewAnalyzer(source, analysisConfig())
	report, err := analyzer.Analyze(context.Background(), "syl", "pyq")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(report.Topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(report.Topics))
	}
	want := []struct {
		topic     string
		frequency int
		priority  string
	}{
		{"Gradient Descent", 8, PriorityHigh},
		{"Bayes Theorem", 1, PriorityLow},
		{"Clustering", 0, PriorityLow},
	}
	for i, w := range want {
		got := report.Topics[i]
		if got.Topic != w.topic || got.Frequency != w.frequency || got.Priority != w.priority {
			t.Fatalf("topic %d: got %+v, want %+v", i, got, w)
		}
	}
	if report.TotalMatches != 9 || report.UniqueTopics != 3 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	var mentionsTop bool
	for _, rec := range report.Recommendations {
		if strings.Contains(rec, "Gradient Descent") {
			mentionsTop = true
		}
	}
	if !mentionsTop {
		t.Fatalf("recommendations do not mention top topic: %v", report.Recommendations)
	}
}

func TestAnalyzeTiesKeepSyllabusOrder(t *testing.T) {
	source := &fakeSource{
		docs: map[string]*docstore.Document{
			"syl": chunkDoc("syl", "Alpha\ndetails", "Beta\ndetails", "Gamma\ndetails"),
			"pyq": chunkDoc("pyq", "paper"),
		},
		results: map[string][]docstore.Scored{
			"Alpha": matches(3, 0.9),
			"Beta":  matches(3, 0.9),
			"Gamma": matches(4, 0.9),
		},
	}
	analyzer := NewAnalyzer(source, analysisConfig())
	report, err := analyzer.Analyze(context.Background(), "syl", "pyq")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	order := []string{"Gamma", "Alpha", "Beta"}
	for i, topic := range order {
		if report.Topics[i].Topic != topic {
			t.Fatalf("position %d: got %s, want %s", i, report.Topics[i].Topic, topic)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	source := &fakeSource{
		docs: map[string]*docstore.Document{
			"syl": chunkDoc("syl", "Alpha\ndetails", "Beta\ndetails"),
			"pyq": chunkDoc("pyq", "paper"),
		},
		results: map[string][]docstore.Scored{
			"Alpha": matches(2, 0.7),
			"Beta":  matches(5, 0.7),
		},
	}
	analyzer := NewAnalyzer(source, analysisConfig())
	first, err := analyzer.Analyze(context.Background(), "syl", "pyq")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	second, err := analyzer.Analyze(context.Background(), "syl", "pyq")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated analysis produced different reports")
	}
}

func TestAnalyzeUnknownDocuments(t *testing.T) {
	source := &fakeSource{docs: map[string]*docstore.Document{
		"syl": chunkDoc("syl", "Alpha\ndetails"),
	}}
	analyzer := NewAnalyzer(source, analysisConfig())
	if _, err := analyzer.Analyze(context.Background(), "missing", "syl"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for syllabus, got %v", err)
	}
	if _, err := analyzer.Analyze(context.Background(), "syl", "missing"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for pyq, got %v", err)
	}
}

func TestExtractTopicsDeduplicates(t *testing.T) {
	doc := chunkDoc("syl",
		"Regression\nfirst chunk",
		"regression\noverlapping chunk",
		"\n\nClassification\nsecond topic",
	)
	topics := extractTopics(doc)
	want := []string{"Regression", "Classification"}
	if !reflect.DeepEqual(topics, want) {
		t.Fatalf("got %v, want %v", topics, want)
	}
}
