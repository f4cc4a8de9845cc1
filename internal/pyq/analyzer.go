// File path: internal/pyq/analyzer.go
package pyq

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/studybuddy-ai/studybuddy/internal/common"
	"github.com/studybuddy-ai/studybuddy/internal/config"
	"github.com/studybuddy-ai/studybuddy/internal/docstore"
)

// Priority tiers assigned to analysed topics.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

const topicMaxRunes = 80

// TopicRecord reports how often a syllabus topic surfaced in the previous
// year question paper.
type TopicRecord struct {
	Topic      string  `json:"topic"`
	Frequency  int     `json:"frequency"`
	Percentage float64 `json:"percentage"`
	Priority   string  `json:"priority"`
}

// Report is the outcome of one analysis run. It is computed fresh on every
// call and never persisted.
type Report struct {
	Topics          []TopicRecord `json:"topics"`
	Recommendations []string      `json:"recommendations"`
	TotalMatches    int           `json:"total_matches"`
	UniqueTopics    int           `json:"unique_topics"`
}

// DocumentSource is the slice of the document store the analyser needs.
// *docstore.Store satisfies it; tests substitute scripted fakes.
type DocumentSource interface {
	Get(id string) (*docstore.Document, error)
	Retrieve(ctx context.Context, id, query string, k int) ([]docstore.Scored, error)
}

// Analyzer cross-references a syllabus document against a question paper
// document to estimate which topics examiners revisit.
type Analyzer struct {
	docs DocumentSource
	cfg  config.PYQConfig
}

func NewAnalyzer(docs DocumentSource, cfg config.PYQConfig) *Analyzer {
	defaults := config.Default().PYQ
	if cfg.MatchK <= 0 {
		cfg.MatchK = defaults.MatchK
	}
	if cfg.MatchThreshold <= 0 {
		cfg.MatchThreshold = defaults.MatchThreshold
	}
	if cfg.HighThreshold <= 0 {
		cfg.HighThreshold = defaults.HighThreshold
	}
	if cfg.MediumThreshold <= 0 {
		cfg.MediumThreshold = defaults.MediumThreshold
	}
	return &Analyzer{docs: docs, cfg: cfg}
}

// Analyze extracts candidate topics from the syllabus, counts question-paper
// chunks matching each topic above the similarity threshold, and ranks the
// topics by frequency. Given the same two documents the result is identical
// on every call.
func (a *Analyzer) Analyze(ctx context.Context, syllabusID, pyqID string) (*Report, error) {
	logger := common.Logger()
	syllabus, err := a.docs.Get(syllabusID)
	if err != nil {
		return nil, err
	}
	if _, err := a.docs.Get(pyqID); err != nil {
		return nil, err
	}
	topics := extractTopics(syllabus)
	if len(topics) == 0 {
		return nil, fmt.Errorf("syllabus %s yielded no topics", syllabusID)
	}
	records := make([]TopicRecord, 0, len(topics))
	total := 0
	for _, topic := range topics {
		scored, err := a.docs.Retrieve(ctx, pyqID, topic, a.cfg.MatchK)
		if err != nil {
			return nil, fmt.Errorf("match topic %q: %w", topic, err)
		}
		frequency := 0
		for _, s := range scored {
			if float64(s.Similarity) >= a.cfg.MatchThreshold {
				frequency++
			}
		}
		total += frequency
		records = append(records, TopicRecord{Topic: topic, Frequency: frequency})
	}
	for i := range records {
		if total > 0 {
			records[i].Percentage = float64(records[i].Frequency) / float64(total) * 100
		}
		records[i].Priority = a.priority(records[i].Frequency)
	}
	// Stable sort keeps syllabus order among equal frequencies.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Frequency > records[j].Frequency
	})
	report := &Report{
		Topics:          records,
		Recommendations: a.recommendations(records),
		TotalMatches:    total,
		UniqueTopics:    len(records),
	}
	logger.Info("pyq: analysis complete", "syllabus", syllabusID, "pyq", pyqID, "topics", len(records), "matches", total)
	return report, nil
}

func (a *Analyzer) priority(frequency int) string {
	switch {
	case frequency >= a.cfg.HighThreshold:
		return PriorityHigh
	case frequency >= a.cfg.MediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func (a *Analyzer) recommendations(records []TopicRecord) []string {
	var recs []string
	for _, r := range records {
		if r.Priority == PriorityHigh {
			recs = append(recs, fmt.Sprintf("Focus on '%s' - appeared in %d prior questions (%.1f%%)", r.Topic, r.Frequency, r.Percentage))
		}
	}
	for _, r := range records {
		if r.Priority == PriorityMedium {
			recs = append(recs, fmt.Sprintf("Review '%s' - %d prior questions (%.1f%%)", r.Topic, r.Frequency, r.Percentage))
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "No topic stands out in the question paper; revise the full syllabus evenly")
	}
	return recs
}

// extractTopics derives one candidate topic per syllabus chunk: the first
// non-empty line, capped in length, deduplicated case-insensitively while
// preserving syllabus order.
func extractTopics(doc *docstore.Document) []string {
	var topics []string
	seen := make(map[string]struct{})
	for _, chunk := range doc.Chunks {
		topic := firstLine(chunk.Text)
		if topic == "" {
			continue
		}
		key := strings.ToLower(topic)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		topics = append(topics, topic)
	}
	return topics
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > topicMaxRunes {
			line = string(runes[:topicMaxRunes])
		}
		return line
	}
	return ""
}
