// File path: internal/pyq/mockgen.go
package pyq

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/studybuddy-ai/studybuddy/internal/common"
	"github.com/studybuddy-ai/studybuddy/internal/config"
	"github.com/studybuddy-ai/studybuddy/internal/llm"
)

var (
	// ErrInvalidCount reports a question count outside [1, MaxQuestions].
	ErrInvalidCount = errors.New("pyq: question count out of range")
	// ErrEmptyTopic reports a blank topic.
	ErrEmptyTopic = errors.New("pyq: topic is empty")
)

// Difficulty tiers for generated questions.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const contextRunesPerChunk = 300

// MockQuestion is one generated practice question. Numbers run 1..n.
type MockQuestion struct {
	Number     int    `json:"number"`
	Text       string `json:"text"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// Generator produces exam-style practice questions grounded in syllabus
// chunks retrieved for the requested topic.
type Generator struct {
	docs     DocumentSource
	provider llm.Provider
	cfg      config.PYQConfig
}

func NewGenerator(docs DocumentSource, provider llm.Provider, cfg config.PYQConfig) *Generator {
	defaults := config.Default().PYQ
	if cfg.MatchK <= 0 {
		cfg.MatchK = defaults.MatchK
	}
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = defaults.MaxQuestions
	}
	return &Generator{docs: docs, provider: provider, cfg: cfg}
}

// Generate asks the provider for count questions about topic. The returned
// structure (numbering, difficulty assignment, truncation) is deterministic
// given the same provider output; the wording is as non-deterministic as the
// provider itself.
func (g *Generator) Generate(ctx context.Context, syllabusID, topic string, count int) ([]MockQuestion, error) {
	logger := common.Logger()
	if count < 1 || count > g.cfg.MaxQuestions {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidCount, count, g.cfg.MaxQuestions)
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if _, err := g.docs.Get(syllabusID); err != nil {
		return nil, err
	}
	scored, err := g.docs.Retrieve(ctx, syllabusID, topic, g.cfg.MatchK)
	if err != nil {
		return nil, err
	}
	var contextParts []string
	for _, s := range scored {
		contextParts = append(contextParts, clip(s.Chunk.Text, contextRunesPerChunk))
	}
	prompt := buildPrompt(topic, count, strings.Join(contextParts, "\n"))
	response, err := g.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You are an exam question generator for students revising from their syllabus."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrGeneration, err)
	}
	questions := parseQuestions(response, topic)
	if len(questions) > count {
		questions = questions[:count]
	}
	logger.Info("pyq: mock questions generated", "syllabus", syllabusID, "topic", topic, "requested", count, "returned", len(questions))
	return questions, nil
}

func buildPrompt(topic string, count int, context string) string {
	return fmt.Sprintf(`Based on the syllabus content below, generate %d exam-style questions about "%s".

SYLLABUS CONTENT:
%s

Generate questions that test understanding of key concepts, are clear and
unambiguous, and cover different aspects of the topic.

Format each question on its own line as:
Q1: [Question text]
Q2: [Question text]

GENERATE %d QUESTIONS:`, count, topic, context, count)
}

var questionPrefix = regexp.MustCompile(`^(?:Q\.?\s*\d+[.:)]\s*|\d+[.:)]\s*)`)

// parseQuestions extracts "Q1: ..." style lines and renumbers them 1..n.
func parseQuestions(response, topic string) []MockQuestion {
	var questions []MockQuestion
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !questionPrefix.MatchString(line) {
			continue
		}
		text := strings.TrimSpace(questionPrefix.ReplaceAllString(line, ""))
		if text == "" {
			continue
		}
		questions = append(questions, MockQuestion{
			Number:     len(questions) + 1,
			Text:       text,
			Topic:      topic,
			Difficulty: classifyDifficulty(text),
		})
	}
	return questions
}

// classifyDifficulty maps command verbs to difficulty tiers. The heuristic
// is intentionally simple and fully deterministic.
func classifyDifficulty(text string) string {
	lowered := strings.ToLower(text)
	for _, verb := range []string{"design", "evaluate", "justify", "derive", "prove", "critique"} {
		if strings.Contains(lowered, verb) {
			return DifficultyHard
		}
	}
	for _, verb := range []string{"define", "list", "state", "name", "identify"} {
		if strings.Contains(lowered, verb) {
			return DifficultyEasy
		}
	}
	return DifficultyMedium
}

func clip(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
