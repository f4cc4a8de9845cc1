// File path: internal/rag/chat.go
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/studybuddy-ai/studybuddy/internal/common"
	"github.com/studybuddy-ai/studybuddy/internal/config"
	"github.com/studybuddy-ai/studybuddy/internal/docstore"
	"github.com/studybuddy-ai/studybuddy/internal/llm"
	"github.com/studybuddy-ai/studybuddy/internal/session"
)

var (
	// ErrEmptyQuestion reports a blank or whitespace-only question.
	ErrEmptyQuestion = errors.New("rag: question is empty")
	// ErrGeneration wraps failures of the generation service. The user turn
	// is already recorded when this is returned, so a caller retry resumes a
	// consistent conversation.
	ErrGeneration = llm.ErrGeneration
)

const systemPrompt = "You are StudyBuddy, an AI tutor helping students understand their study materials. " +
	"Use the provided context from the student's document to answer their question, referencing chunks " +
	"by their [Chunk N] labels. If the answer is not in the context, say so. Be clear, concise, and helpful."

const noContextAnswer = "I couldn't find relevant information in the document to answer this question."

const previewRunes = 200

// DocumentSource is the slice of the document store the chat needs.
// *docstore.Store satisfies it; tests substitute scripted fakes.
type DocumentSource interface {
	Get(id string) (*docstore.Document, error)
	Retrieve(ctx context.Context, id, query string, k int) ([]docstore.Scored, error)
}

// Chat answers questions about one document at a time, grounding each answer
// in retrieved chunks and the trailing session history.
type Chat struct {
	docs     DocumentSource
	sessions *session.Store
	provider llm.Provider
	cfg      config.RetrievalConfig
}

// Answer is the result of one chat exchange.
type Answer struct {
	Text         string
	Sources      []session.SourceRef
	MessageCount int
}

func New(docs DocumentSource, sessions *session.Store, provider llm.Provider, cfg config.RetrievalConfig) *Chat {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 6
	}
	return &Chat{docs: docs, sessions: sessions, provider: provider, cfg: cfg}
}

// Answer retrieves context for question against the document, invokes the
// generation provider with the trailing session history, and records both
// turns. The user turn is recorded before generation so an aborted or failed
// generation still leaves a replayable conversation.
func (c *Chat) Answer(ctx context.Context, documentID, question, sessionID string) (*Answer, error) {
	logger := common.Logger()
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if _, err := c.docs.Get(documentID); err != nil {
		return nil, err
	}
	scored, err := c.docs.Retrieve(ctx, documentID, question, c.cfg.TopK)
	if err != nil {
		return nil, err
	}
	sources := buildSources(scored)
	history := c.sessions.History(sessionID)
	c.recordUserTurn(sessionID, history, question)

	if len(scored) == 0 {
		logger.Info("rag: no relevant chunks", "document", documentID, "session", sessionID)
		c.sessions.Append(sessionID, session.Turn{Role: session.RoleAssistant, Content: noContextAnswer})
		return &Answer{Text: noContextAnswer, Sources: sources, MessageCount: len(c.sessions.History(sessionID))}, nil
	}

	messages := c.buildMessages(scored, history, question)
	logger.Debug("rag: invoking generation", "document", documentID, "session", sessionID, "chunks", len(scored), "messages", len(messages))
	text, err := c.provider.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	c.sessions.Append(sessionID, session.Turn{Role: session.RoleAssistant, Content: text, Sources: sources})
	return &Answer{
		Text:         text,
		Sources:      sources,
		MessageCount: len(c.sessions.History(sessionID)),
	}, nil
}

// recordUserTurn appends the user turn unless the previous attempt already
// recorded the identical question, which happens when a caller retries after
// a generation failure.
func (c *Chat) recordUserTurn(sessionID string, history []session.Turn, question string) {
	if n := len(history); n > 0 {
		last := history[n-1]
		if last.Role == session.RoleUser && last.Content == question {
			return
		}
	}
	c.sessions.Append(sessionID, session.Turn{Role: session.RoleUser, Content: question})
}

func (c *Chat) buildMessages(scored []docstore.Scored, history []session.Turn, question string) []llm.Message {
	messages := []llm.Message{{Role: "system", Content: systemPrompt}}
	var b strings.Builder
	b.WriteString("CONTEXT:\n")
	for i, s := range scored {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Chunk %d] %s", s.Chunk.Index, s.Chunk.Text)
	}
	messages = append(messages, llm.Message{Role: "system", Content: b.String()})
	start := len(history) - c.cfg.HistoryWindow
	if start < 0 {
		start = 0
	}
	for _, turn := range history[start:] {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: question})
	return messages
}

func buildSources(scored []docstore.Scored) []session.SourceRef {
	sources := make([]session.SourceRef, 0, len(scored))
	for _, s := range scored {
		sources = append(sources, session.SourceRef{
			ChunkIndex: s.Chunk.Index,
			Preview:    preview(s.Chunk.Text),
			Similarity: relevance(s.Similarity),
		})
	}
	return sources
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}

// relevance clamps raw cosine similarity into a 0-1 score for callers.
func relevance(similarity float32) float32 {
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}
