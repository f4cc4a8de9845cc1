// File path: internal/session/session.go
package session

import (
	"sync"
	"time"
)

// Role values for conversation turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SourceRef links an assistant turn back to the document chunk that
// grounded it. Similarity is exposed as a 0-1 relevance score.
type SourceRef struct {
	ChunkIndex int     `json:"chunk_index"`
	Preview    string  `json:"preview"`
	Similarity float32 `json:"similarity"`
}

// Turn is one message in a conversation.
type Turn struct {
	Role      string      `json:"role"`
	Content   string      `json:"content"`
	Sources   []SourceRef `json:"sources,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Info summarises a session.
type Info struct {
	SessionID         string     `json:"session_id"`
	MessageCount      int        `json:"message_count"`
	UserMessages      int        `json:"user_messages"`
	AssistantMessages int        `json:"assistant_messages"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
	LastActivity      *time.Time `json:"last_activity,omitempty"`
}

type record struct {
	mu    sync.Mutex
	turns []Turn
}

// Store keeps per-session conversation history in memory. Appends to the
// same session are serialized by a per-session mutex; sessions never block
// each other. A session exists implicitly from its first append until it is
// cleared or the process exits.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*record
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*record)}
}

func (s *Store) session(id string, create bool) *record {
	s.mu.RLock()
	rec, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok || !create {
		return rec
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok = s.sessions[id]; ok {
		return rec
	}
	rec = &record{}
	s.sessions[id] = rec
	return rec
}

// Append adds a turn to the session, stamping the time when unset.
func (s *Store) Append(sessionID string, turn Turn) {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	rec := s.session(sessionID, true)
	rec.mu.Lock()
	rec.turns = append(rec.turns, turn)
	rec.mu.Unlock()
}

// History returns the session's turns in insertion order. Unknown sessions
// yield an empty slice, never an error.
func (s *Store) History(sessionID string) []Turn {
	rec := s.session(sessionID, false)
	if rec == nil {
		return nil
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]Turn(nil), rec.turns...)
}

// Clear removes the session and reports whether it existed.
func (s *Store) Clear(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

// Info reports message counts and activity timestamps for a session.
func (s *Store) Info(sessionID string) Info {
	turns := s.History(sessionID)
	info := Info{SessionID: sessionID, MessageCount: len(turns)}
	for _, turn := range turns {
		switch turn.Role {
		case RoleUser:
			info.UserMessages++
		case RoleAssistant:
			info.AssistantMessages++
		}
	}
	if len(turns) > 0 {
		created := turns[0].Timestamp
		last := turns[len(turns)-1].Timestamp
		info.CreatedAt = &created
		info.LastActivity = &last
	}
	return info
}
