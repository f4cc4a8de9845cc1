// File path: internal/api/types.go
package api

import (
	"github.com/studybuddy-ai/studybuddy/internal/pyq"
	"github.com/studybuddy-ai/studybuddy/internal/session"
)

type ingestRequest struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

type ingestResponse struct {
	DocumentID string `json:"document_id"`
	Kind       string `json:"kind"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
}

type chatRequest struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
	SessionID  string `json:"session_id"`
}

type chatResponse struct {
	Answer       string              `json:"answer"`
	Sources      []session.SourceRef `json:"sources"`
	SessionID    string              `json:"session_id"`
	MessageCount int                 `json:"message_count"`
}

type historyResponse struct {
	SessionID string         `json:"session_id"`
	Turns     []session.Turn `json:"turns"`
}

type clearResponse struct {
	SessionID string `json:"session_id"`
	Cleared   bool   `json:"cleared"`
}

type analyzeRequest struct {
	SyllabusID string `json:"syllabus_id"`
	PYQID      string `json:"pyq_id"`
}

type mockRequest struct {
	SyllabusID string `json:"syllabus_id"`
	Topic      string `json:"topic"`
	Count      int    `json:"count"`
}

type mockResponse struct {
	Topic     string             `json:"topic"`
	Questions []pyq.MockQuestion `json:"questions"`
}
