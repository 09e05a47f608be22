package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatStreamRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionId string `json:"sessionId,omitempty"`
	UserId    string `json:"userId,omitempty"`
}

// Stream chunk types, in emission order. Unless the caller disconnects,
// every request ends with a recommendations + meta pair, even on internal
// errors.
const (
	StreamTypeStatus          = "status"
	StreamTypeContent         = "content"
	StreamTypeRecommendations = "recommendations"
	StreamTypeMeta            = "meta"

	StreamStatusThinking = "thinking"
)

// StreamChunk is one NDJSON line of the outbound stream.
type StreamChunk struct {
	Type      string   `json:"type"`
	Chunk     string   `json:"chunk,omitempty"`
	Data      []string `json:"data,omitempty"`
	SessionId string   `json:"sessionId,omitempty"`
}

func NewStatusChunk() StreamChunk {
	return StreamChunk{Type: StreamTypeStatus, Chunk: StreamStatusThinking}
}

func NewContentChunk(text string) StreamChunk {
	return StreamChunk{Type: StreamTypeContent, Chunk: text}
}

func NewRecommendationsChunk(suggestions []string) StreamChunk {
	return StreamChunk{Type: StreamTypeRecommendations, Data: suggestions}
}

func NewMetaChunk(sessionId string) StreamChunk {
	return StreamChunk{Type: StreamTypeMeta, SessionId: sessionId}
}

// TranscriptRecord is the fire-and-forget persistence payload for one
// resolved exchange.
type TranscriptRecord struct {
	SessionId     uuid.UUID  `json:"session_id"`
	UserId        *uuid.UUID `json:"user_id,omitempty"`
	UserText      string     `json:"user_text"`
	AssistantText string     `json:"assistant_text"`
	Suggestions   []string   `json:"suggestions,omitempty"`
	LatencyMs     float64    `json:"latency_ms"`
	Source        string     `json:"source"`
}

type GetChatHistoryResponse struct {
	Id          uuid.UUID `json:"id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	Suggestions []string  `json:"suggestions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
