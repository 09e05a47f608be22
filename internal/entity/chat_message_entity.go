package entity

import (
	"time"

	"github.com/google/uuid"
)

// MessageMeta is the per-exchange diagnostic payload stored alongside
// assistant messages.
type MessageMeta struct {
	LatencyMs float64 `json:"latency_ms"`
	Source    string  `json:"source"`
}

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	Suggestions   []string
	Meta          *MessageMeta
	CreatedAt     time.Time
}
