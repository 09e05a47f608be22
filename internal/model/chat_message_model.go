package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMessage struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role          string         `gorm:"type:text;not null"` // "user" or "assistant"
	Content       string         `gorm:"type:text;not null"`
	Suggestions   datatypes.JSON `gorm:"type:jsonb"` // Assistant rows only
	Meta          datatypes.JSON `gorm:"type:jsonb"` // {latency_ms, source}
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
