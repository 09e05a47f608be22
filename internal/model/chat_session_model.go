package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId    *uuid.UUID `gorm:"type:uuid;index"` // Optional; the chat widget is public
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
