package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentChunk struct {
	Id         uuid.UUID
	Content    string
	Embedding  []float32
	Source     string
	ChunkIndex int
	CreatedAt  time.Time
}
