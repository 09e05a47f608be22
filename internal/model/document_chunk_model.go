package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentChunk struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content   string            `gorm:"type:text;not null"`
	Embedding pgvector.Vector   `gorm:"type:vector(1536)"` // text-embedding-3-small uses 1536 dimensions
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`        // {source, chunk_index}
	CreatedAt time.Time         `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
