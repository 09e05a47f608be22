package mapper

import (
	"leadq-chatbot-be/internal/entity"
	"leadq-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}

	source := ""
	chunkIndex := 0
	if c.Metadata != nil {
		if v, ok := c.Metadata["source"].(string); ok {
			source = v
		}
		// JSONB numbers decode as float64
		if v, ok := c.Metadata["chunk_index"].(float64); ok {
			chunkIndex = int(v)
		}
	}

	return &entity.DocumentChunk{
		Id:         c.Id,
		Content:    c.Content,
		Embedding:  c.Embedding.Slice(),
		Source:     source,
		ChunkIndex: chunkIndex,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToModel(c *entity.DocumentChunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}

	return &model.DocumentChunk{
		Id:        c.Id,
		Content:   c.Content,
		Embedding: pgvector.NewVector(c.Embedding),
		Metadata: datatypes.JSONMap{
			"source":      c.Source,
			"chunk_index": c.ChunkIndex,
		},
		CreatedAt: c.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToEntities(chunks []*model.DocumentChunk) []*entity.DocumentChunk {
	entities := make([]*entity.DocumentChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
