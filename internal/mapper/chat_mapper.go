package mapper

import (
	"encoding/json"
	"time"

	"leadq-chatbot-be/internal/entity"
	"leadq-chatbot-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var suggestions []string
	if len(msg.Suggestions) > 0 {
		// Malformed rows degrade to no suggestions rather than erroring
		_ = json.Unmarshal(msg.Suggestions, &suggestions)
	}

	var meta *entity.MessageMeta
	if len(msg.Meta) > 0 {
		var decoded entity.MessageMeta
		if err := json.Unmarshal(msg.Meta, &decoded); err == nil {
			meta = &decoded
		}
	}

	return &entity.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Content:       msg.Content,
		Suggestions:   suggestions,
		Meta:          meta,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var suggestions datatypes.JSON
	if len(msg.Suggestions) > 0 {
		raw, err := json.Marshal(msg.Suggestions)
		if err == nil {
			suggestions = raw
		}
	}

	var meta datatypes.JSON
	if msg.Meta != nil {
		raw, err := json.Marshal(msg.Meta)
		if err == nil {
			meta = raw
		}
	}

	return &model.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Content:       msg.Content,
		Suggestions:   suggestions,
		Meta:          meta,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessagesToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.ChatMessageToEntity(msg)
	}
	return entities
}
