package contract

import (
	"context"

	"leadq-chatbot-be/internal/entity"
	"leadq-chatbot-be/internal/repository/specification"
)

type ChatMessageRepository interface {
	// Create appends one transcript row; messages are never updated or
	// deleted.
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
