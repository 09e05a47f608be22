package contract

import (
	"context"

	"leadq-chatbot-be/internal/entity"
	"leadq-chatbot-be/internal/repository/specification"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	// Upsert inserts the session keyed by its id and no-ops on conflict,
	// so repeated exchanges within one session stay idempotent.
	Upsert(ctx context.Context, session *entity.ChatSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
