// FILE: internal/service/transcript_consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"leadq-chatbot-be/internal/constant"
	"leadq-chatbot-be/internal/dto"
	"leadq-chatbot-be/internal/entity"
	"leadq-chatbot-be/internal/pkg/logger"
	"leadq-chatbot-be/internal/repository/memory"
	"leadq-chatbot-be/internal/repository/unitofwork"
	"leadq-chatbot-be/pkg/events"
	pkgNats "leadq-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type ITranscriptConsumerService interface {
	Consume(ctx context.Context) error
}

// transcriptConsumerService drains the transcript topic and writes each
// exchange to the database. Persistence is best effort: a failed write is
// logged and dropped, never retried, and never surfaces to the caller.
type transcriptConsumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	uowFactory  unitofwork.RepositoryFactory
	sessionRepo *memory.SessionRepository
	natsPub     *pkgNats.Publisher
	logger      logger.ILogger
}

func NewTranscriptConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo *memory.SessionRepository,
	natsPub *pkgNats.Publisher,
	tLogger logger.ILogger,
) ITranscriptConsumerService {
	return &transcriptConsumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		uowFactory:  uowFactory,
		sessionRepo: sessionRepo,
		natsPub:     natsPub,
		logger:      tLogger,
	}
}

func (cs *transcriptConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *transcriptConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Transcript writes are never retried, so every path Acks.
	defer msg.Ack()

	var record dto.TranscriptRecord
	if err := json.Unmarshal(msg.Payload, &record); err != nil {
		cs.logger.Error("TRANSCRIPT", "Failed to unmarshal transcript record", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	cs.logger.Info("TRANSCRIPT", "Persisting transcript", map[string]interface{}{
		"session_id": record.SessionId.String(),
		"source":     record.Source,
	})

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()
	persisted := false

	// Session row first. Skip the upsert when the cache says this session
	// was already stored; the upsert itself is idempotent either way.
	if cs.sessionRepo != nil && cs.sessionRepo.IsStored(record.SessionId.String()) {
		persisted = true
	} else {
		err := uow.ChatSessionRepository().Upsert(ctx, &entity.ChatSession{
			Id:        record.SessionId,
			UserId:    record.UserId,
			CreatedAt: now,
		})
		if err != nil {
			cs.logger.Error("TRANSCRIPT", "Failed to upsert session", map[string]interface{}{
				"session_id": record.SessionId.String(),
				"error":      err.Error(),
			})
		} else {
			persisted = true
			if cs.sessionRepo != nil {
				cs.sessionRepo.MarkStored(record.SessionId.String())
			}
		}
	}

	// Message rows are independently fallible; a lost user row must not
	// block the assistant row.
	if err := uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: record.SessionId,
		Role:          constant.ChatMessageRoleUser,
		Content:       record.UserText,
		CreatedAt:     now,
	}); err != nil {
		cs.logger.Error("TRANSCRIPT", "Failed to store user message", map[string]interface{}{
			"session_id": record.SessionId.String(),
			"error":      err.Error(),
		})
	}

	if err := uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: record.SessionId,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       record.AssistantText,
		Suggestions:   record.Suggestions,
		Meta: &entity.MessageMeta{
			LatencyMs: record.LatencyMs,
			Source:    record.Source,
		},
		CreatedAt: now,
	}); err != nil {
		cs.logger.Error("TRANSCRIPT", "Failed to store assistant message", map[string]interface{}{
			"session_id": record.SessionId.String(),
			"error":      err.Error(),
		})
	}

	if persisted {
		cs.publishStoredEvent(ctx, &record)
	}
}

// publishStoredEvent notifies downstream consumers over NATS. The bus is
// optional; without it the event is dropped silently.
func (cs *transcriptConsumerService) publishStoredEvent(ctx context.Context, record *dto.TranscriptRecord) {
	if cs.natsPub == nil {
		return
	}

	evt := events.NewChatExchangeStored(record.SessionId.String(), record.Source, record.LatencyMs)
	if err := cs.natsPub.Publish(ctx, evt); err != nil {
		cs.logger.Warn("TRANSCRIPT", "Failed to publish CHAT_EXCHANGE_STORED event", map[string]interface{}{
			"session_id": record.SessionId.String(),
			"error":      err.Error(),
		})
	}
}
