package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"leadq-chatbot-be/internal/constant"
	"leadq-chatbot-be/internal/dto"
	"leadq-chatbot-be/internal/entity"
	"leadq-chatbot-be/internal/repository/contract"
	"leadq-chatbot-be/internal/repository/memory"
	"leadq-chatbot-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type fakeSessionRepo struct {
	contract.ChatSessionRepository
	mu       sync.Mutex
	upserts  []*entity.ChatSession
	upsertEr error
	gate     chan struct{} // when set, Upsert blocks until the gate closes
}

func (f *fakeSessionRepo) Upsert(ctx context.Context, session *entity.ChatSession) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertEr != nil {
		return f.upsertEr
	}
	f.upserts = append(f.upserts, session)
	return nil
}

func (f *fakeSessionRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

type fakeMessageRepo struct {
	contract.ChatMessageRepository
	mu       sync.Mutex
	created  []*entity.ChatMessage
	createEr error
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createEr != nil {
		return f.createEr
	}
	f.created = append(f.created, message)
	return nil
}

func (f *fakeMessageRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeMessageRepo) snapshot() []*entity.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entity.ChatMessage(nil), f.created...)
}

type fakeTranscriptUow struct {
	unitofwork.UnitOfWork
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
}

func (f *fakeTranscriptUow) ChatSessionRepository() contract.ChatSessionRepository {
	return f.sessions
}

func (f *fakeTranscriptUow) ChatMessageRepository() contract.ChatMessageRepository {
	return f.messages
}

type fakeTranscriptFactory struct {
	uow *fakeTranscriptUow
}

func (f *fakeTranscriptFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func newTranscriptFixture(t *testing.T, sessions *fakeSessionRepo, messages *fakeMessageRepo) ITranscriptPublisher {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	t.Cleanup(func() { _ = pubSub.Close() })

	factory := &fakeTranscriptFactory{uow: &fakeTranscriptUow{sessions: sessions, messages: messages}}
	consumer := NewTranscriptConsumerService(pubSub, "PERSIST_TRANSCRIPT", factory, memory.NewSessionRepository(), nil, noopLogger{})
	if err := consumer.Consume(context.Background()); err != nil {
		t.Fatalf("Consume returned error: %v", err)
	}

	return NewTranscriptPublisher("PERSIST_TRANSCRIPT", pubSub)
}

func TestTranscriptConsumerPersistsExchange(t *testing.T) {
	sessions := &fakeSessionRepo{}
	messages := &fakeMessageRepo{}
	publisher := newTranscriptFixture(t, sessions, messages)

	sessionId := uuid.New()
	record := &dto.TranscriptRecord{
		SessionId:     sessionId,
		UserText:      "What is the pricing?",
		AssistantText: "Three tiers.",
		Suggestions:   []string{"View Pricing Plans"},
		LatencyMs:     412.5,
		Source:        constant.SourceExactMatch,
	}
	if err := publisher.Publish(record); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	waitFor(t, func() bool { return messages.count() == 2 })

	if sessions.count() != 1 {
		t.Fatalf("got %d session upserts, want 1", sessions.count())
	}
	if sessions.upserts[0].Id != sessionId {
		t.Errorf("session id = %s, want %s", sessions.upserts[0].Id, sessionId)
	}

	stored := messages.snapshot()
	if stored[0].Role != constant.ChatMessageRoleUser || stored[0].Content != "What is the pricing?" {
		t.Errorf("user row = %+v", stored[0])
	}
	assistant := stored[1]
	if assistant.Role != constant.ChatMessageRoleAssistant || assistant.Content != "Three tiers." {
		t.Errorf("assistant row = %+v", assistant)
	}
	if assistant.Meta == nil || assistant.Meta.Source != constant.SourceExactMatch || assistant.Meta.LatencyMs != 412.5 {
		t.Errorf("assistant meta = %+v", assistant.Meta)
	}
	if len(assistant.Suggestions) != 1 {
		t.Errorf("assistant suggestions = %v", assistant.Suggestions)
	}
}

func TestTranscriptConsumerSkipsKnownSessions(t *testing.T) {
	sessions := &fakeSessionRepo{}
	messages := &fakeMessageRepo{}
	publisher := newTranscriptFixture(t, sessions, messages)

	sessionId := uuid.New()
	for i := 0; i < 2; i++ {
		record := &dto.TranscriptRecord{
			SessionId:     sessionId,
			UserText:      "Hi",
			AssistantText: "Hello!",
			Source:        constant.SourceExactMatch,
		}
		if err := publisher.Publish(record); err != nil {
			t.Fatalf("Publish returned error: %v", err)
		}
	}

	waitFor(t, func() bool { return messages.count() == 4 })

	// Second exchange reuses the cached session, one upsert total
	if sessions.count() != 1 {
		t.Errorf("got %d session upserts, want 1", sessions.count())
	}
}

func TestTranscriptPublishReturnsBeforePersist(t *testing.T) {
	gate := make(chan struct{})
	sessions := &fakeSessionRepo{gate: gate}
	messages := &fakeMessageRepo{}
	publisher := newTranscriptFixture(t, sessions, messages)

	record := &dto.TranscriptRecord{
		SessionId:     uuid.New(),
		UserText:      "Hi",
		AssistantText: "Hello!",
		Source:        constant.SourceExactMatch,
	}

	done := make(chan error, 1)
	go func() { done <- publisher.Publish(record) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Publish returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a stalled consumer")
	}
	if messages.count() != 0 {
		t.Fatalf("got %d rows before the consumer was released, want 0", messages.count())
	}

	close(gate)
	waitFor(t, func() bool { return messages.count() == 2 })
}

func TestTranscriptConsumerSessionFailureStillStoresMessages(t *testing.T) {
	sessions := &fakeSessionRepo{upsertEr: errors.New("db down")}
	messages := &fakeMessageRepo{}
	publisher := newTranscriptFixture(t, sessions, messages)

	record := &dto.TranscriptRecord{
		SessionId:     uuid.New(),
		UserText:      "Hi",
		AssistantText: "Hello!",
		Source:        constant.SourceExactMatch,
	}
	if err := publisher.Publish(record); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	// Message writes are independent of the session upsert outcome
	waitFor(t, func() bool { return messages.count() == 2 })
}

func TestTranscriptConsumerIgnoresMalformedPayloads(t *testing.T) {
	sessions := &fakeSessionRepo{}
	messages := &fakeMessageRepo{}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	t.Cleanup(func() { _ = pubSub.Close() })

	factory := &fakeTranscriptFactory{uow: &fakeTranscriptUow{sessions: sessions, messages: messages}}
	consumer := NewTranscriptConsumerService(pubSub, "PERSIST_TRANSCRIPT", factory, memory.NewSessionRepository(), nil, noopLogger{})
	if err := consumer.Consume(context.Background()); err != nil {
		t.Fatalf("Consume returned error: %v", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	if err := pubSub.Publish("PERSIST_TRANSCRIPT", msg); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	// Valid record after the bad one proves the consumer kept going
	publisher := NewTranscriptPublisher("PERSIST_TRANSCRIPT", pubSub)
	record := &dto.TranscriptRecord{
		SessionId:     uuid.New(),
		UserText:      "Hi",
		AssistantText: "Hello!",
		Source:        constant.SourceExactMatch,
	}
	if err := publisher.Publish(record); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	waitFor(t, func() bool { return messages.count() == 2 })
	if sessions.count() != 1 {
		t.Errorf("got %d session upserts, want 1", sessions.count())
	}
}
