package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"leadq-chatbot-be/internal/constant"
	"leadq-chatbot-be/internal/dto"
	"leadq-chatbot-be/internal/repository/specification"
	"leadq-chatbot-be/internal/repository/unitofwork"
	"leadq-chatbot-be/pkg/kb"
	"leadq-chatbot-be/pkg/llm"
	"leadq-chatbot-be/pkg/rag/reply"
	"leadq-chatbot-be/pkg/rag/retrieval"

	"github.com/google/uuid"
)

// StreamEmitter delivers one NDJSON chunk to the caller. Returning an
// error means the caller is gone; the pipeline stops emitting.
type StreamEmitter func(chunk dto.StreamChunk) error

// ResponseGenerator is the generation tier consumed by the orchestrator.
type ResponseGenerator interface {
	GenerateGrounded(ctx context.Context, query string, chunks []retrieval.ContextChunk, emit llm.StreamCallback) (string, error)
	GenerateUngrounded(ctx context.Context, query string, emit llm.StreamCallback) (string, error)
}

// ITranscriptPublisher detaches transcript persistence from the response
// path.
type ITranscriptPublisher interface {
	Publish(record *dto.TranscriptRecord) error
}

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	StreamChat(ctx context.Context, request *dto.ChatStreamRequest, emit StreamEmitter) error
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
}

// errStreamAborted marks emitter failures so a caller disconnect is not
// mistaken for an upstream generation error.
var errStreamAborted = errors.New("stream aborted by caller")

// chatbotService runs the tiered resolution pipeline: exact keyword match,
// then grounded generation over retrieved context, then ungrounded
// domain-restricted generation, with a fixed apology as the floor.
type chatbotService struct {
	uowFactory        unitofwork.RepositoryFactory
	matcher           *kb.Matcher
	retriever         retrieval.IRetriever
	generator         ResponseGenerator
	transcripts       ITranscriptPublisher
	generationTimeout time.Duration
	llmLogger         *log.Logger
}

// NewChatbotService creates a new chatbot service
func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	matcher *kb.Matcher,
	retriever retrieval.IRetriever,
	generator ResponseGenerator,
	transcripts ITranscriptPublisher,
	generationTimeout time.Duration,
) IChatbotService {
	if generationTimeout <= 0 {
		generationTimeout = 30 * time.Second
	}
	return &chatbotService{
		uowFactory:        uowFactory,
		matcher:           matcher,
		retriever:         retriever,
		generator:         generator,
		transcripts:       transcripts,
		generationTimeout: generationTimeout,
		llmLogger:         initLLMLogger(),
	}
}

func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// resolution is the explicit per-request outcome; the state machine
// branches on its source tag instead of caught errors.
type resolution struct {
	answer      string
	suggestions []string
	source      string
	aborted     bool
}

// StreamChat resolves one message through the tier pipeline and drives the
// outgoing NDJSON stream. All internal failures terminate in-band; the
// returned error is reserved for transport-level emitter failures.
func (cs *chatbotService) StreamChat(ctx context.Context, request *dto.ChatStreamRequest, emit StreamEmitter) error {
	start := time.Now()

	sessionId := uuid.New()
	if request.SessionId != "" {
		if parsed, err := uuid.Parse(request.SessionId); err == nil {
			sessionId = parsed
		}
	}
	var userId *uuid.UUID
	if request.UserId != "" {
		if parsed, err := uuid.Parse(request.UserId); err == nil {
			userId = &parsed
		}
	}

	// Liveness signal before any tier runs
	if err := emit(dto.NewStatusChunk()); err != nil {
		return fmt.Errorf("%w: %v", errStreamAborted, err)
	}

	res := cs.resolve(ctx, request.Message, emit)

	if !res.aborted {
		if err := emit(dto.NewRecommendationsChunk(res.suggestions)); err != nil {
			res.aborted = true
		}
	}

	// Hand off to the transcript logger before the terminal chunk; the
	// publish is buffered and never awaited.
	cs.logTranscript(&dto.TranscriptRecord{
		SessionId:     sessionId,
		UserId:        userId,
		UserText:      request.Message,
		AssistantText: res.answer,
		Suggestions:   res.suggestions,
		LatencyMs:     float64(time.Since(start).Microseconds()) / 1000.0,
		Source:        res.source,
	})

	if res.aborted {
		return nil
	}
	if err := emit(dto.NewMetaChunk(sessionId.String())); err != nil {
		return fmt.Errorf("%w: %v", errStreamAborted, err)
	}
	return nil
}

func (cs *chatbotService) resolve(ctx context.Context, message string, emit StreamEmitter) resolution {
	normalized := strings.ToLower(strings.TrimSpace(message))

	// Tier 1: exact keyword match. Canned answers go out as one chunk,
	// no generation call.
	if entry := cs.matcher.Match(normalized); entry != nil {
		cs.llmLogger.Printf("[PIPELINE] Exact match on topic %q", entry.Topic)
		if err := emit(dto.NewContentChunk(entry.Answer)); err != nil {
			return resolution{answer: entry.Answer, suggestions: entry.Suggestions, source: constant.SourceExactMatch, aborted: true}
		}
		return resolution{
			answer:      entry.Answer,
			suggestions: entry.Suggestions,
			source:      constant.SourceExactMatch,
		}
	}

	genCtx, cancel := context.WithTimeout(ctx, cs.generationTimeout)
	defer cancel()

	// Tier 2 prerequisite: retrieval. Failures degrade to an empty
	// result and the pipeline continues ungrounded.
	chunks, err := cs.retriever.Retrieve(genCtx, normalized)
	if err != nil {
		cs.llmLogger.Printf("[WARN] Retrieval degraded: %v", err)
		chunks = nil
	}

	emitToken := func(token string) error {
		if err := emit(dto.NewContentChunk(token)); err != nil {
			return fmt.Errorf("%w: %v", errStreamAborted, err)
		}
		return nil
	}

	var fullText string
	var source string
	if len(chunks) > 0 {
		cs.llmLogger.Printf("[PIPELINE] Grounded generation over %d chunks", len(chunks))
		source = constant.SourceGroundedGeneration
		fullText, err = cs.generator.GenerateGrounded(genCtx, message, chunks, emitToken)
	} else {
		cs.llmLogger.Printf("[PIPELINE] Ungrounded domain-restricted generation")
		source = constant.SourceUngroundedGeneration
		fullText, err = cs.generator.GenerateUngrounded(genCtx, message, emitToken)
	}

	if errors.Is(err, errStreamAborted) {
		// Caller went away; keep the partial text for the transcript.
		cs.llmLogger.Printf("[WARN] Stream aborted mid-generation, %d bytes accumulated", len(fullText))
		answer, suggestions := reply.Parse(fullText)
		if suggestions == nil {
			suggestions = constant.DefaultSuggestions
		}
		return resolution{answer: answer, suggestions: suggestions, source: source, aborted: true}
	}
	if err != nil || strings.TrimSpace(fullText) == "" {
		cs.llmLogger.Printf("[ERROR] Generation unavailable: %v", err)
		if emitErr := emit(dto.NewContentChunk(constant.FallbackApologyText)); emitErr != nil {
			return resolution{answer: constant.FallbackApologyText, suggestions: constant.ErrorSuggestions, source: constant.SourceError, aborted: true}
		}
		return resolution{
			answer:      constant.FallbackApologyText,
			suggestions: constant.ErrorSuggestions,
			source:      constant.SourceError,
		}
	}

	answer, suggestions := reply.Parse(fullText)
	if suggestions == nil {
		suggestions = constant.DefaultSuggestions
	}
	return resolution{answer: answer, suggestions: suggestions, source: source}
}

func (cs *chatbotService) logTranscript(record *dto.TranscriptRecord) {
	if err := cs.transcripts.Publish(record); err != nil {
		// Best-effort; a lost transcript never reaches the caller
		cs.llmLogger.Printf("[WARN] Transcript publish failed: %v", err)
	}
}

// GetChatHistory returns the persisted transcript of one session in
// chronological order.
func (cs *chatbotService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.ChatMessageRepository().FindAll(
		ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	history := make([]*dto.GetChatHistoryResponse, len(messages))
	for i, msg := range messages {
		history[i] = &dto.GetChatHistoryResponse{
			Id:          msg.Id,
			Role:        msg.Role,
			Content:     msg.Content,
			Suggestions: msg.Suggestions,
			CreatedAt:   msg.CreatedAt,
		}
	}
	return history, nil
}
