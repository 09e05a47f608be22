package bootstrap

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"leadq-chatbot-be/internal/config"
	"leadq-chatbot-be/internal/controller"
	"leadq-chatbot-be/internal/pkg/logger"
	"leadq-chatbot-be/internal/repository/memory"
	"leadq-chatbot-be/internal/repository/unitofwork"
	"leadq-chatbot-be/internal/service"
	"leadq-chatbot-be/pkg/embedding"
	"leadq-chatbot-be/pkg/embedding/jina"
	"leadq-chatbot-be/pkg/kb"
	"leadq-chatbot-be/pkg/llm/factory"
	"leadq-chatbot-be/pkg/rag/response"
	"leadq-chatbot-be/pkg/rag/retrieval"

	pktNats "leadq-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatbotController controller.IChatbotController

	// Background Services (Exposed for main.go to run)
	TranscriptConsumer service.ITranscriptConsumerService

	// Shared infra
	SysLogger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS is optional; without it stored-exchange events are dropped
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// In-memory cache of already-persisted session ids
	sessionRepo := memory.NewSessionRepository()

	// 5. Resolution Pipeline
	ragLogger := newRagLogger()
	matcher := kb.NewMatcher(kb.DefaultEntries())
	retriever := retrieval.NewRetriever(
		embeddingProvider,
		uowFactory,
		retrieval.Config{
			Threshold: cfg.Chat.RetrievalThreshold,
			TopK:      cfg.Chat.RetrievalTopK,
		},
		ragLogger,
	)
	generator := response.NewGenerator(llmProvider, ragLogger)

	transcriptPublisher := service.NewTranscriptPublisher(cfg.Chat.TranscriptTopic, pubSub)
	transcriptLogger := logger.NewIsolatedLogger("logs/transcript.log")
	transcriptConsumer := service.NewTranscriptConsumerService(
		pubSub,
		cfg.Chat.TranscriptTopic,
		uowFactory,
		sessionRepo,
		natsPub,
		transcriptLogger,
	)

	chatbotService := service.NewChatbotService(
		uowFactory,
		matcher,
		retriever,
		generator,
		transcriptPublisher,
		time.Duration(cfg.Chat.GenerationTimeout)*time.Second,
	)

	// 6. Controllers
	return &Container{
		ChatbotController:  controller.NewChatbotController(chatbotService),
		TranscriptConsumer: transcriptConsumer,
		SysLogger:          sysLogger,
	}
}

// newRagLogger writes pipeline traces to a dedicated file so retrieval and
// generation diagnostics stay out of the main log.
func newRagLogger() *log.Logger {
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
