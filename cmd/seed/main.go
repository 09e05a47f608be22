package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"leadq-chatbot-be/internal/config"
	"leadq-chatbot-be/internal/entity"
	"leadq-chatbot-be/internal/repository/unitofwork"
	"leadq-chatbot-be/pkg/database"
	"leadq-chatbot-be/pkg/embedding"
	"leadq-chatbot-be/pkg/embedding/jina"
	"leadq-chatbot-be/pkg/utils"

	"github.com/google/uuid"
)

// Seeds the document chunk index from a directory of markdown product docs.
// Usage: go run ./cmd/seed [docs-dir]   (default ./docs)
func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var provider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	case "jina":
		provider = jina.NewJinaProvider(cfg.Keys.Jina)
	default:
		provider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.EmbeddingModel)
	}

	docsDir := "./docs"
	if len(os.Args) > 1 {
		docsDir = os.Args[1]
	}

	paths, err := filepath.Glob(filepath.Join(docsDir, "*.md"))
	if err != nil || len(paths) == 0 {
		log.Fatalf("Error: No markdown files found in %s", docsDir)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	total := 0
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Warn: Skipping %s: %v", path, err)
			continue
		}

		source := filepath.Base(path)
		// ChunkSize 1500 chars with 200 overlap keeps each chunk well
		// inside embedding context limits
		pieces := utils.SplitText(string(content), 1500, 200)
		log.Printf("Seeding %s (%d chunks)...", source, len(pieces))

		chunks := make([]*entity.DocumentChunk, 0, len(pieces))
		for i, piece := range pieces {
			res, err := provider.Generate(piece, "RETRIEVAL_DOCUMENT")
			if err != nil {
				log.Fatalf("Error: Embedding failed for %s chunk %d: %v", source, i, err)
			}
			chunks = append(chunks, &entity.DocumentChunk{
				Id:         uuid.New(),
				Content:    piece,
				Embedding:  res.Embedding.Values,
				Source:     source,
				ChunkIndex: i,
				CreatedAt:  time.Now(),
			})
		}

		if err := uow.DocumentChunkRepository().CreateBulk(ctx, chunks); err != nil {
			log.Fatalf("Error: Failed to store chunks for %s: %v", source, err)
		}
		total += len(chunks)
	}

	log.Printf("✅ Seeded %d chunks from %d files.", total, len(paths))
}
