package retrieval

import (
	"context"
	"fmt"
	"log"

	"leadq-chatbot-be/internal/repository/unitofwork"
	"leadq-chatbot-be/pkg/embedding"
)

// ContextChunk is one retrieved passage handed to grounded generation.
// Produced transiently per query; never persisted on its own.
type ContextChunk struct {
	Content    string
	Source     string
	ChunkIndex int
	Similarity float64
}

// Config encapsulates retrieval parameters. Threshold and TopK are tuned
// constants carried as configuration.
type Config struct {
	Threshold float64
	TopK      int
}

// DefaultConfig returns default retrieval configuration
func DefaultConfig() Config {
	return Config{
		Threshold: 0.78,
		TopK:      2,
	}
}

type IRetriever interface {
	Retrieve(ctx context.Context, query string) ([]ContextChunk, error)
}

// Retriever embeds the query and runs a threshold-filtered vector search
// over the document chunk index.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	uowFactory        unitofwork.RepositoryFactory
	config            Config
	logger            *log.Logger
}

func NewRetriever(
	embeddingProvider embedding.EmbeddingProvider,
	uowFactory unitofwork.RepositoryFactory,
	config Config,
	logger *log.Logger,
) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		uowFactory:        uowFactory,
		config:            config,
		logger:            logger,
	}
}

// Retrieve returns up to TopK chunks with similarity >= Threshold, ordered
// by descending similarity. Errors are returned for the caller to treat as
// a degraded (empty) result; retrieval failure is never fatal to a request.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]ContextChunk, error) {
	embeddingRes, err := r.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	scoredResults, err := uow.DocumentChunkRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		r.config.TopK,
		r.config.Threshold,
	)
	if err != nil {
		r.logger.Printf("[ERROR] Vector search failed: %v", err)
		return nil, err
	}

	chunks := make([]ContextChunk, 0, len(scoredResults))
	for i, res := range scoredResults {
		chunks = append(chunks, ContextChunk{
			Content:    res.Chunk.Content,
			Source:     res.Chunk.Source,
			ChunkIndex: res.Chunk.ChunkIndex,
			Similarity: res.Similarity,
		})
		r.logger.Printf("[DEBUG] Chunk %d: Score=%.4f Source=%s", i+1, res.Similarity, res.Chunk.Source)
	}

	return chunks, nil
}
