package embedding

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbeddingProvider implements EmbeddingProvider for the OpenAI
// embeddings API (text-embedding-3-small by default).
type OpenAIEmbeddingProvider struct {
	Client *goopenai.Client
	Model  goopenai.EmbeddingModel
}

func NewOpenAIProvider(apiKey string, model string) EmbeddingProvider {
	if model == "" {
		model = string(goopenai.SmallEmbedding3)
	}
	return &OpenAIEmbeddingProvider{
		Client: goopenai.NewClient(apiKey),
		Model:  goopenai.EmbeddingModel(model),
	}
}

func (p *OpenAIEmbeddingProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	// TaskType has no OpenAI equivalent; kept for interface compatibility

	resp, err := p.Client.CreateEmbeddings(context.Background(), goopenai.EmbeddingRequest{
		Model: p.Model,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embedding returned no data")
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: resp.Data[0].Embedding,
		},
	}, nil
}
