package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"leadq-chatbot-be/internal/constant"
	"leadq-chatbot-be/pkg/llm"
	"leadq-chatbot-be/pkg/rag/retrieval"
)

// Generator invokes the LLM in grounded or ungrounded mode and relays the
// token stream. Visible content goes through a delimiter guard so the
// suggestion tail is parsed, never displayed.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

// NewGenerator creates a new response generator
func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// GenerateGrounded answers using ONLY the supplied context chunks. Returns
// the full accumulated text, including any suggestion tail; emit receives
// only the visible answer portion.
func (g *Generator) GenerateGrounded(
	ctx context.Context,
	query string,
	chunks []retrieval.ContextChunk,
	emit llm.StreamCallback,
) (string, error) {

	if len(chunks) == 0 {
		return "", fmt.Errorf("grounded generation requires at least one context chunk")
	}

	g.logger.Printf("[GENERATION] Grounded mode with %d chunks", len(chunks))
	history := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.GroundedSystemPromptV1},
		{Role: constant.ChatMessageRoleUser, Content: g.buildGroundedPrompt(query, chunks)},
	}
	return g.stream(ctx, history, emit)
}

// GenerateUngrounded answers without context, restricted to the product
// domain.
func (g *Generator) GenerateUngrounded(
	ctx context.Context,
	query string,
	emit llm.StreamCallback,
) (string, error) {

	g.logger.Printf("[GENERATION] Ungrounded domain-restricted mode")
	history := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.UngroundedSystemPromptV1},
		{Role: constant.ChatMessageRoleUser, Content: query},
	}
	return g.stream(ctx, history, emit)
}

func (g *Generator) stream(ctx context.Context, history []llm.Message, emit llm.StreamCallback) (string, error) {
	var full strings.Builder
	guard := newDelimiterGuard(emit)

	err := g.llmProvider.ChatStream(ctx, history, func(token string) error {
		full.WriteString(token)
		return guard.write(token)
	})
	if err != nil {
		g.logger.Printf("[ERROR] LLM stream failed: %v", err)
		return full.String(), err
	}

	if err := guard.flush(); err != nil {
		return full.String(), err
	}
	return full.String(), nil
}

func (g *Generator) buildGroundedPrompt(query string, chunks []retrieval.ContextChunk) string {
	var prompt strings.Builder

	prompt.WriteString("<reference_material>\n")
	for _, chunk := range chunks {
		prompt.WriteString(fmt.Sprintf("\n--- EXCERPT FROM: %s (part %d) ---\n", chunk.Source, chunk.ChunkIndex))
		prompt.WriteString(chunk.Content)
		prompt.WriteString("\n--- END EXCERPT ---\n")
	}
	prompt.WriteString("</reference_material>\n\n")

	prompt.WriteString("<user_question>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</user_question>\n\n")

	prompt.WriteString("Answer:")

	return prompt.String()
}
