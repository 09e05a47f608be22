package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	"leadq-chatbot-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	Client    *goopenai.Client
	ModelName string
}

// Ensure OpenAIProvider implements LLMProvider
var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, modelName string) *OpenAIProvider {
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		Client:    goopenai.NewClient(apiKey),
		ModelName: modelName,
	}
}

func (o *OpenAIProvider) buildRequest(history []llm.Message, stream bool, opts ...llm.Option) goopenai.ChatCompletionRequest {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]goopenai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = goopenai.ChatMessageRoleAssistant
		}
		messages[i] = goopenai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	req := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Stream:      stream,
		Temperature: float32(options.Temperature),
	}
	if options.MaxTokens > 0 {
		req.MaxCompletionTokens = options.MaxTokens
	}
	return req
}

func (o *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, o.buildRequest(history, false, opts...))
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatStream consumes the completion delta stream and forwards each
// non-empty fragment to callback until EOF.
func (o *OpenAIProvider) ChatStream(ctx context.Context, history []llm.Message, callback llm.StreamCallback, opts ...llm.Option) error {
	stream, err := o.Client.CreateChatCompletionStream(ctx, o.buildRequest(history, true, opts...))
	if err != nil {
		return fmt.Errorf("openai stream failed: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("openai stream read: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		token := resp.Choices[0].Delta.Content
		if token == "" {
			continue
		}
		if err := callback(token); err != nil {
			return err
		}
	}
}

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return o.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
