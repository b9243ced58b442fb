package assistant

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator talks to any OpenAI-compatible chat completions endpoint.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, baseURL, model string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
