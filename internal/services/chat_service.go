package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/festa/internal/assistant"
	"github.com/joshua-takyi/festa/internal/models"
)

// ChatService answers one guest question at a time. The transcript is held
// by the client and never sent back to the generator.
type ChatService struct {
	assembler *assistant.Assembler
	gateway   *assistant.Gateway
	greeting  string
	logger    *slog.Logger
}

func NewChatService(assembler *assistant.Assembler, gateway *assistant.Gateway, greeting string, logger *slog.Logger) *ChatService {
	return &ChatService{assembler: assembler, gateway: gateway, greeting: greeting, logger: logger}
}

func (cs *ChatService) Greeting() string { return cs.greeting }

// Ask only errors on an empty question. Generation failures come back as a
// fallback Answer.
func (cs *ChatService) Ask(ctx context.Context, question string) (assistant.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return assistant.Answer{}, &models.ValidationError{Field: "question", Reason: "is required"}
	}

	prompt := cs.assembler.Build(ctx, question)
	answer := cs.gateway.Ask(ctx, prompt)
	if answer.Fallback {
		cs.logger.Debug("Chat answered with fallback", "error", answer.Err)
	}
	return answer, nil
}
