package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/joshua-takyi/festa/internal/models"
)

const generationService = "generation service"

// Generator is the external text generation collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Answer is the outcome of one question. On failure Text holds the
// configured fallback copy, Fallback is set and Err explains why; the caller
// decides how to present it. Text is never empty.
type Answer struct {
	Text     string `json:"reply"`
	Fallback bool   `json:"fallback"`
	Err      error  `json:"-"`
}

func (a Answer) OK() bool { return !a.Fallback }

// Gateway sends one prompt per call to the generator. It does not retry and
// does not keep conversation history.
type Gateway struct {
	gen      Generator
	fallback string
	timeout  time.Duration
	logger   *slog.Logger
}

func NewGateway(gen Generator, fallback string, timeout time.Duration, logger *slog.Logger) (*Gateway, error) {
	if strings.TrimSpace(fallback) == "" {
		return nil, errors.New("gateway fallback message is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{gen: gen, fallback: fallback, timeout: timeout, logger: logger}, nil
}

func (g *Gateway) Fallback() string { return g.fallback }

func (g *Gateway) Ask(ctx context.Context, prompt string) Answer {
	if g.gen == nil {
		return g.fail(errors.New("no generator configured"))
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		return g.fail(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return g.fail(errors.New("empty reply"))
	}
	return Answer{Text: text}
}

func (g *Gateway) fail(cause error) Answer {
	if errors.Is(cause, context.Canceled) {
		g.logger.Debug("Generation cancelled by caller")
	} else {
		g.logger.Warn("Generation failed, using fallback reply", "error", cause)
	}
	return Answer{
		Text:     g.fallback,
		Fallback: true,
		Err:      &models.ExternalServiceError{Service: generationService, Err: cause},
	}
}
