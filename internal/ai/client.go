package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"smartintern/internal/config"
)

// Generator is the single capability this package needs from the upstream
// text-completion provider: one prompt in, one text reply out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient wraps the Gemini model behind a bounded per-call timeout.
type GeminiClient struct {
	llm     llms.Model
	timeout time.Duration
}

// NewGeminiClient 构造 Gemini 客户端。
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiClient{
		llm:     llm,
		timeout: cfg.Timeout(),
	}, nil
}

// Generate sends a single prompt and returns the raw model reply.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reply, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return reply, nil
}

// DisabledGenerator stands in when no provider credential is configured.
// Every call fails, and the service layer turns the failure into its
// best-effort payload.
type DisabledGenerator struct{}

// Generate always reports the provider as unconfigured.
func (DisabledGenerator) Generate(context.Context, string) (string, error) {
	return "", errors.New("ai provider is not configured")
}
