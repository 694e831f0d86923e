package translate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shoki0322/ai-news-pipeline/internal/openai"
)

// Translator converts text into Japanese.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

const systemPrompt = "You are a professional translator. Translate the following text to Japanese. Provide only the translation without any explanation."

// OpenAI translates via the chat-completions API.
type OpenAI struct {
	client *openai.Client
}

func NewOpenAI(client *openai.Client) *OpenAI {
	return &OpenAI{client: client}
}

func (t *OpenAI) Translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return text, nil
	}

	translated, err := t.client.Complete(ctx, systemPrompt, text, 0.3, 1000)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	if translated == "" {
		return "", fmt.Errorf("translate: empty result")
	}
	return translated, nil
}

// Chain tries each backend in order and returns the first success.
// It only errors when every backend fails.
type Chain struct {
	backends []Translator
	logger   *slog.Logger
}

func NewChain(logger *slog.Logger, backends ...Translator) *Chain {
	return &Chain{
		backends: backends,
		logger:   logger.With("component", "translate"),
	}
}

func (c *Chain) Translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return text, nil
	}

	var lastErr error
	for _, backend := range c.backends {
		translated, err := backend.Translate(ctx, text)
		if err == nil {
			return translated, nil
		}
		lastErr = err
		c.logger.Warn("translation backend failed, trying next", "error", err)
	}

	if lastErr == nil {
		return "", fmt.Errorf("no translation backends configured")
	}
	return "", lastErr
}
