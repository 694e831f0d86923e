package summarize

import (
	"context"
	"fmt"
	"log/slog"
)

// Options bound the produced summary.
type Options struct {
	MaxChars     int
	MinChars     int
	MaxSentences int
}

// Summarizer condenses text into a Japanese summary within Options.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts Options) (string, error)
}

// Chain tries each backend in order and returns the first success.
type Chain struct {
	backends []Summarizer
	logger   *slog.Logger
}

func NewChain(logger *slog.Logger, backends ...Summarizer) *Chain {
	return &Chain{
		backends: backends,
		logger:   logger.With("component", "summarize"),
	}
}

func (c *Chain) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	if text == "" {
		return text, nil
	}

	var lastErr error
	for _, backend := range c.backends {
		summary, err := backend.Summarize(ctx, text, opts)
		if err == nil {
			return summary, nil
		}
		lastErr = err
		c.logger.Warn("summarizer backend failed, trying next", "error", err)
	}

	if lastErr == nil {
		return "", fmt.Errorf("no summarizer backends configured")
	}
	return "", lastErr
}
