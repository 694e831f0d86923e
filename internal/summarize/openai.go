package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/shoki0322/ai-news-pipeline/internal/openai"
)

const systemPrompt = "You are a professional summarizer. Create concise Japanese summaries that capture the key points."

// OpenAI summarizes via the chat-completions API.
type OpenAI struct {
	client *openai.Client
}

func NewOpenAI(client *openai.Client) *OpenAI {
	return &OpenAI{client: client}
}

func (s *OpenAI) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	if text == "" {
		return text, nil
	}

	prompt := fmt.Sprintf(
		"以下のテキストを%d〜%d文字の日本語で要約してください。必ず%d文字以上書いてください。技術的な詳細、重要な数値、主要な特徴、背景情報、今後の展望など、できるだけ多くの情報を含めてください。\n\nテキスト:\n%s",
		opts.MinChars, opts.MaxChars, opts.MinChars, text,
	)

	summary, err := s.client.Complete(ctx, systemPrompt, prompt, 0.5, 500)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	if summary == "" {
		return "", fmt.Errorf("summarize: empty result")
	}

	// Model output can run long regardless of the prompt.
	if runes := []rune(summary); len(runes) > opts.MaxChars {
		summary = strings.TrimSpace(string(runes[:opts.MaxChars])) + "…"
	}

	return summary, nil
}
