package summarize

import (
	"context"
	"strings"
)

const chunkRunes = 80

// Extractive is the local fallback: it concatenates leading sentences
// until MinChars or MaxSentences is reached, then hard-truncates to
// MaxChars with an ellipsis. It never errors, so a chain ending in it
// always produces a summary.
type Extractive struct{}

func NewExtractive() *Extractive {
	return &Extractive{}
}

func (e *Extractive) Summarize(_ context.Context, text string, opts Options) (string, error) {
	if text == "" {
		return text, nil
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return hardTruncate(text, opts.MaxChars), nil
	}

	var picked []string
	length := 0
	for _, sentence := range sentences {
		if len(picked) >= opts.MaxSentences {
			break
		}
		picked = append(picked, sentence)
		length += len([]rune(sentence))
		if length >= opts.MinChars {
			break
		}
	}

	return hardTruncate(strings.Join(picked, ""), opts.MaxChars), nil
}

func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var parts []string
	var current strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if !isSentenceEnd(r) {
			continue
		}
		// Latin enders only split at a following space, Japanese
		// enders split immediately.
		if isASCIIEnd(r) && i+1 < len(runes) && runes[i+1] != ' ' {
			continue
		}
		if part := strings.TrimSpace(current.String()); part != "" {
			parts = append(parts, part)
		}
		current.Reset()
	}
	if part := strings.TrimSpace(current.String()); part != "" {
		parts = append(parts, part)
	}

	// No usable punctuation: fall back to fixed-size chunks.
	if len(parts) <= 1 && !hasSentenceEnd(text) {
		return chunk(runes)
	}

	return parts
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '。', '．', '！', '？', '!', '?', '.':
		return true
	}
	return false
}

func isASCIIEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func hasSentenceEnd(text string) bool {
	return strings.ContainsAny(text, "。．！？!?.")
}

func chunk(runes []rune) []string {
	var chunks []string
	for i := 0; i < len(runes); i += chunkRunes {
		end := i + chunkRunes
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

func hardTruncate(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return strings.TrimSpace(string(runes[:maxChars])) + "…"
}
