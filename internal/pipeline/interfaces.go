package pipeline

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/shoki0322/ai-news-pipeline/internal/domain"
	"github.com/shoki0322/ai-news-pipeline/internal/summarize"
)

// Source produces the raw article sequence for one run.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Article, error)
}

// WatermarkStore persists the last-processed timestamp across runs.
// Both operations fail soft inside the implementation.
type WatermarkStore interface {
	Load() (time.Time, bool)
	Save(t time.Time)
}

// KnowledgeStore is the persistent article store: the existence check
// and the final write.
type KnowledgeStore interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Save(ctx context.Context, article domain.ProcessedArticle) error
}

// Translator converts text into the target language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Summarizer condenses translated content.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts summarize.Options) (string, error)
}

// Notifier delivers a processed article to the chat channel.
type Notifier interface {
	Notify(ctx context.Context, channel, title, url, summary string) error
}

// Publisher fans processed articles out to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, article domain.ProcessedArticle) error
}
