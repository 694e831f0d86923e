package feed

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/shoki0322/ai-news-pipeline/internal/domain"
)

const (
	maxContentRunes = 2000
	maxTitleRunes   = 500
)

var (
	tagExpr   = regexp.MustCompile(`<[^>]+>`)
	spaceExpr = regexp.MustCompile(`\s+`)
)

// Config holds feed source configuration.
type Config struct {
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Source pulls raw articles from a fixed list of RSS/Atom feeds.
// A single feed failing to fetch is logged and contributes zero
// articles; the remaining feeds are still polled.
type Source struct {
	urls           []string
	parser         *gofeed.Parser
	timeout        time.Duration
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// New creates a feed source over the given URLs.
func New(urls []string, cfg Config, logger *slog.Logger) *Source {
	return &Source{
		urls:           urls,
		parser:         gofeed.NewParser(),
		timeout:        cfg.Timeout,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("component", "feed"),
	}
}

// Fetch polls every configured feed in order and returns the flattened
// article sequence. It only errors when no feed URLs are configured.
func (s *Source) Fetch(ctx context.Context) ([]domain.Article, error) {
	if len(s.urls) == 0 {
		return nil, fmt.Errorf("no feed urls configured")
	}

	var articles []domain.Article
	for _, url := range s.urls {
		parsed, err := s.fetchFeed(ctx, url)
		if err != nil {
			s.logger.Warn("feed fetch failed, skipping",
				"url", url,
				"error", err,
			)
			continue
		}

		for _, item := range parsed.Items {
			articles = append(articles, toArticle(item))
		}

		s.logger.Debug("fetched feed",
			"url", url,
			"items", len(parsed.Items),
			"total", len(articles),
		)
	}

	return articles, nil
}

func (s *Source) fetchFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	var parsed *gofeed.Feed
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		parsed, err = s.parseOnce(ctx, url)
		if err == nil {
			return parsed, nil
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("feed request failed, retrying",
			"url", url,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
}

func (s *Source) parseOnce(ctx context.Context, url string) (*gofeed.Feed, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.parser.ParseURLWithContext(url, fetchCtx)
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

func toArticle(item *gofeed.Item) domain.Article {
	published := item.Published
	if published == "" {
		published = item.Updated
	}

	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else if published == "" {
		published = time.Now().UTC().Format(time.RFC3339)
	}

	return domain.Article{
		Title:     item.Title,
		Link:      item.Link,
		Published: published,
		Content:   extractContent(item),
	}
}

// extractContent prefers the full content body, then the item
// description, falling back to the title. The result is plain text,
// capped so downstream translation prompts stay bounded.
func extractContent(item *gofeed.Item) string {
	if item.Content != "" {
		return truncate(stripHTML(item.Content), maxContentRunes)
	}
	if item.Description != "" {
		return truncate(stripHTML(item.Description), maxContentRunes)
	}
	return truncate(stripHTML(item.Title), maxTitleRunes)
}

func stripHTML(raw string) string {
	if raw == "" {
		return ""
	}
	text := tagExpr.ReplaceAllString(raw, " ")
	text = html.UnescapeString(text)
	text = spaceExpr.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit]))
}
