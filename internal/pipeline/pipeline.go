package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shoki0322/ai-news-pipeline/internal/domain"
	"github.com/shoki0322/ai-news-pipeline/internal/feed"
	"github.com/shoki0322/ai-news-pipeline/internal/summarize"
)

// Options control a single run. Zero values mean "no limit, all
// accepted articles, notifications on".
type Options struct {
	Limit        int
	TodayOnly    bool
	NoSlack      bool
	SlackChannel string
	Summary      summarize.Options
	Lookback     time.Duration
	Location     *time.Location
}

// Deps wires all collaborators into the orchestrator. Store,
// Notifier, and Publisher may be nil, which disables the
// corresponding step.
type Deps struct {
	Source     Source
	Watermark  WatermarkStore
	Store      KnowledgeStore
	Translator Translator
	Summarizer Summarizer
	Notifier   Notifier
	Publisher  Publisher
	Logger     *slog.Logger
}

// Pipeline is the batch orchestrator: fetch, dedupe, filter against
// the watermark, then translate, summarize, and publish each new
// article, committing the watermark once at the end.
type Pipeline struct {
	source     Source
	watermark  WatermarkStore
	store      KnowledgeStore
	translator Translator
	summarizer Summarizer
	notifier   Notifier
	publisher  Publisher
	logger     *slog.Logger
	opts       Options

	now func() time.Time
}

func New(deps Deps, opts Options) *Pipeline {
	if opts.Lookback == 0 {
		opts.Lookback = 24 * time.Hour
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Pipeline{
		source:     deps.Source,
		watermark:  deps.Watermark,
		store:      deps.Store,
		translator: deps.Translator,
		summarizer: deps.Summarizer,
		notifier:   deps.Notifier,
		publisher:  deps.Publisher,
		logger:     deps.Logger.With("component", "pipeline"),
		opts:       opts,
		now:        time.Now,
	}
}

// Run executes one batch. Only a source failure is fatal; every
// per-article step degrades and continues. The watermark advances to
// the latest accepted publish time regardless of delivery outcomes:
// re-running the batch is the retry mechanism, and the existence
// check keeps retries from double-delivering.
func (p *Pipeline) Run(ctx context.Context) ([]domain.ProcessedArticle, error) {
	startTime := p.now()

	fetched, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}

	articles := feed.Dedupe(fetched)

	stats := domain.RunStats{
		Fetched: len(fetched),
		Deduped: len(fetched) - len(articles),
	}

	cutoff, fromWatermark := p.watermark.Load()
	if !fromWatermark {
		cutoff = p.now().UTC().Add(-p.opts.Lookback)
	}
	p.logger.Info("starting run",
		"fetched", stats.Fetched,
		"deduped", stats.Deduped,
		"cutoff", cutoff,
		"from_watermark", fromWatermark,
	)

	articles, latest, hasLatest := filterByCutoff(articles, cutoff)

	if p.opts.TodayOnly {
		boundary := startOfDay(p.now(), p.opts.Location)
		articles = filterToday(articles, boundary)
		p.logger.Debug("today-only filter applied",
			"boundary", boundary,
			"remaining", len(articles),
		)
	}

	stats.Accepted = len(articles)

	if p.opts.Limit > 0 && len(articles) > p.opts.Limit {
		articles = articles[:p.opts.Limit]
	}

	processed := make([]domain.ProcessedArticle, 0, len(articles))
	for _, article := range articles {
		result, skipped, softErrors := p.processOne(ctx, article)
		stats.Errors += softErrors
		if skipped {
			stats.Skipped++
			continue
		}
		stats.Processed++
		processed = append(processed, result)
	}

	// The watermark reflects what was seen, not what was delivered.
	if hasLatest {
		p.watermark.Save(latest)
	}

	stats.Duration = p.now().Sub(startTime)
	p.logger.Info("run completed",
		"accepted", stats.Accepted,
		"skipped", stats.Skipped,
		"processed", stats.Processed,
		"errors", stats.Errors,
		"watermark_advanced", hasLatest,
		"duration", stats.Duration,
	)

	return processed, nil
}

// processOne runs the existence check, transform, and publish steps
// for one article. softErrors counts degraded steps that were logged
// and carried on.
func (p *Pipeline) processOne(ctx context.Context, article domain.Article) (result domain.ProcessedArticle, skipped bool, softErrors int) {
	content := article.Content
	if content == "" {
		content = article.Title
	}

	if p.store != nil {
		exists, err := p.store.ExistsByURL(ctx, article.Link)
		if err != nil {
			// A transient store error must not drop content, so the
			// article is processed as if it were new.
			p.logger.Warn("existence check failed, processing anyway",
				"url", article.Link,
				"error", err,
			)
			softErrors++
		} else if exists {
			p.logger.Debug("url already stored, skipping", "url", article.Link)
			return domain.ProcessedArticle{}, true, softErrors
		}
	}

	titleJA := p.translateSoft(ctx, article.Title)
	summaryJA := p.summarizeSoft(ctx, p.translateSoft(ctx, content))

	result = domain.ProcessedArticle{
		TitleJA:   titleJA,
		URL:       article.Link,
		SummaryJA: summaryJA,
		Published: article.Published,
	}

	if p.store != nil {
		if err := p.store.Save(ctx, result); err != nil {
			p.logger.Warn("failed to save article", "url", result.URL, "error", err)
			softErrors++
		}
	}

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, result); err != nil {
			p.logger.Warn("failed to publish article", "url", result.URL, "error", err)
			softErrors++
		}
	}

	if p.notifier != nil && !p.opts.NoSlack {
		if err := p.notifier.Notify(ctx, p.opts.SlackChannel, result.TitleJA, result.URL, result.SummaryJA); err != nil {
			p.logger.Warn("failed to notify", "url", result.URL, "error", err)
			softErrors++
		}
	}

	return result, false, softErrors
}

// translateSoft falls back to the original text when every
// translation backend fails.
func (p *Pipeline) translateSoft(ctx context.Context, text string) string {
	translated, err := p.translator.Translate(ctx, text)
	if err != nil {
		p.logger.Warn("translation failed, keeping original text", "error", err)
		return text
	}
	return translated
}

// summarizeSoft falls back to a hard truncation when every summarizer
// backend fails.
func (p *Pipeline) summarizeSoft(ctx context.Context, text string) string {
	summary, err := p.summarizer.Summarize(ctx, text, p.opts.Summary)
	if err != nil {
		p.logger.Warn("summarization failed, truncating instead", "error", err)
		runes := []rune(text)
		if len(runes) > p.opts.Summary.MaxChars {
			return string(runes[:p.opts.Summary.MaxChars]) + "…"
		}
		return text
	}
	return summary
}
