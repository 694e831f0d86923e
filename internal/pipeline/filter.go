package pipeline

import (
	"net/mail"
	"time"

	"github.com/shoki0322/ai-news-pipeline/internal/domain"
)

// Layouts tried for the structured-timestamp pass, most common first.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseToUTC resolves a published string to an absolute UTC instant.
// Structured timestamps are tried first, then mail-header dates
// (RFC 2822). Naive timestamps are taken as UTC.
func parseToUTC(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), true
		}
	}

	if t, err := mail.ParseDate(value); err == nil {
		return t.UTC(), true
	}

	return time.Time{}, false
}

// filterByCutoff keeps articles published strictly after cutoff,
// rewriting their Published field to RFC 3339 UTC. The returned
// instant is the maximum among accepted articles; ok is false when
// none were accepted. Articles whose timestamp cannot be parsed are
// dropped.
func filterByCutoff(articles []domain.Article, cutoff time.Time) ([]domain.Article, time.Time, bool) {
	var accepted []domain.Article
	var latest time.Time
	var found bool

	for _, article := range articles {
		published, ok := parseToUTC(article.Published)
		if !ok {
			continue
		}
		if !published.After(cutoff) {
			continue
		}

		article.Published = published.Format(time.RFC3339)
		accepted = append(accepted, article)

		if !found || published.After(latest) {
			latest = published
			found = true
		}
	}

	return accepted, latest, found
}

// startOfDay returns the beginning of the civil day containing now in
// loc, as an absolute instant.
func startOfDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).UTC()
}

// filterToday keeps articles published at or after boundary. This is
// a tightening pass applied after the cutoff filter.
func filterToday(articles []domain.Article, boundary time.Time) []domain.Article {
	var kept []domain.Article
	for _, article := range articles {
		published, ok := parseToUTC(article.Published)
		if !ok {
			continue
		}
		if published.Before(boundary) {
			continue
		}
		kept = append(kept, article)
	}
	return kept
}
