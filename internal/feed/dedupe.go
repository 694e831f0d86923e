package feed

import (
	"crypto/md5"

	"github.com/shoki0322/ai-news-pipeline/internal/domain"
)

// Dedupe removes duplicate articles from a single fetch batch,
// preserving first-seen order. Identity is a hash over the link URL
// bytes, so articles with an empty link all share one key and collapse
// to the first occurrence.
func Dedupe(articles []domain.Article) []domain.Article {
	seen := make(map[[md5.Size]byte]struct{}, len(articles))
	unique := make([]domain.Article, 0, len(articles))

	for _, article := range articles {
		key := md5.Sum([]byte(article.Link))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, article)
	}

	return unique
}
