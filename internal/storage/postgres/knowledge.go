package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shoki0322/ai-news-pipeline/internal/domain"
)

// KnowledgeStore persists processed articles keyed by URL.
type KnowledgeStore struct {
	db *sqlx.DB
}

func NewKnowledgeStore(db *sqlx.DB) *KnowledgeStore {
	return &KnowledgeStore{db: db}
}

// ExistsByURL reports whether the URL has already been published to
// the knowledge base.
func (s *KnowledgeStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM articles WHERE url = $1)", url)
	if err != nil {
		return false, fmt.Errorf("query url existence: %w", err)
	}
	return exists, nil
}

// Save upserts the processed article snapshot.
func (s *KnowledgeStore) Save(ctx context.Context, article domain.ProcessedArticle) error {
	published, err := time.Parse(time.RFC3339, article.Published)
	if err != nil {
		return fmt.Errorf("parse published timestamp: %w", err)
	}

	query := `
		INSERT INTO articles (title_ja, url, summary_ja, published_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (url) DO UPDATE SET
			title_ja = EXCLUDED.title_ja,
			summary_ja = EXCLUDED.summary_ja,
			published_at = EXCLUDED.published_at,
			updated_at = NOW()`

	_, err = s.db.ExecContext(ctx, query,
		article.TitleJA,
		article.URL,
		article.SummaryJA,
		published,
	)
	if err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}

	return nil
}

// GetByURL loads a stored article, sql.ErrNoRows when absent.
func (s *KnowledgeStore) GetByURL(ctx context.Context, url string) (*domain.ProcessedArticle, error) {
	var row struct {
		TitleJA     string    `db:"title_ja"`
		URL         string    `db:"url"`
		SummaryJA   string    `db:"summary_ja"`
		PublishedAt time.Time `db:"published_at"`
	}

	query := `SELECT title_ja, url, summary_ja, published_at FROM articles WHERE url = $1`
	if err := s.db.GetContext(ctx, &row, query, url); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get article: %w", err)
	}

	return &domain.ProcessedArticle{
		TitleJA:   row.TitleJA,
		URL:       row.URL,
		SummaryJA: row.SummaryJA,
		Published: row.PublishedAt.UTC().Format(time.RFC3339),
	}, nil
}
