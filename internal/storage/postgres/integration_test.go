//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shoki0322/ai-news-pipeline/internal/domain"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_articles.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM articles")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) TestKnowledgeStore_SaveAndGet() {
	store := NewKnowledgeStore(s.db)

	article := domain.ProcessedArticle{
		TitleJA:   "テスト記事",
		URL:       "https://example.com/article",
		SummaryJA: "要約テキスト。",
		Published: "2024-06-24T15:00:00Z",
	}

	err := store.Save(s.ctx, article)
	s.NoError(err)

	got, err := store.GetByURL(s.ctx, article.URL)
	s.NoError(err)
	s.Equal(article, *got)
}

func (s *PostgresIntegrationSuite) TestKnowledgeStore_SaveUpsertsByURL() {
	store := NewKnowledgeStore(s.db)

	article := domain.ProcessedArticle{
		TitleJA:   "最初のタイトル",
		URL:       "https://example.com/article",
		SummaryJA: "最初の要約。",
		Published: "2024-06-24T15:00:00Z",
	}
	s.NoError(store.Save(s.ctx, article))

	article.TitleJA = "更新後のタイトル"
	article.SummaryJA = "更新後の要約。"
	s.NoError(store.Save(s.ctx, article))

	var count int
	err := s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM articles WHERE url = $1", article.URL)
	s.NoError(err)
	s.Equal(1, count)

	got, err := store.GetByURL(s.ctx, article.URL)
	s.NoError(err)
	s.Equal("更新後のタイトル", got.TitleJA)
	s.Equal("更新後の要約。", got.SummaryJA)
}

func (s *PostgresIntegrationSuite) TestKnowledgeStore_SaveRejectsBadTimestamp() {
	store := NewKnowledgeStore(s.db)

	err := store.Save(s.ctx, domain.ProcessedArticle{
		TitleJA:   "タイトル",
		URL:       "https://example.com/bad",
		SummaryJA: "要約",
		Published: "not a timestamp",
	})
	s.Error(err)
}

func (s *PostgresIntegrationSuite) TestKnowledgeStore_ExistsByURL() {
	store := NewKnowledgeStore(s.db)

	exists, err := store.ExistsByURL(s.ctx, "https://example.com/absent")
	s.NoError(err)
	s.False(exists)

	s.NoError(store.Save(s.ctx, domain.ProcessedArticle{
		TitleJA:   "タイトル",
		URL:       "https://example.com/present",
		SummaryJA: "要約",
		Published: "2024-06-24T15:00:00Z",
	}))

	exists, err = store.ExistsByURL(s.ctx, "https://example.com/present")
	s.NoError(err)
	s.True(exists)
}

func (s *PostgresIntegrationSuite) TestKnowledgeStore_GetByURL_Absent() {
	store := NewKnowledgeStore(s.db)

	_, err := store.GetByURL(s.ctx, "https://example.com/absent")
	s.ErrorIs(err, sql.ErrNoRows)
}
