package feed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shoki0322/ai-news-pipeline/internal/domain"
)

func TestDedupe_CollapsesIdenticalLinks(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "first", Link: "https://example.com/a"},
		{Title: "second", Link: "https://example.com/b"},
		{Title: "repost", Link: "https://example.com/a"},
	}

	unique := Dedupe(articles)
	require.Len(t, unique, 2)
	// First occurrence wins, with its other fields intact.
	require.Equal(t, "first", unique[0].Title)
	require.Equal(t, "second", unique[1].Title)
}

func TestDedupe_PreservesOrder(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Link: "c"},
		{Link: "a"},
		{Link: "b"},
	}

	unique := Dedupe(articles)
	require.Equal(t, []string{"c", "a", "b"}, []string{unique[0].Link, unique[1].Link, unique[2].Link})
}

func TestDedupe_Idempotent(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "x", Link: "https://example.com/x"},
		{Title: "y", Link: "https://example.com/y"},
		{Title: "x again", Link: "https://example.com/x"},
	}

	once := Dedupe(articles)
	twice := Dedupe(once)
	require.Equal(t, once, twice)
	require.LessOrEqual(t, len(once), len(articles))
}

func TestDedupe_LinklessArticlesCollapse(t *testing.T) {
	t.Parallel()

	// Articles without a link share the empty-string identity key and
	// collapse to the first one. Intentional: see the Dedupe doc.
	articles := []domain.Article{
		{Title: "no link one", Link: ""},
		{Title: "no link two", Link: ""},
		{Title: "linked", Link: "https://example.com/z"},
	}

	unique := Dedupe(articles)
	require.Len(t, unique, 2)
	require.Equal(t, "no link one", unique[0].Title)
	require.Equal(t, "linked", unique[1].Title)
}

func TestDedupe_Empty(t *testing.T) {
	t.Parallel()

	require.Empty(t, Dedupe(nil))
}
