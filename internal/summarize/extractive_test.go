package summarize

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractive_PicksSentencesUntilMinChars(t *testing.T) {
	t.Parallel()

	s := NewExtractive()
	out, err := s.Summarize(context.Background(), "一文目です。二文目です。三文目です。", Options{
		MaxChars:     400,
		MinChars:     10,
		MaxSentences: 4,
	})
	require.NoError(t, err)
	require.Equal(t, "一文目です。二文目です。", out)
}

func TestExtractive_StopsAtMaxSentences(t *testing.T) {
	t.Parallel()

	s := NewExtractive()
	out, err := s.Summarize(context.Background(), "一文目です。二文目です。三文目です。", Options{
		MaxChars:     400,
		MinChars:     100,
		MaxSentences: 2,
	})
	require.NoError(t, err)
	require.Equal(t, "一文目です。二文目です。", out)
}

func TestExtractive_LatinSentences(t *testing.T) {
	t.Parallel()

	s := NewExtractive()
	out, err := s.Summarize(context.Background(), "First one. Second one. Third one.", Options{
		MaxChars:     400,
		MinChars:     12,
		MaxSentences: 4,
	})
	require.NoError(t, err)
	require.Equal(t, "First one.Second one.", out)
}

func TestExtractive_TruncatesWithEllipsis(t *testing.T) {
	t.Parallel()

	s := NewExtractive()
	out, err := s.Summarize(context.Background(), strings.Repeat("あ", 30)+"。", Options{
		MaxChars:     10,
		MinChars:     5,
		MaxSentences: 4,
	})
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("あ", 10)+"…", out)
}

func TestExtractive_ChunksWhenNoPunctuation(t *testing.T) {
	t.Parallel()

	s := NewExtractive()
	out, err := s.Summarize(context.Background(), strings.Repeat("あ", 200), Options{
		MaxChars:     400,
		MinChars:     100,
		MaxSentences: 5,
	})
	require.NoError(t, err)
	// Two 80-rune chunks clear the minimum.
	require.Equal(t, strings.Repeat("あ", 160), out)
}

func TestExtractive_EmptyInput(t *testing.T) {
	t.Parallel()

	s := NewExtractive()
	out, err := s.Summarize(context.Background(), "", Options{MaxChars: 400, MinChars: 100, MaxSentences: 4})
	require.NoError(t, err)
	require.Empty(t, out)
}
