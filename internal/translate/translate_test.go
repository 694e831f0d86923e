package translate

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubTranslator struct {
	out   string
	err   error
	calls int
}

func (s *stubTranslator) Translate(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.out, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestChain_FirstBackendWins(t *testing.T) {
	t.Parallel()

	first := &stubTranslator{out: "日本語"}
	second := &stubTranslator{out: "unused"}
	chain := NewChain(testLogger(), first, second)

	out, err := chain.Translate(context.Background(), "Japanese")
	require.NoError(t, err)
	require.Equal(t, "日本語", out)
	require.Equal(t, 1, first.calls)
	require.Zero(t, second.calls)
}

func TestChain_FallsThroughOnError(t *testing.T) {
	t.Parallel()

	first := &stubTranslator{err: errors.New("quota exceeded")}
	second := &stubTranslator{out: "予備の翻訳"}
	chain := NewChain(testLogger(), first, second)

	out, err := chain.Translate(context.Background(), "fallback")
	require.NoError(t, err)
	require.Equal(t, "予備の翻訳", out)
	require.Equal(t, 1, first.calls)
	require.Equal(t, 1, second.calls)
}

func TestChain_AllBackendsFail(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	chain := NewChain(testLogger(), &stubTranslator{err: errors.New("first")}, &stubTranslator{err: boom})

	_, err := chain.Translate(context.Background(), "text")
	require.ErrorIs(t, err, boom)
}

func TestChain_EmptyChainErrors(t *testing.T) {
	t.Parallel()

	chain := NewChain(testLogger())

	_, err := chain.Translate(context.Background(), "text")
	require.EqualError(t, err, "no translation backends configured")
}

func TestChain_EmptyTextPassesThrough(t *testing.T) {
	t.Parallel()

	backend := &stubTranslator{out: "unused"}
	chain := NewChain(testLogger(), backend)

	out, err := chain.Translate(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, out)
	require.Zero(t, backend.calls)
}
