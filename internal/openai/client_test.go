package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shoki0322/ai-news-pipeline/internal/config"
)

func testConfig(endpoint string) config.OpenAIConfig {
	return config.OpenAIConfig{
		APIKey:   "sk-test",
		Endpoint: endpoint,
		Model:    "gpt-4o-mini",
		Timeout:  5 * time.Second,
	}
}

func TestClient_Complete(t *testing.T) {
	t.Parallel()

	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"content": "  こんにちは  "}}]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	out, err := client.Complete(context.Background(), "system prompt", "user prompt", 0.3, 1000)
	require.NoError(t, err)
	require.Equal(t, "こんにちは", out)

	require.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 2)
	require.Equal(t, message{Role: "system", Content: "system prompt"}, got.Messages[0])
	require.Equal(t, message{Role: "user", Content: "user prompt"}, got.Messages[1])
	require.InDelta(t, 0.3, got.Temperature, 1e-9)
	require.Equal(t, 1000, got.MaxTokens)
}

func TestClient_CompleteHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "rate limit"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	_, err := client.Complete(context.Background(), "s", "u", 0.3, 100)
	require.ErrorContains(t, err, "429")
	require.ErrorContains(t, err, "rate limit")
}

func TestClient_CompleteEmptyChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	_, err := client.Complete(context.Background(), "s", "u", 0.3, 100)
	require.ErrorContains(t, err, "empty completion response")
}

func TestClient_Configured(t *testing.T) {
	t.Parallel()

	require.True(t, NewClient(testConfig("https://api.openai.com/v1/chat/completions")).Configured())

	cfg := testConfig("https://api.openai.com/v1/chat/completions")
	cfg.APIKey = ""
	require.False(t, NewClient(cfg).Configured())

	var nilClient *Client
	require.False(t, nilClient.Configured())
}
