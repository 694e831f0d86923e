package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const postMessageURL = "https://slack.com/api/chat.postMessage"

// Slack posts processed articles to a channel via the Web API.
// An empty token means notifications are configured off; Notify then
// logs once and succeeds, so the pipeline never blocks on Slack.
type Slack struct {
	token   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewSlack(token string, logger *slog.Logger) *Slack {
	return &Slack{
		token:   token,
		baseURL: postMessageURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger.With("component", "slack"),
	}
}

type block struct {
	Type string     `json:"type"`
	Text *blockText `json:"text,omitempty"`
}

type blockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type postMessageRequest struct {
	Channel     string  `json:"channel"`
	Text        string  `json:"text"`
	Blocks      []block `json:"blocks,omitempty"`
	UnfurlLinks bool    `json:"unfurl_links"`
	UnfurlMedia bool    `json:"unfurl_media"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Notify posts a formatted message followed by a bare URL for the
// link preview.
func (s *Slack) Notify(ctx context.Context, channel, title, url, summary string) error {
	if s.token == "" {
		s.logger.Info("slack token not set, skipping notification", "url", url)
		return nil
	}

	formatted := postMessageRequest{
		Channel: channel,
		Text:    fmt.Sprintf("%s\n\n%s\n\n%s", title, summary, url),
		Blocks: []block{
			{
				Type: "section",
				Text: &blockText{
					Type: "mrkdwn",
					Text: fmt.Sprintf("📰 *%s*\n\n%s\n\n<%s|📖 記事を読む>", title, summary, url),
				},
			},
		},
		UnfurlLinks: false,
		UnfurlMedia: false,
	}
	if err := s.post(ctx, formatted); err != nil {
		return fmt.Errorf("post message: %w", err)
	}

	preview := postMessageRequest{
		Channel:     channel,
		Text:        url,
		UnfurlLinks: true,
		UnfurlMedia: true,
	}
	if err := s.post(ctx, preview); err != nil {
		// Main message already went out, the preview is best effort.
		s.logger.Warn("failed to post link preview", "url", url, "error", err)
	}

	s.logger.Debug("slack posted", "channel", channel, "url", url)
	return nil
}

func (s *Slack) post(ctx context.Context, msg postMessageRequest) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %s", resp.Status)
	}

	var apiResp postMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("slack error: %s", apiResp.Error)
	}

	return nil
}
