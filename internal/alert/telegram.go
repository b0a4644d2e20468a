// Package alert sends best-effort operator notifications over the
// Telegram Bot API. It is optional: without both TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID set, Send silently no-ops.
package alert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

const apiBaseURL = "https://api.telegram.org"

// Sink posts Markdown-formatted messages to a Telegram chat.
type Sink struct {
	token      string
	chatID     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFromEnv builds a Sink from TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID.
// Either missing disables delivery; Send then does nothing.
func NewFromEnv(logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{
		token:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		chatID:     os.Getenv("TELEGRAM_CHAT_ID"),
		baseURL:    apiBaseURL,
		httpClient: &http.Client{Timeout: sendTimeout},
		logger:     logger,
	}
}

// Enabled reports whether both required env vars were present.
func (s *Sink) Enabled() bool {
	return s.token != "" && s.chatID != ""
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send posts message to the configured chat. Delivery failures are
// logged, never returned — alerting must never interrupt a scan cycle.
func (s *Sink) Send(ctx context.Context, message string) {
	if !s.Enabled() {
		s.logger.Debug("telegram-alert-skipped-not-configured")
		return
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    s.chatID,
		Text:      message,
		ParseMode: "Markdown",
	})
	if err != nil {
		s.logger.Warn("telegram-alert-marshal-failed", zap.Error(err))
		return
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		s.logger.Warn("telegram-alert-request-build-failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("telegram-alert-send-failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		s.logger.Warn("telegram-alert-non-2xx",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
	}
}
