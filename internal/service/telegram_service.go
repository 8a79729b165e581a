package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"
)

// DefaultTelegramAPI is the Telegram Bot API base URL
const DefaultTelegramAPI = "https://api.telegram.org"

// TelegramService mirrors notifications into a Telegram chat
type TelegramService struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

// NewTelegramService creates a new Telegram notifier
func NewTelegramService(botToken, chatID string, timeout time.Duration) *TelegramService {
	return &TelegramService{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  DefaultTelegramAPI,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithAPIBase points the service at another Bot API host
func (s *TelegramService) WithAPIBase(apiBase string) *TelegramService {
	s.apiBase = apiBase
	return s
}

// telegramMessage represents a Telegram API message
type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Send posts the plain-text body, headed by the subject, to the chat
func (s *TelegramService) Send(ctx context.Context, msg *Message) error {
	if s.botToken == "" || s.chatID == "" {
		return ErrNotConfigured
	}

	jsonData, err := json.Marshal(telegramMessage{
		ChatID:    s.chatID,
		Text:      fmt.Sprintf("<b>%s</b>\n\n%s", html.EscapeString(msg.Subject), html.EscapeString(msg.Text)),
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// The error text would include the bot token from the URL
		return fmt.Errorf("%w: telegram request failed", ErrNotifyFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: telegram API returned status %d", ErrNotifyFailed, resp.StatusCode)
	}

	return nil
}
