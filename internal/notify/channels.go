package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/config"
)

const channelTimeout = 10 * time.Second

// TelegramChannel sends notifications via the Telegram bot API.
type TelegramChannel struct {
	botToken   string
	chatID     string
	enabled    bool
	httpClient *http.Client
}

// NewTelegramChannel creates a new Telegram notification channel.
func NewTelegramChannel(cfg config.TelegramConfig) *TelegramChannel {
	return &TelegramChannel{
		botToken:   cfg.BotToken,
		chatID:     cfg.ChatID,
		enabled:    cfg.Enabled && cfg.BotToken != "" && cfg.ChatID != "",
		httpClient: &http.Client{Timeout: channelTimeout},
	}
}

// Name returns the channel name.
func (t *TelegramChannel) Name() string { return "telegram" }

// IsEnabled returns whether the channel is configured for delivery.
func (t *TelegramChannel) IsEnabled() bool { return t.enabled }

// Send delivers the notification and returns Telegram's message id.
func (t *TelegramChannel) Send(ctx context.Context, n Notification) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    fmt.Sprintf("%s\n\n%s", n.Title, n.Message),
	})
	if err != nil {
		return "", fmt.Errorf("encoding telegram payload: %w", err)
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling telegram: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading telegram response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("telegram returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded struct {
		OK     bool `json:"ok"`
		Result struct {
			MessageID int64 `json:"message_id"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decoding telegram response: %w", err)
	}
	if !decoded.OK {
		return "", fmt.Errorf("telegram rejected message: %s", string(body))
	}
	return strconv.FormatInt(decoded.Result.MessageID, 10), nil
}

// WebhookChannel posts notifications as JSON to a configured URL.
type WebhookChannel struct {
	url        string
	enabled    bool
	httpClient *http.Client
}

// NewWebhookChannel creates a new webhook notification channel.
func NewWebhookChannel(cfg config.WebhookConfig) *WebhookChannel {
	return &WebhookChannel{
		url:        cfg.URL,
		enabled:    cfg.Enabled && cfg.URL != "",
		httpClient: &http.Client{Timeout: channelTimeout},
	}
}

// Name returns the channel name.
func (w *WebhookChannel) Name() string { return "webhook" }

// IsEnabled returns whether the channel is configured for delivery.
func (w *WebhookChannel) IsEnabled() bool { return w.enabled }

// Send posts the notification. Webhooks have no message id.
func (w *WebhookChannel) Send(ctx context.Context, n Notification) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"title":     n.Title,
		"message":   n.Message,
		"timestamp": n.Timestamp.Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return "", nil
}
