package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Webhook actions.
const (
	ActionShow  = "show"
	ActionClear = "clear"
)

// WebhookPayload is POSTed for every show and clear.
type WebhookPayload struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text,omitempty"`
	Action string `json:"action"`
}

// WebhookSink forwards reminders to an HTTP endpoint such as a tray app or
// a chat integration.
type WebhookSink struct {
	URL    string
	Secret string
	Client *http.Client
}

func NewWebhookSink(url, secret string) *WebhookSink {
	return &WebhookSink{URL: url, Secret: secret, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (s *WebhookSink) Show(ctx context.Context, id, title, message string) error {
	return s.send(ctx, WebhookPayload{ID: id, Title: title, Text: message, Action: ActionShow})
}

func (s *WebhookSink) Clear(ctx context.Context, id string) error {
	return s.send(ctx, WebhookPayload{ID: id, Action: ActionClear})
}

func (s *WebhookSink) send(ctx context.Context, payload WebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if s.Secret != "" {
		req.Header.Set("X-Clockstorm-Secret", s.Secret)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("webhook %s failed with status %d: %s", payload.Action, res.StatusCode, string(body))
}
