package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// defaultWebhookTimeout is the default timeout for webhook HTTP requests
	defaultWebhookTimeout = 30 * time.Second

	// maxErrorBodySize limits error response body reading
	maxErrorBodySize = 1024
)

// WebhookProvider delivers foreground notifications by POSTing the
// notification JSON to a configured HTTP endpoint.
type WebhookProvider struct {
	name    string
	enabled bool
	url     string
	client  *http.Client
}

// NewWebhookProvider creates a webhook provider for the given endpoint URL.
func NewWebhookProvider(name string, enabled bool, url string, timeout time.Duration) *WebhookProvider {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	if name == "" {
		name = "webhook"
	}
	return &WebhookProvider{
		name:    name,
		enabled: enabled,
		url:     url,
		client:  &http.Client{Timeout: timeout},
	}
}

func (w *WebhookProvider) GetName() string { return w.name }
func (w *WebhookProvider) IsEnabled() bool { return w.enabled && w.url != "" }

// Send posts the notification to the webhook endpoint. Non-2xx responses
// are errors.
func (w *WebhookProvider) Send(ctx context.Context, n *Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
