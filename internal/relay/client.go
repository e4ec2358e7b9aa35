package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SolomonGithu/barkdet-go/internal/errors"
)

const defaultClientTimeout = 30 * time.Second

// Client talks to the push relay server. All methods are best-effort HTTP
// calls against the server's JSON API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a relay client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SendResult is the per-subscription outcome of a fan-out send.
type SendResult struct {
	Sub    json.RawMessage `json:"sub"`
	Status string          `json:"status"`
	Reason string          `json:"reason,omitempty"`
}

// Send forwards a payload to the relay server for fan-out to all stored
// subscriptions. Partial delivery failure does not fail the call.
func (c *Client) Send(ctx context.Context, payload Payload) ([]SendResult, error) {
	var resp struct {
		Results []SendResult `json:"results"`
	}
	if err := c.post(ctx, "/send", map[string]any{"payload": payload}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// VAPIDPublicKey fetches the server's VAPID public key.
func (c *Client) VAPIDPublicKey(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/vapidPublicKey", http.NoBody)
	if err != nil {
		return "", c.wrapErr("create request", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return "", c.wrapErr("get vapid public key", err)
	}
	defer res.Body.Close() //nolint:errcheck

	if res.StatusCode != http.StatusOK {
		return "", c.statusErr("/vapidPublicKey", res)
	}
	var body struct {
		PublicKey string `json:"publicKey"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", c.wrapErr("decode vapid response", err)
	}
	return body.PublicKey, nil
}

// Subscribe registers a push subscription descriptor with the relay server.
func (c *Client) Subscribe(ctx context.Context, subscription json.RawMessage) error {
	return c.post(ctx, "/subscribe", map[string]any{"subscription": subscription}, nil)
}

// Unsubscribe removes a push subscription descriptor from the relay server.
func (c *Client) Unsubscribe(ctx context.Context, subscription json.RawMessage) error {
	return c.post(ctx, "/unsubscribe", map[string]any{"subscription": subscription}, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return c.wrapErr("encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return c.wrapErr("create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return c.wrapErr("post "+path, err)
	}
	defer res.Body.Close() //nolint:errcheck

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return c.statusErr(path, res)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return c.wrapErr("decode response", err)
		}
	}
	return nil
}

func (c *Client) wrapErr(op string, err error) error {
	return errors.New(fmt.Errorf("relay %s: %w", op, err)).
		Component("relay").
		Category(errors.CategoryNetwork).
		Context("base_url", c.baseURL).
		Build()
}

func (c *Client) statusErr(path string, res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return errors.Newf("relay %s returned status %d: %s", path, res.StatusCode, string(body)).
		Component("relay").
		Category(errors.CategoryHTTP).
		Context("status", res.StatusCode).
		Build()
}
