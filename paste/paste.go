// Package paste uploads long answers to a pastebin-compatible service.
package paste

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client posts text to a pastebin-style API (form fields api_dev_key,
// api_option=paste, api_paste_code; the response body is the paste URL).
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// New creates a paste client. An empty endpoint disables uploads.
func New(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

// Upload stores text and returns its public URL. Failures are logged and
// reported as "" so callers can fall back to the source link.
func (c *Client) Upload(ctx context.Context, text string) string {
	if c == nil || c.endpoint == "" {
		return ""
	}
	link, err := c.post(ctx, text)
	if err != nil {
		slog.Warn("paste upload failed", "endpoint", c.endpoint, "error", err)
		return ""
	}
	return link
}

func (c *Client) post(ctx context.Context, text string) (string, error) {
	form := url.Values{
		"api_dev_key":           {c.apiKey},
		"api_option":            {"paste"},
		"api_paste_code":        {text},
		"api_paste_private":     {"1"},
		"api_paste_expire_date": {"1M"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("paste: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "laodeai/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("paste: post: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("paste: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("paste: endpoint returned status %d", resp.StatusCode)
	}

	link := strings.TrimSpace(string(body))
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("paste: unexpected response %q", truncate(link, 80))
	}
	return link, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
