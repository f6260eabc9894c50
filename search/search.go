// Package search queries the DuckDuckGo HTML endpoint and parses its
// results page.
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/use-agent/laodeai/engine"
	"github.com/use-agent/laodeai/models"
)

// DefaultBaseURL is the HTML-only DuckDuckGo endpoint.
const DefaultBaseURL = "https://html.duckduckgo.com/html/"

// Client fetches and parses search result pages.
type Client struct {
	engine  engine.Engine
	baseURL string
	timeout time.Duration
}

// NewClient creates a search client that fetches with e.
func NewClient(e engine.Engine, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{engine: e, baseURL: baseURL, timeout: timeout}
}

// Search runs query and parses the results page. Any failure to obtain a
// 200 response is reported as models.ErrSearchUnavailable.
func (c *Client) Search(ctx context.Context, query string) (*Page, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, models.NewAnswerError(models.ErrCodeSearchUnavailable, "bad search endpoint", err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	res, err := c.engine.Fetch(ctx, &engine.FetchRequest{
		URL:     u.String(),
		Timeout: c.timeout,
	})
	if err != nil {
		return nil, models.NewAnswerError(models.ErrCodeSearchUnavailable, "search request failed", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, models.NewAnswerError(
			models.ErrCodeSearchUnavailable,
			fmt.Sprintf("search returned status %d", res.StatusCode),
			nil,
		)
	}

	return Parse(res.HTML)
}
