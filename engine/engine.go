// Package engine fetches candidate pages and walks them in order until one
// yields an answer.
package engine

import (
	"context"
	"time"
)

// Engine fetches one page.
type Engine interface {
	// Name identifies the engine in logs (e.g. "http").
	Name() string

	// Fetch GETs req.URL. A response that arrived is never an error:
	// 4xx and 5xx come back in FetchResult.StatusCode.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest describes a single page GET.
type FetchRequest struct {
	URL     string
	Headers map[string]string

	// Timeout bounds the whole request; zero means the caller's context.
	Timeout time.Duration
}

// FetchResult is a page as the server returned it.
type FetchResult struct {
	HTML       string
	StatusCode int
	FinalURL   string // after redirects
	EngineName string
}
