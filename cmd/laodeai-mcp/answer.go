package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// answerRequest mirrors the API request model.
type answerRequest struct {
	Query    string `json:"query"`
	Truncate *bool  `json:"truncate,omitempty"`
	MaxAgeMs int    `json:"max_age_ms,omitempty"`
}

// answerResponse mirrors the API response model.
type answerResponse struct {
	Success     bool   `json:"success"`
	Kind        string `json:"kind"`
	Source      string `json:"source"`
	Content     string `json:"content"`
	ZeroClick   bool   `json:"zero_click"`
	CacheStatus string `json:"cache_status"`
	Error       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type client struct {
	http   *http.Client
	apiURL string
	apiKey string
}

func newClient(apiURL, apiKey string) *client {
	return &client{
		http:   &http.Client{Timeout: 120 * time.Second},
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
	}
}

// post sends payload to the API and decodes the JSON reply into out.
func (c *client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

func handleAnswer(c *client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		payload := answerRequest{
			Query:    query,
			MaxAgeMs: request.GetInt("max_age_ms", 0),
		}
		if _, ok := request.GetArguments()["truncate"]; ok {
			t := request.GetBool("truncate", true)
			payload.Truncate = &t
		}

		var resp answerResponse
		if err := c.post(ctx, "/api/v1/answer", payload, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success {
			msg := "no answer"
			if resp.Error != nil {
				msg = fmt.Sprintf("[%s] %s", resp.Error.Code, resp.Error.Message)
			}
			return mcp.NewToolResultError(msg), nil
		}

		return mcp.NewToolResultText(formatAnswer(resp)), nil
	}
}

// formatAnswer puts a small header above the answer body.
func formatAnswer(r answerResponse) string {
	var sb strings.Builder
	if r.Source != "" {
		fmt.Fprintf(&sb, "Source: %s\n", r.Source)
	}
	fmt.Fprintf(&sb, "Kind: %s", r.Kind)
	if r.ZeroClick {
		sb.WriteString(" (search page abstract)")
	}
	sb.WriteString("\n\n")
	sb.WriteString(r.Content)
	return sb.String()
}
