package models

// AnswerResponse is the response for POST /api/v1/answer.
type AnswerResponse struct {
	// Success indicates whether the pipeline produced an answer.
	Success bool `json:"success"`

	// Kind is "text" or "image".
	Kind string `json:"kind,omitempty"`

	// Source is the page the answer was extracted from, or the abstract's
	// source link for zero-click answers.
	Source string `json:"source,omitempty"`

	// Content is the sanitized (and possibly truncated) text, or the plain
	// text an image would be rendered from.
	Content string `json:"content,omitempty"`

	// ZeroClick is true when the answer came from the search page itself.
	ZeroClick bool `json:"zero_click,omitempty"`

	// CacheStatus is "hit" or "miss" when max_age_ms was set.
	CacheStatus string `json:"cache_status,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// SearchMs is the time spent fetching and parsing the results page.
	SearchMs int64 `json:"search_ms"`

	// ResolveMs is the time spent walking the candidate chain.
	ResolveMs int64 `json:"resolve_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status      string      `json:"status"` // "healthy" or "degraded"
	Uptime      string      `json:"uptime"`
	RenderStats RenderStats `json:"render_stats"`
	Sites       int         `json:"sites"`
	Version     string      `json:"version"`
}

// RenderStats reports the state of the renderer page pool.
type RenderStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}
