package models

// AnswerRequest is the payload for POST /api/v1/answer.
type AnswerRequest struct {
	// Query is the free-text question. Required.
	Query string `json:"query" binding:"required"`

	// Truncate applies the chat length limit to text answers.
	// Default: true.
	Truncate *bool `json:"truncate,omitempty"`

	// MaxAgeMs allows a cached answer no older than this to be returned.
	// Default: 0 (always resolve).
	MaxAgeMs int `json:"max_age_ms,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *AnswerRequest) Defaults() {
	if r.Truncate == nil {
		t := true
		r.Truncate = &t
	}
}
