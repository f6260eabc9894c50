package models

import "fmt"

// Error codes used for terminal pipeline outcomes and API responses.
const (
	ErrCodeSearchUnavailable    = "SEARCH_UNAVAILABLE"
	ErrCodeNoResults            = "NO_RESULTS"
	ErrCodeNoValidSource        = "NO_VALID_SOURCE"
	ErrCodeExtractionExhausted  = "EXTRACTION_EXHAUSTED"
	ErrCodeCandidateUnreachable = "CANDIDATE_UNREACHABLE"
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeRateLimited          = "RATE_LIMITED"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeInternal             = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks against an *AnswerError of the same code.
var (
	ErrSearchUnavailable    = &AnswerError{Code: ErrCodeSearchUnavailable}
	ErrNoResults            = &AnswerError{Code: ErrCodeNoResults}
	ErrNoValidSource        = &AnswerError{Code: ErrCodeNoValidSource}
	ErrExtractionExhausted  = &AnswerError{Code: ErrCodeExtractionExhausted}
	ErrCandidateUnreachable = &AnswerError{Code: ErrCodeCandidateUnreachable}
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnswerError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type AnswerError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *AnswerError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	default:
		return e.Code
	}
}

func (e *AnswerError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AnswerError with the same code.
func (e *AnswerError) Is(target error) bool {
	t, ok := target.(*AnswerError)
	return ok && t.Code == e.Code
}

// NewAnswerError creates a new AnswerError.
func NewAnswerError(code, message string, err error) *AnswerError {
	return &AnswerError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *AnswerError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// UserVisible reports whether the code is one of the terminal outcomes that
// end in a chat reply. CandidateUnreachable is always recovered internally.
func UserVisible(code string) bool {
	switch code {
	case ErrCodeSearchUnavailable, ErrCodeNoResults, ErrCodeNoValidSource, ErrCodeExtractionExhausted:
		return true
	}
	return false
}
