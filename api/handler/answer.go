package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/laodeai/answer"
	"github.com/use-agent/laodeai/cache"
	"github.com/use-agent/laodeai/models"
)

// Resolver runs the answer pipeline without sending anything.
type Resolver interface {
	Resolve(ctx context.Context, query string) answer.Outcome
}

// Answer returns a handler for POST /api/v1/answer.
//
// Flow:
//  1. Bind and validate the request, apply defaults.
//  2. Serve from the response cache when max_age_ms allows it.
//  3. Resolve the query and shape the outcome the way a chat would see it.
//  4. Cache successful answers.
func Answer(svc Resolver, rc *cache.Responses) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.AnswerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.AnswerResponse{
				Error: &models.ErrorDetail{Code: models.ErrCodeInvalidInput, Message: err.Error()},
			})
			return
		}
		req.Defaults()
		query := strings.TrimSpace(req.Query)
		if query == "" {
			c.JSON(http.StatusBadRequest, models.AnswerResponse{
				Error: &models.ErrorDetail{Code: models.ErrCodeInvalidInput, Message: "query is empty"},
			})
			return
		}

		key := cache.Key(query, *req.Truncate)
		if rc != nil {
			if cached, hit := rc.Get(key, req.MaxAgeMs); hit {
				resp := *cached
				resp.CacheStatus = "hit"
				resp.Timing = models.TimingInfo{TotalMs: time.Since(start).Milliseconds()}
				c.JSON(http.StatusOK, resp)
				return
			}
		}

		out := svc.Resolve(c.Request.Context(), query)
		if out.Err != nil {
			code := out.Code()
			c.JSON(statusFor(code), models.AnswerResponse{
				Error:  &models.ErrorDetail{Code: code, Message: messageFor(code)},
				Timing: out.Timing,
			})
			return
		}

		resp := Shape(out, *req.Truncate)
		if rc != nil && req.MaxAgeMs > 0 {
			rc.Set(key, resp)
			resp.CacheStatus = "miss"
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Shape converts a successful outcome into the API response. Text answers
// get the same sanitizing and length limit a chat message gets; image
// answers carry the plain text that would be rendered.
func Shape(out answer.Outcome, truncate bool) *models.AnswerResponse {
	ext := out.Extraction
	content := ext.Content
	if ext.Kind == models.KindText {
		content = answer.TextMessage(ext.Content, ext.URL, truncate && !out.ZeroClick)
	}
	return &models.AnswerResponse{
		Success:   true,
		Kind:      ext.Kind.String(),
		Source:    ext.URL,
		Content:   content,
		ZeroClick: out.ZeroClick,
		Timing:    out.Timing,
	}
}

// statusFor maps an outcome code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case models.ErrCodeNoResults, models.ErrCodeNoValidSource:
		return http.StatusNotFound
	case models.ErrCodeExtractionExhausted:
		return http.StatusBadGateway
	case models.ErrCodeSearchUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(code string) string {
	switch code {
	case models.ErrCodeNoResults:
		return "the search returned no results"
	case models.ErrCodeNoValidSource:
		return "no result links point at a supported site"
	case models.ErrCodeExtractionExhausted:
		return "no supported page yielded an answer"
	case models.ErrCodeSearchUnavailable:
		return answer.SearchUnavailableText
	default:
		return answer.ApologyText
	}
}
