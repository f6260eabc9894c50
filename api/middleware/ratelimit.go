package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/use-agent/laodeai/models"
)

// limiterIdle is how long an unused per-identity limiter is kept.
const limiterIdle = time.Hour

// maxLimiters bounds the number of identities tracked at once.
const maxLimiters = 10000

// RateLimit returns a Gin middleware applying a token bucket per identity.
// The identity is the authenticated API key, or the client IP when auth is
// disabled. Idle limiters expire after an hour.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	limiters := expirable.NewLRU[string, *rate.Limiter](maxLimiters, nil, limiterIdle)

	return func(c *gin.Context) {
		id := c.GetString(identityKey)
		if id == "" {
			id = c.ClientIP()
		}

		lim, ok := limiters.Get(id)
		if !ok {
			lim = rate.NewLimiter(rate.Limit(rps), burst)
		}
		// Re-adding refreshes the idle deadline.
		limiters.Add(id, lim)

		if !lim.Allow() {
			abort(c, http.StatusTooManyRequests, models.ErrCodeRateLimited,
				"rate limit exceeded, please slow down")
			return
		}
		c.Next()
	}
}
