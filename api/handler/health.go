package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/laodeai/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// StatsReporter exposes render pool utilisation.
type StatsReporter interface {
	Stats() models.RenderStats
}

// Health returns a handler for GET /api/v1/health.
//
// Status degrades when more than 80% of render pages are busy.
func Health(rs StatsReporter, sites int, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stats models.RenderStats
		if rs != nil {
			stats = rs.Stats()
		}

		status := "healthy"
		if stats.MaxPages > 0 && stats.ActivePages > int(float64(stats.MaxPages)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:      status,
			Uptime:      time.Since(startTime).Round(time.Second).String(),
			RenderStats: stats,
			Sites:       sites,
			Version:     Version,
		})
	}
}
