package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/laodeai/api/handler"
	"github.com/use-agent/laodeai/api/middleware"
	"github.com/use-agent/laodeai/cache"
	"github.com/use-agent/laodeai/config"
)

// Deps are the components the HTTP surface exposes.
type Deps struct {
	Answers   handler.Resolver
	Responses *cache.Responses
	Render    handler.StatsReporter
	Sites     int

	// Updates receives webhook updates; nil leaves the webhook route off.
	Updates handler.UpdateDispatcher
}

// NewRouter creates and configures the Gin engine with all routes.
func NewRouter(cfg *config.Config, deps Deps, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health stays outside auth.
	v1.GET("/health", handler.Health(deps.Render, deps.Sites, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	protected.POST("/answer", handler.Answer(deps.Answers, deps.Responses))

	if deps.Updates != nil {
		r.POST("/telegram/webhook", handler.Webhook(deps.Updates, cfg.Telegram.WebhookSecret))
	}

	return r
}
