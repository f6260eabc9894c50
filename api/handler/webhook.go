package handler

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SecretHeader carries the secret token Telegram echoes on every webhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateDispatcher routes one Telegram update in the background.
type UpdateDispatcher interface {
	Dispatch(ctx context.Context, update tgbotapi.Update)
}

// Webhook returns a handler for POST /telegram/webhook.
//
// The update is acknowledged right away and routed after the response;
// Telegram retries anything that is not a 2xx.
func Webhook(d UpdateDispatcher, secret string) gin.HandlerFunc {
	want := []byte(secret)

	return func(c *gin.Context) {
		if secret != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader(SecretHeader)), want) != 1 {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		d.Dispatch(context.WithoutCancel(c.Request.Context()), update)
		c.Status(http.StatusOK)
	}
}
