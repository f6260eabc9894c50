package answer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/use-agent/laodeai/chat"
	"github.com/use-agent/laodeai/logging"
)

// Handler answers chat commands end to end.
type Handler struct {
	service    *Service
	dispatcher *Dispatcher
}

// NewHandler creates a Handler.
func NewHandler(s *Service, d *Dispatcher) *Handler {
	return &Handler{service: s, dispatcher: d}
}

// Handle answers query for origin. An empty query is ignored. A panic
// anywhere below ends in the apology reply.
func (h *Handler) Handle(ctx context.Context, origin chat.Origin, query string) (err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	ctx = logging.WithQueryID(ctx)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("answer handler panic", "panic", r, "stack", string(debug.Stack()))
			err = h.dispatcher.reply(ctx, origin, ApologyText, fmt.Sprintf("panic: %v", r))
		}
	}()

	slog.Info("answering", "query", query, "chat_id", origin.Chat.ID, "query_id", logging.QueryID(ctx))
	out := h.service.Resolve(ctx, query)
	return h.dispatcher.Deliver(ctx, origin, out)
}
