package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/use-agent/laodeai/chat"
)

// Entry is the feature-specific part of an audit record.
type Entry struct {
	SendText string // text or caption delivered to the chat
	Actions  string // side effects, e.g. "Pinned a message"
}

type queryIDKey struct{}

// WithQueryID tags ctx with a fresh query id unless it already has one.
func WithQueryID(ctx context.Context) context.Context {
	if QueryID(ctx) != "" {
		return ctx
	}
	return context.WithValue(ctx, queryIDKey{}, uuid.NewString())
}

// QueryID returns the id attached by WithQueryID, or "".
func QueryID(ctx context.Context) string {
	id, _ := ctx.Value(queryIDKey{}).(string)
	return id
}

// Audit writes one record describing what a feature did for origin.
func Audit(ctx context.Context, origin chat.Origin, feature string, e Entry) {
	slog.Default().LogAttrs(ctx, slog.LevelInfo, "audit",
		slog.Int64("chat_id", origin.Chat.ID),
		slog.String("chat_title", origin.Chat.Title),
		slog.String("chat_type", origin.Chat.Type),
		slog.Int64("user_id", origin.UserID),
		slog.String("username", origin.Username),
		slog.String("feature", feature),
		slog.String("query_id", QueryID(ctx)),
		slog.String("send_text", e.SendText),
		slog.String("actions", e.Actions),
	)
}
