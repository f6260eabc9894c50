package telegram

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/use-agent/laodeai/chat"
	"github.com/use-agent/laodeai/poll"
)

// AnswerHandler answers a command query.
type AnswerHandler interface {
	Handle(ctx context.Context, origin chat.Origin, query string) error
}

// PollRecorder tracks polls posted in a chat.
type PollRecorder interface {
	Applies(c chat.Chat) bool
	Record(ctx context.Context, origin chat.Origin, p poll.Poll, messageID int) error
}

// Router routes one update to the feature that owns it.
type Router struct {
	command     string
	botUsername string
	answers     AnswerHandler
	polls       PollRecorder
}

// NewRouter creates a Router. command is the answer command without the
// slash; botUsername is used to ignore commands addressed to other bots.
// polls may be nil.
func NewRouter(command, botUsername string, answers AnswerHandler, polls PollRecorder) *Router {
	return &Router{
		command:     command,
		botUsername: botUsername,
		answers:     answers,
		polls:       polls,
	}
}

// Route handles one update synchronously.
func (r *Router) Route(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	origin := OriginOf(msg)

	if msg.Poll != nil && r.polls != nil && r.polls.Applies(origin.Chat) {
		p := poll.Poll{Question: msg.Poll.Question, Type: msg.Poll.Type}
		if err := r.polls.Record(ctx, origin, p, msg.MessageID); err != nil {
			slog.Error("poll digest failed", "chat_id", origin.Chat.ID, "error", err)
		}
		return
	}

	if !msg.IsCommand() || msg.Command() != r.command || !r.addressedToMe(msg) {
		return
	}
	if err := r.answers.Handle(ctx, origin, msg.CommandArguments()); err != nil {
		slog.Error("answer failed", "chat_id", origin.Chat.ID, "error", err)
	}
}

// addressedToMe is false for /cmd@otherbot.
func (r *Router) addressedToMe(msg *tgbotapi.Message) bool {
	withAt := msg.CommandWithAt()
	i := strings.IndexByte(withAt, '@')
	if i < 0 || r.botUsername == "" {
		return true
	}
	return strings.EqualFold(withAt[i+1:], r.botUsername)
}

// OriginOf extracts the chat and sender of a message.
func OriginOf(msg *tgbotapi.Message) chat.Origin {
	o := chat.Origin{MessageID: msg.MessageID}
	if msg.Chat != nil {
		o.Chat = chat.Chat{
			ID:       msg.Chat.ID,
			Type:     msg.Chat.Type,
			Title:    msg.Chat.Title,
			Username: msg.Chat.UserName,
		}
	}
	if msg.From != nil {
		o.UserID = msg.From.ID
		o.Username = msg.From.UserName
	}
	return o
}
