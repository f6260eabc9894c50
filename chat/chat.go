// Package chat describes the messaging platform as seen by the answer and
// poll features. Adapters (Telegram) implement Sender.
package chat

import "context"

// Chat types as reported by the platform.
const (
	TypePrivate    = "private"
	TypeGroup      = "group"
	TypeSupergroup = "supergroup"
	TypeChannel    = "channel"
)

// Chat is the subset of chat metadata the features need.
type Chat struct {
	ID       int64
	Type     string
	Title    string
	Username string
}

// Origin identifies who asked and where. It travels with every request so
// audit records can name the chat and user.
type Origin struct {
	Chat      Chat
	UserID    int64
	Username  string
	MessageID int
}

// Sent is what the platform returned for a delivered message.
type Sent struct {
	MessageID int
	Text      string
	Caption   string
}

// Sender is the outbound side of the platform.
type Sender interface {
	// SendPhoto uploads a PNG with an optional caption.
	SendPhoto(ctx context.Context, chatID int64, png []byte, caption string) (Sent, error)

	// SendHTML sends an HTML-formatted message with link previews disabled.
	SendHTML(ctx context.Context, chatID int64, html string) (Sent, error)

	// Reply sends a plain text message.
	Reply(ctx context.Context, chatID int64, text string) (Sent, error)

	// EditHTML replaces the text of an existing message.
	EditHTML(ctx context.Context, chatID int64, messageID int, html string) (Sent, error)

	// Pin pins a message; notify controls whether members are alerted.
	Pin(ctx context.Context, chatID int64, messageID int, notify bool) error

	// ChatInfo fetches chat metadata, e.g. the public username.
	ChatInfo(ctx context.Context, chatID int64) (Chat, error)
}
