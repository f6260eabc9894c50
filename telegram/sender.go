// Package telegram connects the bot to the Telegram Bot API: an outbound
// chat.Sender, the update router and the long-poll loop.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/use-agent/laodeai/chat"
)

// Sender implements chat.Sender on top of the Bot API. The client library
// has no context support, so ctx is only checked before each call.
type Sender struct {
	bot *tgbotapi.BotAPI
}

var _ chat.Sender = (*Sender)(nil)

// NewSender wraps an authenticated bot.
func NewSender(bot *tgbotapi.BotAPI) *Sender {
	return &Sender{bot: bot}
}

func (s *Sender) SendPhoto(ctx context.Context, chatID int64, png []byte, caption string) (chat.Sent, error) {
	if err := ctx.Err(); err != nil {
		return chat.Sent{}, err
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "answer.png", Bytes: png})
	photo.Caption = caption
	msg, err := s.bot.Send(photo)
	if err != nil {
		return chat.Sent{}, fmt.Errorf("telegram: sendPhoto: %w", err)
	}
	return chat.Sent{MessageID: msg.MessageID, Caption: msg.Caption}, nil
}

func (s *Sender) SendHTML(ctx context.Context, chatID int64, html string) (chat.Sent, error) {
	if err := ctx.Err(); err != nil {
		return chat.Sent{}, err
	}
	m := tgbotapi.NewMessage(chatID, html)
	m.ParseMode = tgbotapi.ModeHTML
	m.DisableWebPagePreview = true
	msg, err := s.bot.Send(m)
	if err != nil {
		return chat.Sent{}, fmt.Errorf("telegram: sendMessage: %w", err)
	}
	return chat.Sent{MessageID: msg.MessageID, Text: msg.Text}, nil
}

func (s *Sender) Reply(ctx context.Context, chatID int64, text string) (chat.Sent, error) {
	if err := ctx.Err(); err != nil {
		return chat.Sent{}, err
	}
	msg, err := s.bot.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return chat.Sent{}, fmt.Errorf("telegram: sendMessage: %w", err)
	}
	return chat.Sent{MessageID: msg.MessageID, Text: msg.Text}, nil
}

func (s *Sender) EditHTML(ctx context.Context, chatID int64, messageID int, html string) (chat.Sent, error) {
	if err := ctx.Err(); err != nil {
		return chat.Sent{}, err
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, html)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	msg, err := s.bot.Send(edit)
	if err != nil {
		return chat.Sent{}, fmt.Errorf("telegram: editMessageText: %w", err)
	}
	return chat.Sent{MessageID: msg.MessageID, Text: msg.Text}, nil
}

func (s *Sender) Pin(ctx context.Context, chatID int64, messageID int, notify bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.bot.Request(tgbotapi.PinChatMessageConfig{
		ChatID:              chatID,
		MessageID:           messageID,
		DisableNotification: !notify,
	})
	if err != nil {
		return fmt.Errorf("telegram: pinChatMessage: %w", err)
	}
	return nil
}

func (s *Sender) ChatInfo(ctx context.Context, chatID int64) (chat.Chat, error) {
	if err := ctx.Err(); err != nil {
		return chat.Chat{}, err
	}
	c, err := s.bot.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: chatID}})
	if err != nil {
		return chat.Chat{}, fmt.Errorf("telegram: getChat: %w", err)
	}
	return chat.Chat{ID: c.ID, Type: c.Type, Title: c.Title, Username: c.UserName}, nil
}
