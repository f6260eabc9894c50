package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/use-agent/laodeai/chat"
	"github.com/use-agent/laodeai/cleaner"
	"github.com/use-agent/laodeai/logging"
	"github.com/use-agent/laodeai/models"
)

// Delivery limits.
const (
	MaxImageChars = 3000
	MaxImageLines = 190
	MaxTextChars  = 500
)

// Fixed replies.
const (
	ApologyText           = "Uhh, I don't have an answer for that, sorry."
	SearchUnavailableText = "Error getting search result."
)

// Feature is the audit feature name for answers.
const Feature = "laodeai"

// Renderer draws plain text as a PNG.
type Renderer interface {
	Render(ctx context.Context, text, secondary string) ([]byte, error)
}

// Paster uploads text and returns its URL, or "" on failure.
type Paster interface {
	Upload(ctx context.Context, text string) string
}

// Dispatcher turns an Outcome into exactly one chat message and one audit
// record.
type Dispatcher struct {
	sender   chat.Sender
	renderer Renderer
	paster   Paster
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(sender chat.Sender, renderer Renderer, paster Paster) *Dispatcher {
	return &Dispatcher{sender: sender, renderer: renderer, paster: paster}
}

// Deliver sends out to origin's chat.
func (d *Dispatcher) Deliver(ctx context.Context, origin chat.Origin, out Outcome) error {
	if out.Err != nil {
		if errors.Is(out.Err, models.ErrSearchUnavailable) {
			return d.reply(ctx, origin, SearchUnavailableText, "")
		}
		slog.Info("no answer", "code", out.Code(), "error", out.Err)
		return d.reply(ctx, origin, ApologyText, "")
	}

	switch out.Extraction.Kind {
	case models.KindImage:
		return d.sendImage(ctx, origin, out.Extraction)
	case models.KindText:
		return d.sendText(ctx, origin, out.Extraction, !out.ZeroClick)
	default:
		return d.reply(ctx, origin, ApologyText, "")
	}
}

// ImageCaption decides the caption for an image answer. It reports whether
// the content overflows what one image shows.
func ImageCaption(content, pasteURL, sourceURL string) (caption string, overflow bool) {
	overflow = cleaner.Length(content) > MaxImageChars || cleaner.LineCount(content) > MaxImageLines
	if !overflow {
		return "", false
	}
	link := pasteURL
	if link == "" {
		link = sourceURL
	}
	return "Read more on: " + link, true
}

// TextMessage sanitizes content and, when trim is set, keeps the first
// MaxTextChars characters of text with every tag still balanced.
func TextMessage(content, sourceURL string, trim bool) string {
	msg := cleaner.Sanitize(content)
	if !trim {
		return msg
	}
	if cut, ok := cleaner.TruncateHTML(msg, MaxTextChars); ok {
		msg = cut + "...\n\nSee more on: " + sourceURL
	}
	return msg
}

func (d *Dispatcher) sendImage(ctx context.Context, origin chat.Origin, ext models.Extraction) error {
	_, overflow := ImageCaption(ext.Content, "", ext.URL)
	pasteURL := ""
	if overflow && d.paster != nil {
		pasteURL = d.paster.Upload(ctx, ext.Content)
	}
	caption, _ := ImageCaption(ext.Content, pasteURL, ext.URL)

	png, err := d.renderer.Render(ctx, cleaner.Truncate(ext.Content, MaxImageChars), "")
	if err != nil {
		slog.Error("render failed", "url", ext.URL, "error", err)
		return d.reply(ctx, origin, ApologyText, "Render failed")
	}

	sent, err := d.sender.SendPhoto(ctx, origin.Chat.ID, png, caption)
	if err != nil {
		logging.Audit(ctx, origin, Feature, logging.Entry{SendText: caption, Actions: "Failed to send photo"})
		return fmt.Errorf("answer: send photo: %w", err)
	}
	logging.Audit(ctx, origin, Feature, logging.Entry{
		SendText: sent.Caption,
		Actions:  fmt.Sprintf("Sent a photo with id %d", sent.MessageID),
	})
	return nil
}

func (d *Dispatcher) sendText(ctx context.Context, origin chat.Origin, ext models.Extraction, trim bool) error {
	msg := TextMessage(ext.Content, ext.URL, trim)
	sent, err := d.sender.SendHTML(ctx, origin.Chat.ID, msg)
	if err != nil {
		logging.Audit(ctx, origin, Feature, logging.Entry{SendText: msg, Actions: "Failed to send message"})
		return fmt.Errorf("answer: send text: %w", err)
	}
	logging.Audit(ctx, origin, Feature, logging.Entry{SendText: sent.Text})
	return nil
}

func (d *Dispatcher) reply(ctx context.Context, origin chat.Origin, text, actions string) error {
	_, err := d.sender.Reply(ctx, origin.Chat.ID, text)
	if err != nil {
		actions = "Failed to send reply"
	}
	logging.Audit(ctx, origin, Feature, logging.Entry{SendText: text, Actions: actions})
	if err != nil {
		return fmt.Errorf("answer: reply: %w", err)
	}
	return nil
}
