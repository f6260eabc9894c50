// Package poll keeps one pinned digest message per day in the home chat
// listing every poll posted that day.
package poll

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/use-agent/laodeai/cache"
	"github.com/use-agent/laodeai/chat"
	"github.com/use-agent/laodeai/logging"
)

// Feature is the audit feature name for the digest.
const Feature = "poll"

// Poll types as sent by the platform.
const (
	TypeRegular = "regular"
	TypeQuiz    = "quiz"
)

// Poll is the part of a posted poll the digest needs.
type Poll struct {
	Question string
	Type     string
}

// Item is one digest line.
type Item struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Content is the stored digest state for one day.
type Content struct {
	Survey []Item `json:"survey"`
	Quiz   []Item `json:"quiz"`
}

// Aggregator maintains the digest. State lives in a cache.Store under
// poll:<chat>:* keys; concurrent polls in the same chat may race.
type Aggregator struct {
	store      cache.Store
	sender     chat.Sender
	loc        *time.Location
	homeChatID int64
	now        func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator creates an Aggregator for the chat homeChatID. Days are
// counted in loc.
func NewAggregator(store cache.Store, sender chat.Sender, loc *time.Location, homeChatID int64, opts ...Option) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	a := &Aggregator{
		store:      store,
		sender:     sender,
		loc:        loc,
		homeChatID: homeChatID,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Applies reports whether polls in this chat are tracked.
func (a *Aggregator) Applies(c chat.Chat) bool {
	return a.homeChatID != 0 && c.ID == a.homeChatID && c.Type == chat.TypeSupergroup
}

func keys(chatID int64) (content, messageID, date string) {
	prefix := "poll:" + strconv.FormatInt(chatID, 10)
	return prefix + ":message:content", prefix + ":message:id", prefix + ":date"
}

// Record adds the poll posted as messageID to today's digest, editing the
// digest message if one exists for today or sending and pinning a new one.
func (a *Aggregator) Record(ctx context.Context, origin chat.Origin, p Poll, messageID int) error {
	chatID := origin.Chat.ID
	contentKey, idKey, dateKey := keys(chatID)

	vals, err := a.store.MGet(ctx, contentKey, idKey, dateKey)
	if err != nil {
		return fmt.Errorf("poll: load state: %w", err)
	}
	rawContent, rawID, rawDate := vals[0], vals[1], vals[2]

	now := a.now().In(a.loc)
	today := a.isToday(rawDate, now)

	var content Content
	if rawContent == "" || !today || json.Unmarshal([]byte(rawContent), &content) != nil {
		content = Content{Survey: []Item{}, Quiz: []Item{}}
	}

	item := Item{ID: messageID, Text: firstLine(p.Question)}
	switch p.Type {
	case TypeRegular:
		content.Survey = append(content.Survey, item)
	case TypeQuiz:
		content.Quiz = append(content.Quiz, item)
	}

	info, err := a.sender.ChatInfo(ctx, chatID)
	if err != nil {
		return fmt.Errorf("poll: chat info: %w", err)
	}
	digest := Digest(now, info.Username, content)

	encoded, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("poll: encode state: %w", err)
	}

	if pinned, perr := strconv.Atoi(rawID); today && perr == nil {
		if _, err := a.sender.EditHTML(ctx, chatID, pinned, digest); err != nil {
			return fmt.Errorf("poll: edit digest: %w", err)
		}
		if err := a.store.MSet(ctx, map[string]string{contentKey: string(encoded)}); err != nil {
			return fmt.Errorf("poll: save state: %w", err)
		}
		logging.Audit(ctx, origin, Feature, logging.Entry{
			SendText: digest,
			Actions:  fmt.Sprintf("Edited a message: %d", pinned),
		})
		return nil
	}

	sent, err := a.sender.SendHTML(ctx, chatID, digest)
	if err != nil {
		return fmt.Errorf("poll: send digest: %w", err)
	}
	logging.Audit(ctx, origin, Feature, logging.Entry{
		SendText: digest,
		Actions:  fmt.Sprintf("Message sent: %d", sent.MessageID),
	})

	if err := a.store.MSet(ctx, map[string]string{
		idKey:      strconv.Itoa(sent.MessageID),
		contentKey: string(encoded),
		dateKey:    now.Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("poll: save state: %w", err)
	}

	if err := a.sender.Pin(ctx, chatID, sent.MessageID, true); err != nil {
		slog.Warn("poll: pin digest failed", "chat_id", chatID, "message_id", sent.MessageID, "error", err)
		return fmt.Errorf("poll: pin digest: %w", err)
	}
	logging.Audit(ctx, origin, Feature, logging.Entry{Actions: "Pinned a message"})
	return nil
}

// isToday reports whether the stored RFC 3339 date falls on now's day.
func (a *Aggregator) isToday(raw string, now time.Time) bool {
	if raw == "" {
		return false
	}
	stored, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return false
	}
	stored = stored.In(a.loc)
	y1, m1, d1 := stored.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
