// Package chattest provides an in-memory chat.Sender for tests.
package chattest

import (
	"context"
	"sync"

	"github.com/use-agent/laodeai/chat"
)

// Call is one recorded Sender invocation.
type Call struct {
	Method    string
	ChatID    int64
	MessageID int
	Text      string
	Photo     []byte
	Notify    bool
}

// Recorder is a chat.Sender that records calls and hands out sequential
// message ids starting at NextID.
type Recorder struct {
	mu     sync.Mutex
	calls  []Call
	nextID int

	// Chats answers ChatInfo.
	Chats map[int64]chat.Chat

	// Err, when set, is returned by every method.
	Err error
}

var _ chat.Sender = (*Recorder)(nil)

// New returns a Recorder whose first message id is firstID.
func New(firstID int) *Recorder {
	return &Recorder{nextID: firstID, Chats: map[int64]chat.Chat{}}
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Methods returns the recorded method names in order.
func (r *Recorder) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Method
	}
	return out
}

func (r *Recorder) record(c Call) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	if c.MessageID == 0 {
		c.MessageID = r.nextID
		r.nextID++
	}
	r.calls = append(r.calls, c)
	return c.MessageID, nil
}

func (r *Recorder) SendPhoto(_ context.Context, chatID int64, png []byte, caption string) (chat.Sent, error) {
	id, err := r.record(Call{Method: "SendPhoto", ChatID: chatID, Photo: png, Text: caption})
	if err != nil {
		return chat.Sent{}, err
	}
	return chat.Sent{MessageID: id, Caption: caption}, nil
}

func (r *Recorder) SendHTML(_ context.Context, chatID int64, html string) (chat.Sent, error) {
	id, err := r.record(Call{Method: "SendHTML", ChatID: chatID, Text: html})
	if err != nil {
		return chat.Sent{}, err
	}
	return chat.Sent{MessageID: id, Text: html}, nil
}

func (r *Recorder) Reply(_ context.Context, chatID int64, text string) (chat.Sent, error) {
	id, err := r.record(Call{Method: "Reply", ChatID: chatID, Text: text})
	if err != nil {
		return chat.Sent{}, err
	}
	return chat.Sent{MessageID: id, Text: text}, nil
}

func (r *Recorder) EditHTML(_ context.Context, chatID int64, messageID int, html string) (chat.Sent, error) {
	id, err := r.record(Call{Method: "EditHTML", ChatID: chatID, MessageID: messageID, Text: html})
	if err != nil {
		return chat.Sent{}, err
	}
	return chat.Sent{MessageID: id, Text: html}, nil
}

func (r *Recorder) Pin(_ context.Context, chatID int64, messageID int, notify bool) error {
	_, err := r.record(Call{Method: "Pin", ChatID: chatID, MessageID: messageID, Notify: notify})
	return err
}

func (r *Recorder) ChatInfo(_ context.Context, chatID int64) (chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return chat.Chat{}, r.Err
	}
	if c, ok := r.Chats[chatID]; ok {
		return c, nil
	}
	return chat.Chat{ID: chatID}, nil
}
