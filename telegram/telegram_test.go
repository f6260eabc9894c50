package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/laodeai/chat"
	"github.com/use-agent/laodeai/poll"
)

type recordedAnswer struct {
	origin chat.Origin
	query  string
}

type fakeAnswers struct {
	mu    sync.Mutex
	calls []recordedAnswer
}

func (f *fakeAnswers) Handle(_ context.Context, origin chat.Origin, query string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedAnswer{origin, query})
	return nil
}

type fakePolls struct {
	home    int64
	records []poll.Poll
	err     error
}

func (f *fakePolls) Applies(c chat.Chat) bool {
	return c.ID == f.home && c.Type == chat.TypeSupergroup
}

func (f *fakePolls) Record(_ context.Context, _ chat.Origin, p poll.Poll, _ int) error {
	f.records = append(f.records, p)
	return f.err
}

func commandUpdate(text string, chatID int64, chatType string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmdLen = i
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 9,
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		Chat:      &tgbotapi.Chat{ID: chatID, Type: chatType, Title: "Gophers"},
		From:      &tgbotapi.User{ID: 7, UserName: "ana"},
	}}
}

func TestRouter_Command(t *testing.T) {
	answers := &fakeAnswers{}
	r := NewRouter("laodeai", "laodeai_bot", answers, nil)

	r.Route(context.Background(), commandUpdate("/laodeai reverse a slice", 42, "group"))
	r.Route(context.Background(), commandUpdate("/laodeai@laodeai_bot map vs slice", 42, "group"))
	r.Route(context.Background(), commandUpdate("/laodeai@other_bot ignored", 42, "group"))
	r.Route(context.Background(), commandUpdate("/start", 42, "group"))
	r.Route(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{Text: "plain", Chat: &tgbotapi.Chat{ID: 42}}})
	r.Route(context.Background(), tgbotapi.Update{})

	require.Len(t, answers.calls, 2)
	assert.Equal(t, "reverse a slice", answers.calls[0].query)
	assert.Equal(t, "map vs slice", answers.calls[1].query)

	o := answers.calls[0].origin
	assert.Equal(t, int64(42), o.Chat.ID)
	assert.Equal(t, "Gophers", o.Chat.Title)
	assert.Equal(t, int64(7), o.UserID)
	assert.Equal(t, "ana", o.Username)
	assert.Equal(t, 9, o.MessageID)
}

func TestRouter_Poll(t *testing.T) {
	answers := &fakeAnswers{}
	polls := &fakePolls{home: -100}
	r := NewRouter("laodeai", "", answers, polls)

	pollMsg := func(chatID int64, chatType string) tgbotapi.Update {
		return tgbotapi.Update{Message: &tgbotapi.Message{
			MessageID: 3,
			Chat:      &tgbotapi.Chat{ID: chatID, Type: chatType},
			Poll:      &tgbotapi.Poll{Question: "Tabs?", Type: "regular"},
		}}
	}

	r.Route(context.Background(), pollMsg(-100, "supergroup"))
	r.Route(context.Background(), pollMsg(-100, "group"))
	r.Route(context.Background(), pollMsg(-200, "supergroup"))

	require.Len(t, polls.records, 1)
	assert.Equal(t, poll.Poll{Question: "Tabs?", Type: "regular"}, polls.records[0])
	assert.Empty(t, answers.calls)

	polls.err = errors.New("store down")
	r.Route(context.Background(), pollMsg(-100, "supergroup"))
	assert.Len(t, polls.records, 2, "errors are logged, not propagated")
}

func TestDispatcher_Wait(t *testing.T) {
	answers := &fakeAnswers{}
	d := NewDispatcher(NewRouter("laodeai", "", answers, nil), 0)

	for i := 0; i < 5; i++ {
		d.Dispatch(context.Background(), commandUpdate("/laodeai q", 1, "private"))
	}
	d.Wait()

	assert.Len(t, answers.calls, 5)
}

type slowAnswers struct {
	mu       sync.Mutex
	inFlight int
	peak     int
	calls    int
}

func (s *slowAnswers) Handle(context.Context, chat.Origin, string) error {
	s.mu.Lock()
	s.inFlight++
	s.calls++
	if s.inFlight > s.peak {
		s.peak = s.inFlight
	}
	s.mu.Unlock()

	time.Sleep(20 * time.Millisecond)

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
	return nil
}

func TestDispatcher_Limit(t *testing.T) {
	answers := &slowAnswers{}
	d := NewDispatcher(NewRouter("laodeai", "", answers, nil), 2)

	for i := 0; i < 6; i++ {
		d.Dispatch(context.Background(), commandUpdate("/laodeai q", 1, "private"))
	}
	d.Wait()

	assert.Equal(t, 6, answers.calls)
	assert.LessOrEqual(t, answers.peak, 2)
}

func TestCommands(t *testing.T) {
	cmds := Commands("laodeai")
	require.Len(t, cmds, 1)
	assert.Equal(t, "laodeai", cmds[0].Command)
	assert.Equal(t, "Cari di StackOverFlow", cmds[0].Description)
}

// fakeBotAPI serves the Bot API methods the Sender uses.
func fakeBotAPI(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndexByte(r.URL.Path, '/')+1:]
		mu.Lock()
		methods = append(methods, method)
		mu.Unlock()

		var result any
		switch method {
		case "getMe":
			result = map[string]any{"id": 1, "is_bot": true, "first_name": "Laode", "username": "laodeai_bot"}
		case "sendMessage", "editMessageText":
			_ = r.ParseForm()
			result = map[string]any{
				"message_id": 55, "date": 0,
				"chat": map[string]any{"id": 42, "type": "group"},
				"text": r.Form.Get("text"),
			}
		case "sendPhoto":
			_ = r.ParseMultipartForm(1 << 20)
			result = map[string]any{
				"message_id": 56, "date": 0,
				"chat":    map[string]any{"id": 42, "type": "group"},
				"caption": r.FormValue("caption"),
			}
		case "pinChatMessage":
			result = true
		case "getChat":
			result = map[string]any{"id": -100, "type": "supergroup", "title": "Gophers", "username": "gophers_id"}
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error_code": 404, "description": "Not Found"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
	}))
	t.Cleanup(srv.Close)
	return srv, &methods
}

func TestSender(t *testing.T) {
	srv, methods := fakeBotAPI(t)
	bot, err := tgbotapi.NewBotAPIWithClient("123:abc", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)
	assert.Equal(t, "laodeai_bot", bot.Self.UserName)

	s := NewSender(bot)
	ctx := context.Background()

	sent, err := s.SendHTML(ctx, 42, "<b>hi</b>")
	require.NoError(t, err)
	assert.Equal(t, 55, sent.MessageID)
	assert.Equal(t, "<b>hi</b>", sent.Text)

	sent, err = s.SendPhoto(ctx, 42, []byte("\x89PNG"), "Read more on: x")
	require.NoError(t, err)
	assert.Equal(t, 56, sent.MessageID)
	assert.Equal(t, "Read more on: x", sent.Caption)

	_, err = s.Reply(ctx, 42, "sorry")
	require.NoError(t, err)
	_, err = s.EditHTML(ctx, 42, 55, "edited")
	require.NoError(t, err)
	require.NoError(t, s.Pin(ctx, 42, 55, true))

	info, err := s.ChatInfo(ctx, -100)
	require.NoError(t, err)
	assert.Equal(t, chat.Chat{ID: -100, Type: "supergroup", Title: "Gophers", Username: "gophers_id"}, info)

	assert.Equal(t, []string{"getMe", "sendMessage", "sendPhoto", "sendMessage", "editMessageText", "pinChatMessage", "getChat"}, *methods)
}

func TestSender_CancelledContext(t *testing.T) {
	srv, methods := fakeBotAPI(t)
	bot, err := tgbotapi.NewBotAPIWithClient("123:abc", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewSender(bot).SendHTML(ctx, 42, "x")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"getMe"}, *methods)
}
