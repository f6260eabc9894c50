package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/laodeai/answer"
	"github.com/use-agent/laodeai/api/handler"
	"github.com/use-agent/laodeai/cache"
	"github.com/use-agent/laodeai/config"
	"github.com/use-agent/laodeai/models"
)

type fakeResolver struct {
	mu      sync.Mutex
	out     answer.Outcome
	queries []string
}

func (f *fakeResolver) Resolve(_ context.Context, query string) answer.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.out
}

type fakeStats struct{ stats models.RenderStats }

func (f fakeStats) Stats() models.RenderStats { return f.stats }

type fakeUpdates struct {
	mu      sync.Mutex
	updates []tgbotapi.Update
}

func (f *fakeUpdates) Dispatch(_ context.Context, u tgbotapi.Update) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, u)
}

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Server.Mode = gin.TestMode
	cfg.Auth.Enabled = true
	cfg.Auth.APIKeys = []string{"secret"}
	cfg.RateLimit.RequestsPerSecond = 100
	cfg.RateLimit.Burst = 100
	cfg.Telegram.WebhookSecret = "hook"
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config, res *fakeResolver, upd *fakeUpdates) *gin.Engine {
	t.Helper()
	rc, err := cache.NewResponses(10)
	require.NoError(t, err)
	deps := Deps{
		Answers:   res,
		Responses: rc,
		Render:    fakeStats{models.RenderStats{MaxPages: 4, ActivePages: 4}},
		Sites:     45,
	}
	if upd != nil {
		deps.Updates = upd
	}
	return NewRouter(cfg, deps, time.Now())
}

func postAnswer(r http.Handler, body, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/answer", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) models.AnswerResponse {
	t.Helper()
	var resp models.AnswerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, testConfig(), &fakeResolver{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, 45, resp.Sites)
	assert.Equal(t, 4, resp.RenderStats.MaxPages)
}

func TestAnswer_Auth(t *testing.T) {
	r := newTestRouter(t, testConfig(), &fakeResolver{}, nil)

	w := postAnswer(r, `{"query":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrCodeUnauthorized, decode(t, w).Error.Code)

	w = postAnswer(r, `{"query":"x"}`, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/answer", strings.NewReader(`{"query":"x"}`))
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, http.StatusUnauthorized, w.Code)
}

func TestAnswer_NoKeysConfiguredIsOpen(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.APIKeys = nil
	res := &fakeResolver{out: answer.Outcome{Extraction: models.Text("ok")}}
	r := newTestRouter(t, cfg, res, nil)

	w := postAnswer(r, `{"query":"x"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w).Content)
}

func TestAnswer_InvalidInput(t *testing.T) {
	r := newTestRouter(t, testConfig(), &fakeResolver{}, nil)

	for _, body := range []string{`{}`, `not json`, `{"query":"   "}`, `{"query":"x","max_age_ms":-1}`} {
		w := postAnswer(r, body, "secret")
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, models.ErrCodeInvalidInput, decode(t, w).Error.Code, body)
	}
}

func TestAnswer_TextTruncated(t *testing.T) {
	res := &fakeResolver{out: answer.Outcome{Extraction: models.Extraction{
		Kind:    models.KindText,
		URL:     "https://superuser.com/q/1",
		Content: strings.Repeat("a", 700),
	}}}
	r := newTestRouter(t, testConfig(), res, nil)

	w := postAnswer(r, `{"query":"  long  "}`, "secret")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "text", resp.Kind)
	assert.Equal(t, strings.Repeat("a", 500)+"...\n\nSee more on: https://superuser.com/q/1", resp.Content)
	assert.Equal(t, []string{"long"}, res.queries)

	w = postAnswer(r, `{"query":"long","truncate":false}`, "secret")
	assert.Equal(t, strings.Repeat("a", 700), decode(t, w).Content)
}

func TestShape_TruncationKeepsMarkup(t *testing.T) {
	src := "https://unix.stackexchange.com/q/9"
	suffix := "...\n\nSee more on: " + src

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "limit inside a link",
			content: strings.Repeat("x", 498) + `<a href="https://go.dev/doc">docs</a> tail`,
			want:    strings.Repeat("x", 498) + `<a href="https://go.dev/doc">do</a>` + suffix,
		},
		{
			name:    "limit inside code",
			content: strings.Repeat("x", 490) + `<code>fmt.Println(a &amp;&amp; b)</code> tail`,
			want:    strings.Repeat("x", 490) + `<code>fmt.Printl</code>` + suffix,
		},
		{
			name:    "limit on an entity",
			content: strings.Repeat("x", 497) + "a &amp; b and more",
			want:    strings.Repeat("x", 497) + "a &amp;" + suffix,
		},
		{
			name:    "text only",
			content: strings.Repeat("é", 800),
			want:    strings.Repeat("é", 500) + suffix,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := answer.Outcome{Extraction: models.Extraction{Kind: models.KindText, URL: src, Content: tc.content}}
			assert.Equal(t, tc.want, handler.Shape(out, true).Content)
		})
	}
}

func TestShape_ZeroClickUntrimmed(t *testing.T) {
	long := strings.Repeat("z", 700)
	out := answer.Outcome{ZeroClick: true, Extraction: models.Extraction{Kind: models.KindText, URL: "https://en.wikipedia.org/wiki/Z", Content: long}}
	assert.Equal(t, long, handler.Shape(out, true).Content)
}

func TestAnswer_ImageContentIsRaw(t *testing.T) {
	code := "func main() {\n\tif a < b {}\n}"
	res := &fakeResolver{out: answer.Outcome{Extraction: models.Extraction{
		Kind: models.KindImage, URL: "https://gist.github.com/x/1", Content: code,
	}}}
	r := newTestRouter(t, testConfig(), res, nil)

	resp := decode(t, postAnswer(r, `{"query":"gist"}`, "secret"))
	assert.Equal(t, "image", resp.Kind)
	assert.Equal(t, code, resp.Content)
	assert.Equal(t, "https://gist.github.com/x/1", resp.Source)
}

func TestAnswer_ErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{models.ErrNoResults, http.StatusNotFound},
		{models.ErrNoValidSource, http.StatusNotFound},
		{models.ErrExtractionExhausted, http.StatusBadGateway},
		{models.ErrSearchUnavailable, http.StatusServiceUnavailable},
		{models.NewAnswerError(models.ErrCodeInternal, "boom", nil), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		res := &fakeResolver{out: answer.Outcome{Extraction: models.Failed(), Err: tc.err}}
		r := newTestRouter(t, testConfig(), res, nil)

		w := postAnswer(r, `{"query":"x"}`, "secret")
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		resp := decode(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, tc.err.(*models.AnswerError).Code, resp.Error.Code)
	}
}

func TestAnswer_Cache(t *testing.T) {
	res := &fakeResolver{out: answer.Outcome{Extraction: models.Extraction{
		Kind: models.KindText, URL: "https://askubuntu.com/q/2", Content: "short",
	}}}
	r := newTestRouter(t, testConfig(), res, nil)

	first := decode(t, postAnswer(r, `{"query":"q","max_age_ms":60000}`, "secret"))
	assert.Equal(t, "miss", first.CacheStatus)

	second := decode(t, postAnswer(r, `{"query":"q","max_age_ms":60000}`, "secret"))
	assert.Equal(t, "hit", second.CacheStatus)
	assert.Equal(t, "short", second.Content)

	third := decode(t, postAnswer(r, `{"query":"q"}`, "secret"))
	assert.Empty(t, third.CacheStatus)
	assert.Len(t, res.queries, 2)
}

func TestAnswer_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 1
	res := &fakeResolver{out: answer.Outcome{Extraction: models.Text("ok")}}
	r := newTestRouter(t, cfg, res, nil)

	assert.Equal(t, http.StatusOK, postAnswer(r, `{"query":"a"}`, "secret").Code)
	w := postAnswer(r, `{"query":"a"}`, "secret")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, models.ErrCodeRateLimited, decode(t, w).Error.Code)
}

func TestWebhook(t *testing.T) {
	upd := &fakeUpdates{}
	r := newTestRouter(t, testConfig(), &fakeResolver{}, upd)
	body, err := json.Marshal(tgbotapi.Update{UpdateID: 7, Message: &tgbotapi.Message{Text: "/laodeai hi"}})
	require.NoError(t, err)

	send := func(secret string, payload []byte) int {
		req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		if secret != "" {
			req.Header.Set("X-Telegram-Bot-Api-Secret-Token", secret)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send("", body))
	assert.Equal(t, http.StatusUnauthorized, send("nope", body))
	assert.Equal(t, http.StatusBadRequest, send("hook", []byte("{")))
	assert.Equal(t, http.StatusOK, send("hook", body))

	require.Len(t, upd.updates, 1)
	assert.Equal(t, 7, upd.updates[0].UpdateID)
	assert.Equal(t, "/laodeai hi", upd.updates[0].Message.Text)
}

func TestWebhook_OffWithoutDispatcher(t *testing.T) {
	r := newTestRouter(t, testConfig(), &fakeResolver{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader("{}")))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
