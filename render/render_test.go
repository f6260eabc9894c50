package render

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/laodeai/config"
)

func TestDocument(t *testing.T) {
	doc, err := Document("if a < b {\n\treturn\n}", "")
	require.NoError(t, err)

	assert.Contains(t, doc, "if a &lt; b {\n\treturn\n}")
	assert.NotContains(t, doc, "<footer>")

	doc, err = Document("x", "<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, doc, "<footer>&lt;script&gt;")
}

func TestRender(t *testing.T) {
	if testing.Short() {
		t.Skip("launches a browser")
	}
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("no Chromium available")
	}

	r, err := New(config.RenderConfig{Headless: true, NoSandbox: true, MaxPages: 1, Timeout: 30 * time.Second})
	require.NoError(t, err)
	defer r.Close()

	png, err := r.Render(context.Background(), "package main\n\nfunc main() {}", "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "output is a PNG")
	assert.Equal(t, 0, r.Stats().ActivePages)
	assert.Equal(t, 1, r.Stats().MaxPages)
}

func TestPageLedger(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	l := newPageLedger()
	l.now = func() time.Time { return now }

	worn := &rod.Page{}
	for i := 1; i < maxPageUses; i++ {
		require.False(t, l.used(worn), "use %d", i)
	}
	assert.True(t, l.used(worn), "retired on the last allowed use")
	assert.False(t, l.used(worn), "a retired page starts a fresh record")

	old := &rod.Page{}
	assert.False(t, l.used(old))
	now = now.Add(maxPageAge)
	assert.True(t, l.used(old), "retired by age")

	l.forget(worn)
	assert.Empty(t, l.pages)
}
