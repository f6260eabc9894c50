package cleaner

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "drops scripts and maps strong",
			in:   `<p>Hello <strong>world</strong></p><script>alert(1)</script>`,
			want: "Hello <b>world</b>",
		},
		{
			name: "closes misnested tags",
			in:   `<b>open <i>nested</b> tail`,
			want: "<b>open <i>nested</i></b> tail",
		},
		{
			name: "keeps only http links",
			in:   `<a href="javascript:x()">bad</a> <a href="https://e.com/?a=1&b=2">ok</a>`,
			want: `bad <a href="https://e.com/?a=1&amp;b=2">ok</a>`,
		},
		{
			name: "escapes text",
			in:   `1 < 2 &amp; 3`,
			want: "1 &lt; 2 &amp; 3",
		},
		{
			name: "preserves pre whitespace",
			in:   "<pre><code>a  b\n  c</code></pre>",
			want: "<pre><code>a  b\n  c</code></pre>",
		},
		{
			name: "headings become bold lines",
			in:   `<h2>Title</h2><p>Body</p>`,
			want: "<b>Title</b>\nBody",
		},
		{
			name: "unknown tags flatten to text",
			in:   `<div><span class="x">plain</span><img src="a.png"> text</div>`,
			want: "plain text",
		},
		{
			name: "collapses blank runs",
			in:   "<p>one</p><br><br><br><p>two</p>",
			want: "one\n\ntwo",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.in))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	in := `<h1>Q</h1><p>Try <code>x &lt; y</code> and <em>see</em>.</p><ul><li>one</li><li>two</li></ul>`
	once := Sanitize(in)
	assert.Equal(t, once, Sanitize(once))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hé", Truncate("héllo", 2))
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, 500, Length(Truncate(strings.Repeat("ü", 800), 500)))
}

func TestTruncateHTML(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantCut bool
	}{
		{
			name:    "plain text keeps exactly the limit",
			in:      strings.Repeat("é", 800),
			want:    strings.Repeat("é", 500),
			wantCut: true,
		},
		{
			name:    "cut inside link text closes the anchor",
			in:      strings.Repeat("x", 498) + `<a href="https://go.dev/doc">docs</a> tail`,
			want:    strings.Repeat("x", 498) + `<a href="https://go.dev/doc">do</a>`,
			wantCut: true,
		},
		{
			name:    "cut inside code closes it",
			in:      strings.Repeat("x", 490) + `<code>fmt.Println(a &amp;&amp; b)</code> tail`,
			want:    strings.Repeat("x", 490) + `<code>fmt.Printl</code>`,
			wantCut: true,
		},
		{
			name:    "entity counts as one character",
			in:      strings.Repeat("x", 497) + `a &amp; b and more`,
			want:    strings.Repeat("x", 497) + `a &amp;`,
			wantCut: true,
		},
		{
			name:    "nested tags close innermost first",
			in:      "<b>bold <i>" + strings.Repeat("w", 600) + "</i></b>",
			want:    "<b>bold <i>" + strings.Repeat("w", 495) + "</i></b>",
			wantCut: true,
		},
		{
			name: "text ending on the limit is kept whole",
			in:   "<b>" + strings.Repeat("k", 500) + "</b>",
			want: "<b>" + strings.Repeat("k", 500) + "</b>",
		},
		{
			name: "short markup untouched",
			in:   `<b>short</b> &lt;answer&gt;`,
			want: `<b>short</b> &lt;answer&gt;`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, cut := TruncateHTML(tc.in, 500)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantCut, cut)
			if cut {
				assert.Equal(t, 500, TextLength(got))
			}
		})
	}
}

func TestTextLength(t *testing.T) {
	assert.Equal(t, 0, TextLength(""))
	assert.Equal(t, 8, TextLength(`<a href="https://e.com/?a=1&amp;b=2">a &amp; b</a> ü&#39;`))
	assert.Equal(t, 3, TextLength("a&b"))
}

func TestLineCount(t *testing.T) {
	assert.Equal(t, 1, LineCount(""))
	assert.Equal(t, 3, LineCount("a\nb\nc"))
	assert.Equal(t, 191, LineCount(strings.Repeat("x\n", 190)))
}

func TestToMarkdown(t *testing.T) {
	md, err := ToMarkdown(`<p>Use <code>go test</code></p><pre><code>go test ./...</code></pre>`, "https://stackoverflow.com")
	require.NoError(t, err)
	assert.Contains(t, md, "`go test`")
	assert.Contains(t, md, "go test ./...")
}

func TestWithout_DoesNotMutateSource(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div id="post"><p>keep</p><div class="ad">drop</div></div>`))
	require.NoError(t, err)

	clean := Without(doc.Find("#post"), ".ad")

	assert.Equal(t, "keep", strings.TrimSpace(clean.Text()))
	assert.Equal(t, 1, doc.Find(".ad").Length(), "source document must be untouched")
}

func TestInnerHTML(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<p class="x"><b>a</b></p><p class="x">b</p>`))
	require.NoError(t, err)
	assert.Equal(t, "<b>a</b>b", InnerHTML(doc.Find("p.x")))
}

func TestReadableText(t *testing.T) {
	para := strings.Repeat("Sourdough starter needs regular feeding with flour and water. ", 20)
	page := `<html><head><title>Starter</title></head><body>
		<nav><a href="/">Home</a></nav>
		<article><h1>How to keep a starter</h1><p>` + para + `</p><p>` + para + `</p></article>
		<footer>copyright</footer></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	before, _ := goquery.OuterHtml(doc.Selection)

	text, ok := ReadableText(doc, "https://www.wikihow.com/Keep-a-Starter")
	require.True(t, ok)
	assert.Contains(t, text, "Sourdough starter needs regular feeding")

	after, _ := goquery.OuterHtml(doc.Selection)
	assert.Equal(t, before, after)

	_, ok = ReadableText(doc, "::not a url")
	assert.False(t, ok)
}
