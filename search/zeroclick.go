package search

import (
	"errors"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var errNotAbsolute = errors.New("not an absolute URL")

// ZeroClick is DuckDuckGo's instant answer.
type ZeroClick struct {
	Heading  string
	Abstract string
	Source   string // link to the page the answer came from
}

// OK reports whether the page carried an instant answer.
func (z ZeroClick) OK() bool {
	return z.Abstract != ""
}

// Markup renders the answer as chat HTML.
func (z ZeroClick) Markup() string {
	var b strings.Builder
	if z.Heading != "" {
		b.WriteString("<b>")
		b.WriteString(html.EscapeString(z.Heading))
		b.WriteString("</b>\n\n")
	}
	b.WriteString(html.EscapeString(z.Abstract))
	if z.Source != "" {
		b.WriteString("\n\n")
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(z.Source))
		b.WriteString(`">Source</a>`)
	}
	return b.String()
}

func zeroClick(doc *goquery.Document) ZeroClick {
	result := doc.FindMatcher(selZCIResult).First()
	if result.Length() == 0 {
		return ZeroClick{}
	}

	heading := doc.FindMatcher(selZCIHeading).First()
	zc := ZeroClick{Heading: strings.TrimSpace(heading.Text())}

	if href, ok := heading.Find("a").First().Attr("href"); ok {
		zc.Source = absolute(href)
	}
	if zc.Source == "" {
		if href, ok := result.FindMatcher(selZCIMoreLink).First().Attr("href"); ok {
			zc.Source = absolute(href)
		}
	}

	abstract := result.Clone()
	abstract.FindMatcher(selZCIMoreLink).Remove()
	zc.Abstract = strings.Join(strings.Fields(abstract.Text()), " ")
	return zc
}

// absolute turns a protocol-relative href into an https URL. Other
// relative hrefs are dropped.
func absolute(href string) string {
	switch {
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	}
	return ""
}
