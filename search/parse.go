package search

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

var (
	selWebResult   = cascadia.MustCompile(".web-result")
	selResultLink  = cascadia.MustCompile(".result__title > a")
	selNoResults   = cascadia.MustCompile(".no-results")
	selZCIHeading  = cascadia.MustCompile(".zci__heading")
	selZCIResult   = cascadia.MustCompile(".zci__result")
	selZCIMoreLink = cascadia.MustCompile(".zci__more-at")
)

// Result is one organic search result.
type Result struct {
	Title string
	URL   *url.URL
}

// Page is a parsed results page.
type Page struct {
	// ZeroClick is the instant answer box; it wins over Results.
	ZeroClick ZeroClick

	// Results are the organic results with usable links, in page order.
	Results []Result

	// NoResults is set when the engine reported nothing for the query.
	NoResults bool
}

// Links returns the result URLs in page order.
func (p *Page) Links() []*url.URL {
	links := make([]*url.URL, 0, len(p.Results))
	for _, r := range p.Results {
		links = append(links, r.URL)
	}
	return links
}

// Parse reads a DuckDuckGo HTML results page.
func Parse(raw string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return ParseDocument(doc), nil
}

// ParseDocument is Parse for an already parsed page.
func ParseDocument(doc *goquery.Document) *Page {
	page := &Page{ZeroClick: zeroClick(doc)}
	if page.ZeroClick.OK() {
		return page
	}

	sources := doc.FindMatcher(selWebResult)
	if sources.Length() == 0 ||
		(sources.Length() == 1 && sources.FindMatcher(selNoResults).Length() > 0) {
		page.NoResults = true
		return page
	}

	sources.Each(func(_ int, s *goquery.Selection) {
		a := s.FindMatcher(selResultLink).First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		u, err := CleanURL(href)
		if err != nil {
			return
		}
		page.Results = append(page.Results, Result{
			Title: strings.TrimSpace(a.Text()),
			URL:   u,
		})
	})
	return page
}

// CleanURL unwraps a result link. DuckDuckGo wraps targets in a redirect
// like //duckduckgo.com/l/?uddg=<percent-encoded target>&rut=...; the
// target is extracted and decoded. Links that do not resolve to an
// absolute URL are rejected.
func CleanURL(href string) (*url.URL, error) {
	target := href
	if i := strings.Index(href, "uddg="); i >= 0 {
		target = href[i+len("uddg="):]
		if amp := strings.IndexByte(target, '&'); amp >= 0 {
			target = target[:amp]
		}
	}

	decoded, err := url.PathUnescape(target)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(decoded, "//") {
		decoded = "https:" + decoded
	}

	u, err := url.Parse(decoded)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &url.Error{Op: "parse", URL: decoded, Err: errNotAbsolute}
	}
	return u, nil
}
