package cleaner

import (
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum TextContent length (in characters) for
// readability output to be considered valid.
const minContentLength = 50

// ReadableText runs the Mozilla Readability algorithm over a copy of doc
// and returns the main article text. ok is false when the page is not an
// article or the text is too short to be an answer. doc is not modified.
func ReadableText(doc *goquery.Document, pageURL string) (string, bool) {
	parsedURL, err := nurl.Parse(pageURL)
	if err != nil || parsedURL.Host == "" {
		return "", false
	}

	raw, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return "", false
	}

	article, err := readability.FromReader(strings.NewReader(raw), parsedURL)
	if err != nil {
		return "", false
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) < minContentLength {
		return "", false
	}
	return text, true
}
