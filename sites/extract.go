package sites

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/laodeai/cleaner"
	"github.com/use-agent/laodeai/models"
)

// pageURL returns the URL the document was fetched from, or fallback when
// the document was built without one.
func pageURL(doc *goquery.Document, fallback string) string {
	if doc.Url != nil && doc.Url.Host != "" {
		return doc.Url.String()
	}
	return fallback
}

// origin returns scheme://host of the document, used to absolutize links.
func origin(doc *goquery.Document, fallback string) string {
	if doc.Url != nil && doc.Url.Host != "" {
		return doc.Url.Scheme + "://" + doc.Url.Host
	}
	return fallback
}

// headline renders a bold title line followed by body markup.
func headline(title, body string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return body
	}
	return "<b>" + html.EscapeString(title) + "</b>\n\n" + body
}

// squash collapses all whitespace runs in s to single spaces.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// readableImage is the last-resort extraction used by sites whose markup
// changes often.
func readableImage(doc *goquery.Document, fallbackURL string) models.Extraction {
	text, ok := cleaner.ReadableText(doc, pageURL(doc, fallbackURL))
	if !ok {
		return models.Failed()
	}
	return models.Image(text)
}

// readableText is readableImage for sites answered as a message.
func readableText(doc *goquery.Document, fallbackURL string) models.Extraction {
	text, ok := cleaner.ReadableText(doc, pageURL(doc, fallbackURL))
	if !ok {
		return models.Failed()
	}
	return models.Text(html.EscapeString(text))
}
