package sites

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"

	"github.com/use-agent/laodeai/cleaner"
	"github.com/use-agent/laodeai/models"
)

// extractKnowYourMeme answers with the "About" paragraph of an entry, or
// the page description when the entry has none.
func extractKnowYourMeme(doc *goquery.Document) models.Extraction {
	title := squash(doc.Find("h1").First().Text())

	about := doc.Find("h2#about").First().NextAllFiltered("p").First()
	if about.Length() > 0 {
		body := strings.TrimSpace(cleaner.InnerHTML(about))
		if body != "" {
			return models.Text(headline(title, body))
		}
	}

	og := openGraph(doc)
	if og == nil {
		return models.Failed()
	}
	if title == "" {
		title = squash(og.Title)
	}
	if desc := strings.TrimSpace(og.Description); desc != "" {
		return models.Text(headline(title, html.EscapeString(desc)))
	}
	return models.Failed()
}

// openGraph reads the page's og: meta tags. It returns nil when the head
// cannot be rendered or parsed.
func openGraph(doc *goquery.Document) *opengraph.OpenGraph {
	head, err := goquery.OuterHtml(doc.Find("head").First())
	if err != nil || head == "" {
		return nil
	}
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(head)); err != nil {
		return nil
	}
	return og
}
