package sites

import (
	"html"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/laodeai/models"
)

// extractWikiHow lists the bold summary of every step. Pages without
// recognizable steps fall back to readability.
func extractWikiHow(doc *goquery.Document) models.Extraction {
	var steps []string
	doc.Find(".step").Each(func(_ int, s *goquery.Selection) {
		summary := squash(s.Find(".whb").First().Text())
		if summary == "" {
			return
		}
		steps = append(steps, strconv.Itoa(len(steps)+1)+". "+html.EscapeString(summary))
	})
	if len(steps) == 0 {
		return readableText(doc, "https://www.wikihow.com/")
	}

	title := squash(doc.Find("h1").First().Text())
	return models.Text(headline(title, strings.Join(steps, "\n")))
}
