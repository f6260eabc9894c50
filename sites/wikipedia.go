package sites

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/laodeai/cleaner"
	"github.com/use-agent/laodeai/models"
)

// wikipediaParagraphs is how many lead paragraphs make up an answer.
const wikipediaParagraphs = 2

// extractWikipedia answers with the article's lead paragraphs.
func extractWikipedia(doc *goquery.Document) models.Extraction {
	var paras []string
	doc.Find("#mw-content-text .mw-parser-output > p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if p.HasClass("mw-empty-elt") {
			return true
		}
		clean := cleaner.Without(p, "sup.reference", "sup.noprint", "style", ".mw-ref")
		if strings.TrimSpace(clean.Text()) == "" {
			return true
		}
		paras = append(paras, strings.TrimSpace(cleaner.InnerHTML(clean)))
		return len(paras) < wikipediaParagraphs
	})
	if len(paras) == 0 {
		return models.Failed()
	}

	title := doc.Find("#firstHeading").First().Text()
	return models.Text(headline(title, strings.Join(paras, "\n\n")))
}
