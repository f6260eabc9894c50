package sites

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/laodeai/cleaner"
	"github.com/use-agent/laodeai/models"
)

// extractUrbanDictionary answers with the top definition and its example.
func extractUrbanDictionary(doc *goquery.Document) models.Extraction {
	def := doc.Find(".definition").First()
	meaning := strings.TrimSpace(cleaner.InnerHTML(def.Find(".meaning").First()))
	if meaning == "" {
		return models.Failed()
	}

	out := headline(squash(def.Find(".word").First().Text()), meaning)
	if example := strings.TrimSpace(cleaner.InnerHTML(def.Find(".example").First())); example != "" {
		out += "\n\n<i>" + example + "</i>"
	}
	return models.Text(out)
}
