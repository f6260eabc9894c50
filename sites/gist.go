package sites

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/laodeai/models"
)

// extractGist renders the first file of a gist as an image.
func extractGist(doc *goquery.Document) models.Extraction {
	file := doc.Find(".file").First()
	if file.Length() == 0 {
		return models.Failed()
	}

	var lines []string
	file.Find(".blob-code-inner").Each(func(_ int, s *goquery.Selection) {
		lines = append(lines, strings.TrimRight(s.Text(), "\r\n"))
	})
	code := strings.Join(lines, "\n")
	if strings.TrimSpace(code) == "" {
		return models.Failed()
	}
	return models.Image(code)
}
