package sites

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/laodeai/cleaner"
	"github.com/use-agent/laodeai/models"
)

var (
	seQuestionTitle = cascadia.MustCompile("#question-header h1")
	seAccepted      = cascadia.MustCompile(".answer.accepted-answer, .answer.js-accepted-answer")
	seAnswer        = cascadia.MustCompile(".answer")
	sePostBody      = cascadia.MustCompile(".js-post-body, .s-prose")
)

// answerNoise is chrome inside a post body that never belongs in a reply.
var answerNoise = []string{".js-post-menu", ".post-signature", "aside", ".snippet-ctas", "script"}

// bestAnswer returns a cleaned copy of the accepted answer body, or of the
// first answer when none is accepted. Answers are listed highest score
// first, so the first one is the top answer.
func bestAnswer(doc *goquery.Document) *goquery.Selection {
	answer := doc.FindMatcher(seAccepted).First()
	if answer.Length() == 0 {
		answer = doc.FindMatcher(seAnswer).First()
	}
	body := answer.FindMatcher(sePostBody).First()
	if body.Length() == 0 {
		return nil
	}
	return cleaner.Without(body, answerNoise...)
}

// extractStackOverflow renders answers that carry code as an image of the
// answer in markdown. Prose-only answers go out as text.
func extractStackOverflow(doc *goquery.Document) models.Extraction {
	body := bestAnswer(doc)
	if body == nil {
		return models.Failed()
	}
	if body.Find("pre").Length() == 0 {
		return stackExchangeText(doc, body)
	}

	md, err := cleaner.ToMarkdown(cleaner.InnerHTML(body), origin(doc, "https://stackoverflow.com"))
	if err != nil || md == "" {
		return models.Failed()
	}
	return models.Image(md)
}

func extractStackExchange(doc *goquery.Document) models.Extraction {
	body := bestAnswer(doc)
	if body == nil {
		return models.Failed()
	}
	return stackExchangeText(doc, body)
}

func stackExchangeText(doc *goquery.Document, body *goquery.Selection) models.Extraction {
	inner := strings.TrimSpace(cleaner.InnerHTML(body))
	if inner == "" {
		return models.Failed()
	}
	title := cleaner.FirstText(doc.Selection, seQuestionTitle)
	return models.Text(headline(title, inner))
}
