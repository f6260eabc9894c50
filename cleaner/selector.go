package cleaner

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// InnerHTML renders the children of every node in sel, concatenated. Unlike
// goquery's Html it covers all matched nodes, not just the first.
func InnerHTML(sel *goquery.Selection) string {
	var buf bytes.Buffer
	for _, n := range sel.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return ""
			}
		}
	}
	return buf.String()
}

// FirstText returns the trimmed text of the first element matching m.
func FirstText(sel *goquery.Selection, m goquery.Matcher) string {
	return strings.TrimSpace(sel.FindMatcher(m).First().Text())
}
