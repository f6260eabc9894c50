package cleaner

import (
	"github.com/PuerkitoBio/goquery"
)

// Without returns a detached copy of sel with every element matching one of
// the exclude selectors removed. The source document is left untouched so
// extraction functions stay pure.
func Without(sel *goquery.Selection, exclude ...string) *goquery.Selection {
	clone := sel.Clone()
	for _, selector := range exclude {
		clone.Find(selector).Remove()
	}
	return clone
}
