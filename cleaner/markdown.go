package cleaner

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// mdConverter is shared by every extraction function; the converter is
// goroutine-safe.
var mdConverter = newMarkdownConverter()

// newMarkdownConverter creates a reusable Converter tuned for text that is
// rendered into an image:
//
//   - base plugin: strips script, style, iframe, noscript and comments.
//   - commonmark plugin: fenced code blocks, lists, emphasis.
//   - table plugin: keeps tabular answers readable in monospace.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// ToMarkdown converts an HTML fragment to Markdown. The domain parameter
// resolves relative links into absolute ones.
func ToMarkdown(htmlContent string, domain string) (string, error) {
	md, err := mdConverter.ConvertString(htmlContent, converter.WithDomain(domain))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}
