package cleaner

import (
	"html"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// chatTags maps the tags a chat client accepts in HTML parse mode to their
// canonical spelling. Everything else is flattened to text.
var chatTags = map[atom.Atom]string{
	atom.B:          "b",
	atom.Strong:     "b",
	atom.I:          "i",
	atom.Em:         "i",
	atom.U:          "u",
	atom.Ins:        "u",
	atom.S:          "s",
	atom.Strike:     "s",
	atom.Del:        "s",
	atom.A:          "a",
	atom.Code:       "code",
	atom.Pre:        "pre",
	atom.Blockquote: "blockquote",
}

// blockTags end with a line break when flattened.
var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Ul: true, atom.Ol: true, atom.Table: true, atom.Dl: true, atom.Dd: true, atom.Dt: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
}

var headingTags = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

var (
	reBlankRuns  = regexp.MustCompile(`\n{3,}`)
	reLineIndent = regexp.MustCompile(`[ \t\r\f]*\n[ \t\r\f]*`)
	reHSpace     = regexp.MustCompile(`[ \t\r\f]+`)
)

// Sanitize rewrites arbitrary markup into the small HTML subset chat
// clients render: b, i, u, s, a[href], code, pre and blockquote. Other
// elements are flattened to their text, script/style bodies are dropped,
// text is re-escaped and every opened tag is closed.
func Sanitize(markup string) string {
	z := nethtml.NewTokenizer(strings.NewReader(markup))

	var (
		out   strings.Builder
		open  []string
		skip  int
		inPre int
	)

	closeTo := func(tag string) {
		idx := -1
		for i := len(open) - 1; i >= 0; i-- {
			if open[i] == tag {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		for i := len(open) - 1; i >= idx; i-- {
			out.WriteString("</" + open[i] + ">")
		}
		open = open[:idx]
	}

	for {
		tt := z.Next()
		switch tt {
		case nethtml.ErrorToken:
			for i := len(open) - 1; i >= 0; i-- {
				out.WriteString("</" + open[i] + ">")
			}
			return tidy(out.String())

		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Svg:
				if tt == nethtml.StartTagToken {
					skip++
				}
				continue
			case atom.Br:
				out.WriteByte('\n')
				continue
			case atom.Li:
				out.WriteString("\n• ")
				continue
			}
			if skip > 0 {
				continue
			}
			if headingTags[tok.DataAtom] {
				out.WriteString("\n<b>")
				open = append(open, "b")
				continue
			}
			name, ok := chatTags[tok.DataAtom]
			if !ok || tt == nethtml.SelfClosingTagToken {
				continue
			}
			if name == "a" {
				href := attr(tok, "href")
				if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
					continue
				}
				out.WriteString(`<a href="` + html.EscapeString(href) + `">`)
			} else {
				out.WriteString("<" + name + ">")
			}
			if name == "pre" {
				inPre++
			}
			open = append(open, name)

		case nethtml.EndTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Svg:
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 {
				continue
			}
			if headingTags[tok.DataAtom] {
				closeTo("b")
				out.WriteByte('\n')
				continue
			}
			if name, ok := chatTags[tok.DataAtom]; ok {
				closeTo(name)
				if name == "pre" && inPre > 0 {
					inPre--
				}
			}
			if blockTags[tok.DataAtom] {
				out.WriteByte('\n')
			}

		case nethtml.TextToken:
			if skip > 0 {
				continue
			}
			text := string(z.Text())
			if inPre == 0 {
				text = collapseSpaces(text)
			}
			out.WriteString(html.EscapeString(text))
		}
	}
}

func attr(tok nethtml.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// collapseSpaces folds runs of horizontal whitespace outside <pre> into one
// space and drops indentation around line breaks. Line breaks are kept.
func collapseSpaces(s string) string {
	s = reLineIndent.ReplaceAllString(s, "\n")
	return reHSpace.ReplaceAllString(s, " ")
}

// tidy trims trailing spaces per line, collapses blank-line runs and trims
// the whole message.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	s = strings.Join(lines, "\n")
	s = reBlankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
