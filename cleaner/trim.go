package cleaner

import (
	"strings"
	"unicode/utf8"

	nethtml "golang.org/x/net/html"
)

// Truncate returns the first limit characters of plain text s. Length is
// counted in runes so multi-byte text is never split mid-character.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

// TruncateHTML keeps the first limit characters of text in markup produced
// by Sanitize. Tags do not count and an entity counts as one character.
// The cut never lands inside a tag or an entity, and tags still open at the
// cut are closed. It reports whether anything was dropped.
func TruncateHTML(markup string, limit int) (string, bool) {
	if limit < 0 {
		limit = 0
	}
	z := nethtml.NewTokenizer(strings.NewReader(markup))

	var (
		out  strings.Builder
		open []string
		n    int
	)

	cut := func() string {
		for i := len(open) - 1; i >= 0; i-- {
			out.WriteString("</" + open[i] + ">")
		}
		return out.String()
	}

	for {
		tt := z.Next()
		switch tt {
		case nethtml.ErrorToken:
			return markup, false

		case nethtml.StartTagToken:
			out.Write(z.Raw())
			name, _ := z.TagName()
			open = append(open, string(name))

		case nethtml.EndTagToken:
			out.Write(z.Raw())
			name, _ := z.TagName()
			for i := len(open) - 1; i >= 0; i-- {
				if open[i] == string(name) {
					open = append(open[:i], open[i+1:]...)
					break
				}
			}

		case nethtml.TextToken:
			raw := z.Raw()
			for i := 0; i < len(raw); {
				if n == limit {
					return cut(), true
				}
				w := charWidth(raw[i:])
				out.Write(raw[i : i+w])
				i += w
				n++
			}

		default:
			out.Write(z.Raw())
		}
	}
}

// charWidth is the byte length of the character at the start of b: a
// whole entity reference, or one UTF-8 rune.
func charWidth(b []byte) int {
	if b[0] == '&' {
		for j := 1; j < len(b) && j <= 32; j++ {
			c := b[j]
			if c == ';' {
				if j > 1 {
					return j + 1
				}
				break
			}
			if !(c == '#' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
				break
			}
		}
		return 1
	}
	_, w := utf8.DecodeRune(b)
	return w
}

// TextLength counts the characters of text in sanitized markup, as
// TruncateHTML does.
func TextLength(markup string) int {
	z := nethtml.NewTokenizer(strings.NewReader(markup))
	n := 0
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return n
		case nethtml.TextToken:
			raw := z.Raw()
			for i := 0; i < len(raw); n++ {
				i += charWidth(raw[i:])
			}
		}
	}
}

// Length is the character count used by every plain-text limit in this
// package.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// LineCount returns the number of newline-separated lines in s.
func LineCount(s string) int {
	return strings.Count(s, "\n") + 1
}
