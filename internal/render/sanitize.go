package render

import (
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// summaryTags are the only elements kept from upstream summaries; attributes are always dropped.
var summaryTags = map[atom.Atom]bool{
	atom.P:      true,
	atom.B:      true,
	atom.I:      true,
	atom.Em:     true,
	atom.Strong: true,
	atom.Br:     true,
}

// skippedTags are dropped together with their content.
var skippedTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

// SanitizeSummary reduces upstream summary markup to a small set of inline
// formatting tags. Text is escaped and unclosed tags are closed.
func SanitizeSummary(markup string) template.HTML {
	var (
		b    strings.Builder
		open []atom.Atom
		skip int
	)

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			for i := len(open) - 1; i >= 0; i-- {
				b.WriteString("</" + open[i].String() + ">")
			}
			return template.HTML(b.String())

		case html.TextToken:
			if skip == 0 {
				b.WriteString(html.EscapeString(string(z.Text())))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if skippedTags[tok.DataAtom] {
				skip++
				continue
			}
			if skip > 0 || !summaryTags[tok.DataAtom] {
				continue
			}
			b.WriteString("<" + tok.DataAtom.String() + ">")
			if tok.DataAtom != atom.Br {
				open = append(open, tok.DataAtom)
			}

		case html.EndTagToken:
			tok := z.Token()
			if skippedTags[tok.DataAtom] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 || !summaryTags[tok.DataAtom] {
				continue
			}
			for i := len(open) - 1; i >= 0; i-- {
				if open[i] != tok.DataAtom {
					continue
				}
				for j := len(open) - 1; j >= i; j-- {
					b.WriteString("</" + open[j].String() + ">")
				}
				open = open[:i]
				break
			}
		}
	}
}
