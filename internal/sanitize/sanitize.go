// Package sanitize turns user-entered text into plain text.
package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

// Tags whose content is never user prose
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"iframe": true, "object": true, "embed": true,
}

// MaxLength bounds a single free-text field
const MaxLength = 10 * 1024

// Text strips markup from s, keeping line breaks between blocks and
// collapsing other whitespace. Plain input comes back trimmed.
func Text(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return clip(collapse(s))
	}

	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{
		Type: html.ElementNode,
		Data: "body",
	})
	if err != nil {
		return clip(collapse(s))
	}

	var sb strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "li", "br", "h1", "h2", "h3", "h4", "h5", "h6":
				sb.WriteString("\n")
			}
		}
	}
	for _, n := range nodes {
		extract(n)
	}

	return clip(collapse(sb.String()))
}

// Line is Text folded onto one line, for titles and list items
func Line(s string) string {
	return strings.Join(strings.Fields(Text(s)), " ")
}

// collapse trims each line, joins runs of spaces, and drops blank lines
func collapse(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func clip(s string) string {
	if len(s) <= MaxLength {
		return s
	}
	cut := MaxLength
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
