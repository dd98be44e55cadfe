// Package goquery implements harvest.Normalizer on top of goquery and the
// golang.org/x/net/html parse tree.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Normalizer implements harvest.Normalizer at compile time.
var _ harvest.Normalizer = (*Normalizer)(nil)

// rosterHeading matches headings that introduce a leadership section.
var rosterHeading = regexp.MustCompile(`(?i)leadership|team|staff|board`)

// Normalizer flattens HTML into visible text, mailto addresses and
// leadership roster lines.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize parses rawHTML leniently. Malformed markup never fails; the
// parser repairs it the way browsers do.
func (n *Normalizer) Normalize(url, rawHTML string) (*harvest.Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "failed to parse HTML: %v", err)
	}

	return &harvest.Page{
		URL:    url,
		Text:   visibleText(doc),
		Mailto: mailtoAddresses(doc),
		Roster: rosterLines(doc),
	}, nil
}

// visibleText joins every text node that a browser would render, in
// document order. Entities are decoded, so the result is plain text rather
// than HTML: normalizing it again only reproduces it when it contains no
// markup-like characters ("a &lt;b c" yields "a <b c", which reparses to "a").
func visibleText(doc *goquery.Document) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			if s := collapse(node.Data); s != "" {
				parts = append(parts, s)
			}
			return
		case html.ElementNode:
			if hidden(node) {
				return
			}
		case html.CommentNode, html.DoctypeNode:
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range doc.Nodes {
		walk(node)
	}
	return strings.Join(parts, " ")
}

func hidden(node *html.Node) bool {
	switch node.DataAtom {
	case atom.Script, atom.Style, atom.Template, atom.Noscript:
		return true
	}
	return false
}

// mailtoAddresses returns the address of every mailto anchor. Duplicates
// are kept so callers see document order unchanged.
func mailtoAddresses(doc *goquery.Document) []string {
	var out []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if len(href) < len("mailto:") || !strings.EqualFold(href[:len("mailto:")], "mailto:") {
			return
		}
		addr := href[len("mailto:"):]
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	})
	return out
}

// rosterLines collects candidate name lines from the section introduced by
// the first leadership heading: the heading's next sibling element, or its
// parent when the heading is the last child.
func rosterLines(doc *goquery.Document) []string {
	heading := doc.Find("h1, h2, h3, h4").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return rosterHeading.MatchString(s.Text())
	}).First()
	if heading.Length() == 0 {
		return nil
	}

	section := heading.Next()
	if section.Length() == 0 {
		section = heading.Parent()
	}

	var lines []string
	section.Find("li, p, h3").Each(func(_ int, s *goquery.Selection) {
		if line := collapse(s.Text()); line != "" {
			lines = append(lines, line)
		}
	})
	return lines
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
