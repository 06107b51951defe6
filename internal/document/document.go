// Package document wraps fetched HTML in a queryable tree.
//
// Every query is total: a document that failed to parse behaves like an
// empty page and returns empty results instead of errors.
package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type Document struct {
	doc *goquery.Document
}

// Node is a single element of a Document. The zero Node is empty.
type Node struct {
	sel *goquery.Selection
}

// Load parses raw HTML. It never fails.
func Load(raw string) *Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return &Document{doc: doc}
}

// Title returns the trimmed text of the first <title> element. Later ones,
// such as <title> inside inline SVG icons, are ignored.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// Anchors returns every <a> element in document order.
func (d *Document) Anchors() []Node {
	return nodes(d.doc.Find("a"))
}

func nodes(sel *goquery.Selection) []Node {
	out := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, Node{sel: s})
	})
	return out
}

// Empty reports whether the node refers to nothing.
func (n Node) Empty() bool {
	return n.sel == nil || n.sel.Length() == 0
}

// Text returns the node's combined text, trimmed.
func (n Node) Text() string {
	return strings.TrimSpace(n.RawText())
}

// RawText returns the node's combined text with inner newlines intact.
func (n Node) RawText() string {
	if n.Empty() {
		return ""
	}
	return n.sel.Text()
}

// Attr returns the named attribute, or "" when absent.
func (n Node) Attr(name string) string {
	if n.Empty() {
		return ""
	}
	v, _ := n.sel.Attr(name)
	return v
}

// Closest returns the nearest ancestor-or-self matching tag, or an empty Node.
func (n Node) Closest(tag string) Node {
	if n.Empty() {
		return Node{}
	}
	return Node{sel: n.sel.Closest(tag)}
}

// Children returns the direct element children in order.
func (n Node) Children() []Node {
	if n.Empty() {
		return nil
	}
	return nodes(n.sel.Children())
}

// Tag returns the lower-case element name.
func (n Node) Tag() string {
	if n.Empty() {
		return ""
	}
	return goquery.NodeName(n.sel)
}
