package extract

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
)

// Node is an element of a parsed document that can be queried further.
type Node interface {
	// Find returns the descendants of the node matching selector, in
	// document order.
	Find(selector string) []Node

	// Attr returns the value of the named attribute and whether it exists.
	Attr(name string) (string, bool)
}

// Parser turns raw document text into its root Node.
type Parser interface {
	Parse(r io.Reader) (Node, error)
}

// GoqueryParser is a Parser backed by goquery's CSS selector engine.
type GoqueryParser struct{}

// Parse reads an HTML document from r.
func (GoqueryParser) Parse(r io.Reader) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return selectionNode{sel: doc.Selection}, nil
}

type selectionNode struct {
	sel *goquery.Selection
}

func (n selectionNode) Find(selector string) []Node {
	matches := n.sel.Find(selector)
	nodes := make([]Node, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, selectionNode{sel: s})
	})
	return nodes
}

func (n selectionNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}
