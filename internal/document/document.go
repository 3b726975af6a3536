// Package document exposes a parsed HTML page through a small lookup
// interface so extraction code does not depend on the parser.
package document

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Selector is a compiled CSS selector
type Selector struct {
	raw     string
	matcher cascadia.Selector
}

// Compile parses a CSS selector, including comma separated groups
func Compile(selector string) (Selector, error) {
	if strings.TrimSpace(selector) == "" {
		return Selector{}, fmt.Errorf("empty selector")
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return Selector{}, fmt.Errorf("compile selector %q: %w", selector, err)
	}
	return Selector{raw: selector, matcher: m}, nil
}

func (s Selector) String() string {
	return s.raw
}

// Node is one element of a parsed document
type Node interface {
	// Text returns the combined text of the node and its descendants
	Text() string
	// Attr returns the value of an attribute, if set
	Attr(name string) (string, bool)
	// Find returns the first descendant matching the selector
	Find(sel Selector) (Node, bool)
	// FindAll returns every descendant matching the selector, in document order
	FindAll(sel Selector) []Node
}

// Document is the root of a parsed page
type Document interface {
	Node
}

// Parse builds a Document from raw HTML text
func Parse(html string) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return node{sel: doc.Selection}, nil
}

type node struct {
	sel *goquery.Selection
}

func (n node) Text() string {
	return n.sel.Text()
}

func (n node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n node) Find(s Selector) (Node, bool) {
	if s.matcher == nil {
		return nil, false
	}
	found := n.sel.FindMatcher(s.matcher).First()
	if found.Length() == 0 {
		return nil, false
	}
	return node{sel: found}, true
}

func (n node) FindAll(s Selector) []Node {
	if s.matcher == nil {
		return nil
	}
	var nodes []Node
	n.sel.FindMatcher(s.matcher).Each(func(_ int, sel *goquery.Selection) {
		nodes = append(nodes, node{sel: sel})
	})
	return nodes
}
