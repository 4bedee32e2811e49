// Package dom adapts parsed HTML trees to the engine's Element and Document
// contracts. Parsing is done with golang.org/x/net/html; selector matching
// with andybalholm/cascadia. Each underlying node gets exactly one wrapper,
// so elements from the same document compare equal iff they are the same
// node.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	dowser "github.com/dowser/dowser-go"
)

// Document wraps a parsed HTML tree.
type Document struct {
	root     *html.Node
	wrappers map[*html.Node]*element
	selCache map[string]cascadia.SelectorGroup
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &Document{
		root:     node,
		wrappers: make(map[*html.Node]*element),
		selCache: make(map[string]cascadia.SelectorGroup),
	}, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// Root returns the root element of the document (html for full documents).
func (d *Document) Root() dowser.Element {
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return d.wrap(n)
		}
	}
	return nil
}

// QuerySelectorAll returns the elements matching a CSS selector group, in
// document order. Compiled selectors are cached per document.
func (d *Document) QuerySelectorAll(selector string) ([]dowser.Element, error) {
	sel, ok := d.selCache[selector]
	if !ok {
		compiled, err := cascadia.ParseGroup(selector)
		if err != nil {
			return nil, fmt.Errorf("compiling selector %q: %w", selector, err)
		}
		sel = compiled
		d.selCache[selector] = sel
	}

	var out []dowser.Element
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && sel.Match(n) {
			out = append(out, d.wrap(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return out, nil
}

func (d *Document) wrap(n *html.Node) *element {
	if w, ok := d.wrappers[n]; ok {
		return w
	}
	w := &element{doc: d, node: n}
	d.wrappers[n] = w
	return w
}
