package dom

import (
	"strings"

	"golang.org/x/net/html"

	dowser "github.com/dowser/dowser-go"
)

// element is the sole Element implementation. Identity is per underlying
// node; the owning Document guarantees one wrapper per node.
type element struct {
	doc  *Document
	node *html.Node
}

func (e *element) TagName() string { return e.node.Data }

func (e *element) Parent() dowser.Element {
	// Above the root element sit only document-level nodes.
	if p := e.node.Parent; p != nil && p.Type == html.ElementNode {
		return e.doc.wrap(p)
	}
	return nil
}

func (e *element) Children() []dowser.Element {
	var out []dowser.Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

func (e *element) NextSibling() dowser.Element {
	for s := e.node.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return e.doc.wrap(s)
		}
	}
	return nil
}

func (e *element) PrevSibling() dowser.Element {
	for s := e.node.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return e.doc.wrap(s)
		}
	}
	return nil
}

func (e *element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *element) TextContent() string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return b.String()
}
