// Package dowser is a declarative engine for extracting and classifying
// regions of a parsed web page. Rulesets pair structural selectors with
// scoring and annotation actions; binding a ruleset to a document yields a
// query surface that runs the smallest sufficient subset of rules, in
// dependency order, caching intermediate state.
//
// The root package holds only the contracts shared by the subpackages. The
// engine itself lives in the rules package, the document adapter in dom, the
// tree-distance clusterer in cluster, and the offline coefficient tuner in
// optimize.
package dowser

// Element is one element node of a document tree. Implementations must be
// comparable (one identity per underlying node), because the engine keys its
// per-element annotation records by Element.
type Element interface {
	// TagName returns the element's tag name in lower case.
	TagName() string

	// Parent returns the parent element, or nil at the root.
	Parent() Element

	// Children returns the child elements in document order.
	Children() []Element

	// NextSibling returns the following sibling element, or nil.
	NextSibling() Element

	// PrevSibling returns the preceding sibling element, or nil.
	PrevSibling() Element

	// Attr returns the value of the named attribute and whether it is set.
	Attr(name string) (string, bool)

	// TextContent returns the concatenated text of all descendant text
	// nodes.
	TextContent() string
}

// Document is the minimal document shape the engine requires. Any DOM
// implementation satisfying it works.
type Document interface {
	// Root returns the document's root element.
	Root() Element

	// QuerySelectorAll returns the elements matching a CSS selector group,
	// in document order.
	QuerySelectorAll(selector string) ([]Element, error)
}
