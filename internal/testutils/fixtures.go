// Package testutils holds HTML fixture helpers shared by package tests.
package testutils

import (
	"testing"

	dowser "github.com/dowser/dowser-go"
	"github.com/dowser/dowser-go/dom"
)

// MustParse parses an HTML fragment, failing the test on error.
func MustParse(t *testing.T, src string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(src)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

// First returns the first element matching a selector, failing the test when
// nothing matches.
func First(t *testing.T, doc *dom.Document, selector string) dowser.Element {
	t.Helper()
	els := All(t, doc, selector)
	if len(els) == 0 {
		t.Fatalf("no element matches %q", selector)
	}
	return els[0]
}

// All returns every element matching a selector.
func All(t *testing.T, doc *dom.Document, selector string) []dowser.Element {
	t.Helper()
	els, err := doc.QuerySelectorAll(selector)
	if err != nil {
		t.Fatalf("selector %q: %v", selector, err)
	}
	return els
}
