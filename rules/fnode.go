// Package rules implements the declarative extraction engine: fnode store,
// LHS/RHS values, rule construction, the dependency planner, and the
// executor. A Ruleset is immutable once built; Against binds it to one
// document, and Get answers queries by running the smallest sufficient rule
// subset in dependency order.
package rules

import (
	"sort"

	dowser "github.com/dowser/dowser-go"
)

// scoreAndNote is the per-type annotation slot of an fnode.
type scoreAndNote struct {
	score   float64
	note    interface{}
	noteSet bool
}

// Fnode is the per-element annotation record: the types the element bears,
// with a multiplicative score and an optional note per type. Fnodes are
// created and owned by a BoundRuleset; there is exactly one per element.
type Fnode struct {
	element dowser.Element
	types   map[string]*scoreAndNote
}

func newFnode(el dowser.Element) *Fnode {
	return &Fnode{element: el, types: make(map[string]*scoreAndNote)}
}

// Element returns the element this fnode annotates.
func (f *Fnode) Element() dowser.Element { return f.element }

// HasType reports whether the fnode bears the type.
func (f *Fnode) HasType(t string) bool {
	_, ok := f.types[t]
	return ok
}

// ScoreFor returns the fnode's score for a type, or 0 when the fnode does
// not bear it. A freshly added type scores 1.0.
func (f *Fnode) ScoreFor(t string) float64 {
	if sn, ok := f.types[t]; ok {
		return sn.score
	}
	return 0
}

// NoteFor returns the note attached for a type and whether one is set.
func (f *Fnode) NoteFor(t string) (interface{}, bool) {
	if sn, ok := f.types[t]; ok && sn.noteSet {
		return sn.note, true
	}
	return nil, false
}

// Types returns the types the fnode bears, sorted for determinism.
func (f *Fnode) Types() []string {
	out := make([]string, 0, len(f.types))
	for t := range f.types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// slot returns the annotation slot for a type, creating it (score 1.0) if
// the fnode does not yet bear the type.
func (f *Fnode) slot(t string) *scoreAndNote {
	sn, ok := f.types[t]
	if !ok {
		sn = &scoreAndNote{score: 1.0}
		f.types[t] = sn
	}
	return sn
}

func (f *Fnode) addType(t string) { f.slot(t) }

// multiplyScore folds a factor into the score for a type, adding the type
// first if absent. Multiplication is not idempotent; the executor runs each
// inward rule at most once per bound ruleset, applying one fact per input
// fnode (several inputs redirected to one target each multiply into it).
func (f *Fnode) multiplyScore(t string, factor float64) {
	sn := f.slot(t)
	sn.score *= factor
}

// setNote attaches a note for a type. A note set to a non-nil value may not
// be replaced by another non-nil value; a nil incoming note is a no-op.
func (f *Fnode) setNote(t string, note interface{}) error {
	if note == nil {
		return nil
	}
	sn := f.slot(t)
	if sn.noteSet {
		return dowser.NewError(dowser.KindNoteOverwrite,
			"note for type %q already set on <%s>", t, f.element.TagName())
	}
	sn.note = note
	sn.noteSet = true
	return nil
}
