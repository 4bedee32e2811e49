package rules

import (
	dowser "github.com/dowser/dowser-go"
)

// Fact is the payload an inward RHS emits for one input fnode.
type Fact struct {
	// Element redirects the fact to another element's fnode. Nil targets
	// the input fnode itself.
	Element dowser.Element

	// Type, when non-empty, is added to the target fnode and becomes the
	// effective type for Score and Note.
	Type string

	// Score multiplies the target's score for the effective type when
	// HasScore is set.
	Score    float64
	HasScore bool

	// Note is attached to the effective type when non-nil.
	Note interface{}

	// Conserve folds the input fnode's score for the LHS type into the
	// target's effective type, ahead of Score.
	Conserve bool
}

// Emissions is the static metadata a rule's planner consults: what types an
// RHS could produce, independent of any particular input.
type Emissions struct {
	// PossibleTypes is the set of types the RHS may emit. Empty means the
	// RHS emits no type of its own and relies on the LHS guarantee.
	PossibleTypes []string

	// ConservesScore is set when the RHS may request score conservation.
	ConservesScore bool

	// HasScore/HasNote report whether the RHS may attach a score or note,
	// used for construction-time inferable-type checks.
	HasScore bool
	HasNote  bool
}

// RHS is the right-hand side of an inward rule.
type RHS interface {
	// fact produces the fact for one input. guaranteed is the single
	// LHS-guaranteed type, or "" when there is none (or more than one).
	fact(in *Fnode, guaranteed string) Fact

	emissions() Emissions
}

// InwardRHS is a composable fact producer built fluently:
//
//	rules.Note(titleText).Typed("titley").Score(40)
//
// Each component is optional; Typed sets the emitted type, Score/ScoreBy a
// multiplicative factor, Note/NoteBy an annotation, AtElement a redirect,
// Conserving score conservation, and By a fully custom fact function (which
// must declare any emitted types with Emitting).
type InwardRHS struct {
	typeName  string
	score     float64
	hasScore  bool
	scoreBy   func(*Fnode) float64
	note      interface{}
	noteBy    func(*Fnode) interface{}
	elementBy func(*Fnode) dowser.Element
	conserve  bool
	factBy    func(*Fnode) Fact
	declared  []string
}

// Typed starts an RHS that adds a type to its matches.
func Typed(t string) *InwardRHS { return &InwardRHS{typeName: t} }

// Score starts an RHS that multiplies a constant into the effective type's
// score.
func Score(factor float64) *InwardRHS { return &InwardRHS{score: factor, hasScore: true} }

// ScoreBy starts an RHS whose score factor is computed per input.
func ScoreBy(f func(*Fnode) float64) *InwardRHS { return &InwardRHS{scoreBy: f} }

// Note starts an RHS that attaches a constant note.
func Note(note interface{}) *InwardRHS { return &InwardRHS{note: note} }

// NoteBy starts an RHS whose note is computed per input; returning nil
// attaches nothing.
func NoteBy(f func(*Fnode) interface{}) *InwardRHS { return &InwardRHS{noteBy: f} }

// By starts a fully custom RHS. The function's facts may set any field;
// declare emitted types with Emitting so the planner can see them.
func By(f func(*Fnode) Fact) *InwardRHS { return &InwardRHS{factBy: f} }

// Typed sets the type the RHS emits.
func (r *InwardRHS) Typed(t string) *InwardRHS { r.typeName = t; return r }

// Score sets a constant score factor.
func (r *InwardRHS) Score(factor float64) *InwardRHS {
	r.score = factor
	r.hasScore = true
	return r
}

// ScoreBy sets a per-input score factor.
func (r *InwardRHS) ScoreBy(f func(*Fnode) float64) *InwardRHS { r.scoreBy = f; return r }

// Note sets a constant note.
func (r *InwardRHS) Note(note interface{}) *InwardRHS { r.note = note; return r }

// NoteBy sets a per-input note function.
func (r *InwardRHS) NoteBy(f func(*Fnode) interface{}) *InwardRHS { r.noteBy = f; return r }

// AtElement redirects facts to another element, e.g. a page-level fnode.
func (r *InwardRHS) AtElement(f func(*Fnode) dowser.Element) *InwardRHS {
	r.elementBy = f
	return r
}

// Conserving folds the input's LHS-type score into the target.
func (r *InwardRHS) Conserving() *InwardRHS { r.conserve = true; return r }

// Emitting declares the types a By fact function may emit.
func (r *InwardRHS) Emitting(types ...string) *InwardRHS {
	r.declared = append(r.declared, types...)
	return r
}

func (r *InwardRHS) fact(in *Fnode, guaranteed string) Fact {
	if r.factBy != nil {
		f := r.factBy(in)
		if r.conserve {
			f.Conserve = true
		}
		return f
	}
	f := Fact{Type: r.typeName, Conserve: r.conserve}
	if r.elementBy != nil {
		f.Element = r.elementBy(in)
	}
	switch {
	case r.scoreBy != nil:
		f.Score = r.scoreBy(in)
		f.HasScore = true
	case r.hasScore:
		f.Score = r.score
		f.HasScore = true
	}
	switch {
	case r.noteBy != nil:
		f.Note = r.noteBy(in)
	case r.note != nil:
		f.Note = r.note
	}
	return f
}

func (r *InwardRHS) emissions() Emissions {
	e := Emissions{
		ConservesScore: r.conserve,
		HasScore:       r.hasScore || r.scoreBy != nil,
		HasNote:        r.note != nil || r.noteBy != nil,
	}
	if r.factBy != nil {
		e.PossibleTypes = append([]string(nil), r.declared...)
		return e
	}
	if r.typeName != "" {
		e.PossibleTypes = []string{r.typeName}
	}
	return e
}

// OutRHS is the sink of an outward rule: a named output with optional
// per-item and whole-sequence callbacks. Outward rules never mutate fnodes
// and may run any number of times.
type OutRHS struct {
	key        string
	through    func(*Fnode) interface{}
	allThrough func([]interface{}) interface{}
}

// Out names an outward sink retrievable with Get(key).
func Out(key string) *OutRHS { return &OutRHS{key: key} }

// Through maps each output fnode before it is returned.
func (o *OutRHS) Through(f func(*Fnode) interface{}) *OutRHS {
	c := *o
	c.through = f
	return &c
}

// AllThrough maps the whole output sequence before it is returned.
func (o *OutRHS) AllThrough(f func([]interface{}) interface{}) *OutRHS {
	c := *o
	c.allThrough = f
	return &c
}

// Key returns the sink's name.
func (o *OutRHS) Key() string { return o.key }
