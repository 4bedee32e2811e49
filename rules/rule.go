package rules

import (
	"fmt"

	dowser "github.com/dowser/dowser-go"
)

// Rule pairs an LHS with either an inward RHS (facts merged back into the
// fnode store) or an outward sink. Rules are immutable after construction;
// all structural validation happens here, before a ruleset ever binds.
type Rule struct {
	lhs LHS
	rhs RHS     // inward rules only
	out *OutRHS // outward rules only

	index int // insertion order within the ruleset; plan tie-break

	guaranteed    []string
	guaranteedOne string // set when exactly one type is guaranteed
	couldEmit     []string
	couldAdd      []string
	finalized     []string
}

// NewRule builds an inward rule.
func NewRule(lhs LHS, rhs RHS) (*Rule, error) {
	r := &Rule{lhs: lhs, rhs: rhs, index: -1}
	if err := r.analyze(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewOutRule builds an outward rule publishing to a named sink.
func NewOutRule(lhs LHS, out *OutRHS) (*Rule, error) {
	r := &Rule{lhs: lhs, out: out, index: -1}
	if err := r.analyze(); err != nil {
		return nil, err
	}
	return r, nil
}

// Inward reports whether the rule merges facts into the fnode store.
func (r *Rule) Inward() bool { return r.out == nil }

// LHS returns the rule's left-hand side.
func (r *Rule) LHS() LHS { return r.lhs }

func (r *Rule) String() string {
	if r.out != nil {
		return fmt.Sprintf("rule %s -> out(%q)", r.lhs.describe(), r.out.key)
	}
	return fmt.Sprintf("rule %s -> %v", r.lhs.describe(), r.couldEmit)
}

// analyze validates the rule and computes the static metadata the planner
// uses: guaranteed/emitted/added/finalized type sets.
func (r *Rule) analyze() error {
	if and, ok := r.lhs.(*andLHS); ok {
		for _, part := range and.parts {
			if _, plain := part.(*typeLHS); !plain {
				return dowser.NewError(dowser.KindUnsupportedAnd,
					"and() supports only plain type arguments, got %s", part.describe())
			}
		}
	}

	r.guaranteed = dedupe(r.lhs.guaranteedTypes())
	if len(r.guaranteed) == 1 {
		r.guaranteedOne = r.guaranteed[0]
	}

	if r.out != nil {
		// Outward results leave the system, so every mentioned type's
		// scores must be complete first.
		r.finalized = dedupe(r.lhs.mentionedTypes())
		return nil
	}

	em := r.rhs.emissions()
	guaranteed := toSet(r.guaranteed)

	if em.ConservesScore && r.guaranteedOne == "" {
		return dowser.NewError(dowser.KindConserveScoreWithoutType,
			"%s conserves score but its LHS guarantees no single type", r.lhs.describe())
	}

	possible := dedupe(em.PossibleTypes)
	changesType := false
	for _, t := range possible {
		if _, ok := guaranteed[t]; !ok {
			changesType = true
			break
		}
	}

	switch {
	case len(possible) == 0 && len(r.guaranteed) == 0:
		if _, isDom := r.lhs.(*domLHS); isDom {
			return dowser.NewError(dowser.KindDomRuleMustAssignType,
				"%s pairs a dom selector with an RHS that emits no type", r.lhs.describe())
		}
		return dowser.NewError(dowser.KindUnderspecifiedEmission,
			"cannot determine what type %s emits", r.lhs.describe())
	case changesType:
		r.couldEmit = possible
	default:
		// The RHS cannot introduce anything beyond what the LHS already
		// guarantees.
		r.couldEmit = r.guaranteed
	}

	for _, t := range r.couldEmit {
		if _, ok := guaranteed[t]; !ok {
			r.couldAdd = append(r.couldAdd, t)
		}
	}

	r.finalized = dedupe(r.lhs.finalizedTypes())
	if changesType {
		// A type-changing RHS may leave some matches without the types
		// the LHS guaranteed, so those types' populations settle only
		// once this rule has run.
		r.finalized = dedupe(append(r.finalized, r.guaranteed...))
	}

	// Inferable-type checks for the fluent RHS; custom By facts are
	// checked as they surface at execution time.
	if inw, ok := r.rhs.(*InwardRHS); ok && inw.factBy == nil {
		if em.HasScore && inw.typeName == "" && r.guaranteedOne == "" {
			return dowser.NewError(dowser.KindScoreWithoutInferableType,
				"%s scores but has neither an explicit nor an inferable type", r.lhs.describe())
		}
		if em.HasNote && inw.typeName == "" && r.guaranteedOne == "" {
			return dowser.NewError(dowser.KindNoteWithoutInferableType,
				"%s notes but has neither an explicit nor an inferable type", r.lhs.describe())
		}
	}

	return nil
}

// prerequisites returns the rules that must run before this one, per the
// dependency relation: emitters for finalized types, adders for merely
// mentioned ones. Order follows ruleset insertion order.
func (r *Rule) prerequisites(rs *Ruleset) []*Rule {
	fin := toSet(r.finalized)
	seen := make(map[*Rule]struct{})
	var out []*Rule
	add := func(rule *Rule) {
		if _, dup := seen[rule]; !dup {
			seen[rule] = struct{}{}
			out = append(out, rule)
		}
	}
	for _, t := range r.finalized {
		for _, rule := range rs.emitters[t] {
			add(rule)
		}
	}
	for _, t := range dedupe(r.lhs.mentionedTypes()) {
		if _, ok := fin[t]; ok {
			continue
		}
		for _, rule := range rs.adders[t] {
			add(rule)
		}
	}
	sortByIndex(out)
	return out
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func toSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range in {
		out[s] = struct{}{}
	}
	return out
}
