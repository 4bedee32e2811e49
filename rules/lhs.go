package rules

import (
	"fmt"

	"github.com/dowser/dowser-go/cluster"
)

// Predicate is a post-filter applied to an LHS's matches.
type Predicate func(*Fnode) bool

// LHS selects the input fnodes of a rule. The concrete variants are Dom,
// Type, Max, BestCluster, and And; all support When post-filters.
type LHS interface {
	// matches materializes the variant's inputs against a bound ruleset,
	// de-duplicated by element and filtered by any When predicates.
	matches(b *BoundRuleset) ([]*Fnode, error)

	// guaranteedTypes returns the types every match is known to bear.
	guaranteedTypes() []string

	// mentionedTypes returns the types the LHS depends on.
	mentionedTypes() []string

	// finalizedTypes returns the types whose aggregate this LHS consumes;
	// no later rule affecting them may run after it.
	finalizedTypes() []string

	// When returns a copy of the LHS with an additional post-filter.
	When(pred Predicate) LHS

	describe() string
}

func filtered(fnodes []*Fnode, preds []Predicate) []*Fnode {
	if len(preds) == 0 {
		return fnodes
	}
	out := make([]*Fnode, 0, len(fnodes))
	for _, f := range fnodes {
		keep := true
		for _, p := range preds {
			if !p(f) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, f)
		}
	}
	return out
}

// ---- Dom ----

type domLHS struct {
	selector string
	preds    []Predicate
}

// Dom selects the elements matching a CSS selector, in document order. It
// guarantees no type, so its rule's RHS must assign one.
func Dom(selector string) LHS {
	return &domLHS{selector: selector}
}

func (l *domLHS) matches(b *BoundRuleset) ([]*Fnode, error) {
	els, err := b.doc.QuerySelectorAll(l.selector)
	if err != nil {
		return nil, err
	}
	fnodes := make([]*Fnode, 0, len(els))
	seen := make(map[*Fnode]struct{}, len(els))
	for _, el := range els {
		f := b.fnode(el)
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		fnodes = append(fnodes, f)
	}
	return filtered(fnodes, l.preds), nil
}

func (l *domLHS) guaranteedTypes() []string { return nil }
func (l *domLHS) mentionedTypes() []string  { return nil }
func (l *domLHS) finalizedTypes() []string  { return nil }

func (l *domLHS) When(pred Predicate) LHS {
	c := *l
	c.preds = append(append([]Predicate(nil), l.preds...), pred)
	return &c
}

func (l *domLHS) describe() string { return fmt.Sprintf("dom(%q)", l.selector) }

// ---- Type ----

type typeLHS struct {
	typeName string
	preds    []Predicate
}

// Type selects the fnodes currently bearing a type.
func Type(t string) LHS {
	return &typeLHS{typeName: t}
}

func (l *typeLHS) matches(b *BoundRuleset) ([]*Fnode, error) {
	return filtered(b.fnodesOfType(l.typeName), l.preds), nil
}

func (l *typeLHS) guaranteedTypes() []string { return []string{l.typeName} }
func (l *typeLHS) mentionedTypes() []string  { return []string{l.typeName} }
func (l *typeLHS) finalizedTypes() []string  { return nil }

func (l *typeLHS) When(pred Predicate) LHS {
	c := *l
	c.preds = append(append([]Predicate(nil), l.preds...), pred)
	return &c
}

func (l *typeLHS) describe() string { return fmt.Sprintf("type(%q)", l.typeName) }

// ---- Max ----

type maxLHS struct {
	typeName string
	preds    []Predicate
}

// Max selects the fnodes of a type with the maximum score for that type;
// ties all match. It aggregates the type: every rule that could affect the
// type's scores runs first.
func Max(t string) LHS {
	return &maxLHS{typeName: t}
}

func (l *maxLHS) matches(b *BoundRuleset) ([]*Fnode, error) {
	return filtered(b.maxOfType(l.typeName), l.preds), nil
}

func (l *maxLHS) guaranteedTypes() []string { return []string{l.typeName} }
func (l *maxLHS) mentionedTypes() []string  { return []string{l.typeName} }
func (l *maxLHS) finalizedTypes() []string  { return []string{l.typeName} }

func (l *maxLHS) When(pred Predicate) LHS {
	c := *l
	c.preds = append(append([]Predicate(nil), l.preds...), pred)
	return &c
}

func (l *maxLHS) describe() string { return fmt.Sprintf("max(%q)", l.typeName) }

// ---- BestCluster ----

type bestClusterLHS struct {
	typeName          string
	splittingDistance float64
	distOpts          []cluster.DistanceOption
	preds             []Predicate
}

// BestCluster clusters the fnodes of a type by tree distance and selects the
// cluster whose members' scores for that type sum highest. Like Max, it
// aggregates the type.
func BestCluster(t string, splittingDistance float64, opts ...cluster.DistanceOption) LHS {
	return &bestClusterLHS{typeName: t, splittingDistance: splittingDistance, distOpts: opts}
}

func (l *bestClusterLHS) matches(b *BoundRuleset) ([]*Fnode, error) {
	return filtered(b.bestClusterOf(l), l.preds), nil
}

// compute picks the best cluster without consulting the bound cache.
func (l *bestClusterLHS) compute(b *BoundRuleset) []*Fnode {
	fnodes := b.fnodesOfType(l.typeName)
	if len(fnodes) == 0 {
		return nil
	}
	groups := cluster.Clusters(fnodes, l.splittingDistance, func(a, c *Fnode) float64 {
		return cluster.Distance(a.Element(), c.Element(), l.distOpts...)
	})
	var best []*Fnode
	bestSum := 0.0
	for _, g := range groups {
		sum := 0.0
		for _, f := range g {
			sum += f.ScoreFor(l.typeName)
		}
		if best == nil || sum > bestSum {
			best = g
			bestSum = sum
		}
	}
	return best
}

func (l *bestClusterLHS) guaranteedTypes() []string { return []string{l.typeName} }
func (l *bestClusterLHS) mentionedTypes() []string  { return []string{l.typeName} }
func (l *bestClusterLHS) finalizedTypes() []string  { return []string{l.typeName} }

func (l *bestClusterLHS) When(pred Predicate) LHS {
	c := *l
	c.preds = append(append([]Predicate(nil), l.preds...), pred)
	return &c
}

func (l *bestClusterLHS) describe() string {
	return fmt.Sprintf("bestCluster(%q, %v)", l.typeName, l.splittingDistance)
}

// ---- And ----

type andLHS struct {
	parts []LHS
	preds []Predicate
}

// And selects the fnodes bearing every given type. Only plain Type
// selectors are supported as arguments; anything else fails rule
// construction with unsupportedAnd.
func And(parts ...LHS) LHS {
	return &andLHS{parts: parts}
}

func (l *andLHS) matches(b *BoundRuleset) ([]*Fnode, error) {
	types := l.typeNames()
	if len(types) == 0 {
		return nil, nil
	}

	// Iterate the smallest type set; membership checks do the rest.
	smallest := types[0]
	for _, t := range types[1:] {
		if len(b.fnodesOfType(t)) < len(b.fnodesOfType(smallest)) {
			smallest = t
		}
	}
	var out []*Fnode
	for _, f := range b.fnodesOfType(smallest) {
		all := true
		for _, t := range types {
			if !f.HasType(t) {
				all = false
				break
			}
		}
		if all {
			out = append(out, f)
		}
	}
	return filtered(out, l.preds), nil
}

// typeNames returns the type of each part; parts that are not plain Type
// selectors yield "" and are rejected at rule construction.
func (l *andLHS) typeNames() []string {
	out := make([]string, len(l.parts))
	for i, p := range l.parts {
		if tl, ok := p.(*typeLHS); ok {
			out[i] = tl.typeName
		}
	}
	return out
}

func (l *andLHS) guaranteedTypes() []string { return l.typeNames() }
func (l *andLHS) mentionedTypes() []string  { return l.typeNames() }
func (l *andLHS) finalizedTypes() []string  { return nil }

func (l *andLHS) When(pred Predicate) LHS {
	c := *l
	c.preds = append(append([]Predicate(nil), l.preds...), pred)
	return &c
}

func (l *andLHS) describe() string {
	return fmt.Sprintf("and(%v)", l.typeNames())
}
