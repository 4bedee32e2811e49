package rules

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	dowser "github.com/dowser/dowser-go"
)

// Ruleset is an immutable, unordered collection of rules with precomputed
// emit/add indices. It holds no per-document state and may back any number
// of bound rulesets.
type Ruleset struct {
	rules    []*Rule
	outRules map[string]*Rule

	// emitters[t] are the rules that could yield a fact bearing t;
	// adders[t] those that could introduce t on an fnode lacking it.
	emitters map[string][]*Rule
	adders   map[string][]*Rule
}

// NewRuleset indexes a collection of rules. Rules keep their insertion
// order; it is the tie-break between independent rules in an execution plan.
func NewRuleset(rs ...*Rule) (*Ruleset, error) {
	set := &Ruleset{
		outRules: make(map[string]*Rule),
		emitters: make(map[string][]*Rule),
		adders:   make(map[string][]*Rule),
	}
	for _, r := range rs {
		indexed := *r
		indexed.index = len(set.rules)
		rule := &indexed
		set.rules = append(set.rules, rule)

		if rule.out != nil {
			if _, dup := set.outRules[rule.out.key]; dup {
				return nil, fmt.Errorf("duplicate out rule key %q", rule.out.key)
			}
			set.outRules[rule.out.key] = rule
			continue
		}
		for _, t := range rule.couldEmit {
			set.emitters[t] = append(set.emitters[t], rule)
		}
		for _, t := range rule.couldAdd {
			set.adders[t] = append(set.adders[t], rule)
		}
	}
	return set, nil
}

// Rules returns the rules in insertion order. Passing them back to
// NewRuleset yields a ruleset that behaves identically.
func (rs *Ruleset) Rules() []*Rule {
	out := make([]*Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Against binds the ruleset to one document, yielding a query surface with
// its own fnode store and caches. The bound ruleset's lifetime is the query
// session; it is single-threaded.
func (rs *Ruleset) Against(doc dowser.Document, opts ...BoundOption) *BoundRuleset {
	b := &BoundRuleset{
		ruleset:      rs,
		doc:          doc,
		log:          zap.NewNop(),
		fnodes:       make(map[dowser.Element]*Fnode),
		byType:       make(map[string][]*Fnode),
		byTypeSeen:   make(map[string]map[*Fnode]struct{}),
		maxCache:     make(map[string][]*Fnode),
		clusterCache: make(map[*bestClusterLHS][]*Fnode),
		doneRules:    make(map[*Rule]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func sortByIndex(rules []*Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].index < rules[j].index
	})
}
