package rules

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	dowser "github.com/dowser/dowser-go"
)

// BoundRuleset is a ruleset bound to one document: the fnode store, the
// per-type and max caches, and the set of inward rules already run. All of
// it is owned by this value and mutated only by Get calls, which run to
// completion synchronously.
type BoundRuleset struct {
	ruleset *Ruleset
	doc     dowser.Document
	id      string
	log     *zap.Logger

	fnodes     map[dowser.Element]*Fnode
	byType     map[string][]*Fnode
	byTypeSeen map[string]map[*Fnode]struct{}

	maxCache     map[string][]*Fnode
	clusterCache map[*bestClusterLHS][]*Fnode
	doneRules    map[*Rule]struct{}
}

// BoundOption configures a bound ruleset.
type BoundOption func(*BoundRuleset)

// WithLogger sets the structured logger used for execution tracing.
func WithLogger(log *zap.Logger) BoundOption {
	return func(b *BoundRuleset) { b.log = log }
}

// Document returns the bound document.
func (b *BoundRuleset) Document() dowser.Document { return b.doc }

// Get answers a query. The argument may be an out-rule key (string), an LHS
// to run ad hoc, or a document element for a direct fnode lookup; anything
// else fails with badGetArgument.
func (b *BoundRuleset) Get(arg interface{}) (interface{}, error) {
	switch v := arg.(type) {
	case string:
		return b.GetKey(v)
	case LHS:
		return b.GetLHS(v)
	case dowser.Element:
		return b.GetElement(v), nil
	default:
		return nil, dowser.NewError(dowser.KindBadGetArgument,
			"get expects an out key, an LHS, or an element, got %T", arg)
	}
}

// GetKey runs the outward rule with the given key and returns its sink's
// output.
func (b *BoundRuleset) GetKey(key string) (interface{}, error) {
	rule, ok := b.ruleset.outRules[key]
	if !ok {
		return nil, dowser.NewError(dowser.KindMissingOutKey,
			"no out rule is keyed %q", key)
	}
	return b.run(rule)
}

// GetLHS synthesizes an outward rule around an LHS, runs it, and returns the
// matching fnodes.
func (b *BoundRuleset) GetLHS(lhs LHS) ([]*Fnode, error) {
	rule, err := NewOutRule(lhs, Out(""))
	if err != nil {
		return nil, err
	}
	// Synthesized rules sort after every real rule.
	rule.index = len(b.ruleset.rules)
	result, err := b.run(rule)
	if err != nil {
		return nil, err
	}
	fnodes, _ := result.([]*Fnode)
	return fnodes, nil
}

// GetElement returns the fnode for an element without running any rules.
// Its annotations reflect only whatever rules previous queries have run.
func (b *BoundRuleset) GetElement(el dowser.Element) *Fnode {
	return b.fnode(el)
}

func (b *BoundRuleset) run(root *Rule) (interface{}, error) {
	if b.id == "" {
		b.id = uuid.NewString()
	}
	plan, err := planFor(root, b)
	if err != nil {
		return nil, err
	}
	return b.execute(plan)
}

// fnode returns the one fnode for an element, creating it on first lookup.
func (b *BoundRuleset) fnode(el dowser.Element) *Fnode {
	if f, ok := b.fnodes[el]; ok {
		return f
	}
	f := newFnode(el)
	b.fnodes[el] = f
	return f
}

// fnodesOfType returns the fnodes bearing a type, in the order the executor
// discovered them.
func (b *BoundRuleset) fnodesOfType(t string) []*Fnode {
	return b.byType[t]
}

// indexByType records that an fnode bears a type.
func (b *BoundRuleset) indexByType(t string, f *Fnode) {
	seen, ok := b.byTypeSeen[t]
	if !ok {
		seen = make(map[*Fnode]struct{})
		b.byTypeSeen[t] = seen
	}
	if _, dup := seen[f]; dup {
		return
	}
	seen[f] = struct{}{}
	b.byType[t] = append(b.byType[t], f)
}

// maxOfType returns the fnodes of a type with the maximum score for it,
// ties included. The result is cached; the planner guarantees the type's
// scores are complete before anything consumes the aggregate.
func (b *BoundRuleset) maxOfType(t string) []*Fnode {
	if cached, ok := b.maxCache[t]; ok {
		return cached
	}
	var best []*Fnode
	bestScore := 0.0
	for _, f := range b.fnodesOfType(t) {
		s := f.ScoreFor(t)
		switch {
		case best == nil || s > bestScore:
			best = []*Fnode{f}
			bestScore = s
		case s == bestScore:
			best = append(best, f)
		}
	}
	b.maxCache[t] = best
	return best
}

// bestClusterOf returns (and caches) the highest-scoring cluster for a
// bestCluster LHS.
func (b *BoundRuleset) bestClusterOf(l *bestClusterLHS) []*Fnode {
	if cached, ok := b.clusterCache[l]; ok {
		return cached
	}
	best := l.compute(b)
	b.clusterCache[l] = best
	return best
}
