package rules

import (
	"go.uber.org/zap"

	dowser "github.com/dowser/dowser-go"
)

// execute runs a plan. All rules but the last are inward prerequisites; the
// last is the queried rule, whose sink output (for outward rules) becomes
// the result.
func (b *BoundRuleset) execute(plan []*Rule) (interface{}, error) {
	var result interface{}
	for _, rule := range plan {
		out, err := b.executeRule(rule)
		if err != nil {
			return nil, err
		}
		result = out
	}
	return result, nil
}

func (b *BoundRuleset) executeRule(rule *Rule) (interface{}, error) {
	if rule.Inward() {
		if _, ran := b.doneRules[rule]; ran {
			// The planner prunes done rules; reaching one here is a
			// planner bug, not a user error.
			return nil, dowser.NewError(dowser.KindDoubleExecution,
				"%s ran twice in one bound ruleset", rule)
		}
	}

	ins, err := rule.lhs.matches(b)
	if err != nil {
		return nil, err
	}
	b.log.Debug("executing rule",
		zap.String("session", b.id),
		zap.String("rule", rule.String()),
		zap.Int("matches", len(ins)))

	// De-duplicate outputs even when the RHS redirects several inputs to
	// one element.
	var outs []*Fnode
	seen := make(map[*Fnode]struct{})

	if rule.Inward() {
		for _, in := range ins {
			fact := rule.rhs.fact(in, rule.guaranteedOne)
			target, err := b.applyFact(rule, in, fact)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[target]; !dup {
				seen[target] = struct{}{}
				outs = append(outs, target)
			}
		}
		b.doneRules[rule] = struct{}{}
		for _, f := range outs {
			for _, t := range f.Types() {
				b.indexByType(t, f)
			}
		}
		return outs, nil
	}

	// Outward: publish through the sink's callbacks; fnodes stay
	// untouched.
	for _, in := range ins {
		if _, dup := seen[in]; !dup {
			seen[in] = struct{}{}
			outs = append(outs, in)
		}
	}
	if rule.out.through == nil && rule.out.allThrough == nil {
		return outs, nil
	}
	items := make([]interface{}, len(outs))
	for i, f := range outs {
		if rule.out.through != nil {
			items[i] = rule.out.through(f)
		} else {
			items[i] = f
		}
	}
	if rule.out.allThrough != nil {
		return rule.out.allThrough(items), nil
	}
	return items, nil
}

// applyFact merges one fact into the store and returns the target fnode.
func (b *BoundRuleset) applyFact(rule *Rule, in *Fnode, fact Fact) (*Fnode, error) {
	target := in
	if fact.Element != nil {
		target = b.fnode(fact.Element)
	}

	effective := fact.Type
	if effective == "" {
		effective = rule.guaranteedOne
	}

	if fact.Type != "" {
		target.addType(fact.Type)
	}

	if fact.Conserve {
		if rule.guaranteedOne == "" {
			return nil, dowser.NewError(dowser.KindConserveScoreWithoutType,
				"%s conserves score but its LHS guarantees no single type", rule)
		}
		target.multiplyScore(effective, in.ScoreFor(rule.guaranteedOne))
	}

	if fact.HasScore {
		if effective == "" {
			return nil, dowser.NewError(dowser.KindScoreWithoutInferableType,
				"%s scored a fact with no explicit or inferable type", rule)
		}
		target.multiplyScore(effective, fact.Score)
	}

	if fact.Note != nil {
		if effective == "" {
			return nil, dowser.NewError(dowser.KindNoteWithoutInferableType,
				"%s noted a fact with no explicit or inferable type", rule)
		}
		if err := target.setNote(effective, fact.Note); err != nil {
			return nil, err
		}
	}

	return target, nil
}
