package rules

import (
	dowser "github.com/dowser/dowser-go"
)

// planFor walks the prerequisite graph from a root rule and returns an
// execution order with every rule after its prerequisites (leaves first,
// root last). Inward rules already run in this bound ruleset are pruned
// along with their subtrees. A cyclic graph fails with the cycle kind
// before anything executes.
func planFor(root *Rule, b *BoundRuleset) ([]*Rule, error) {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[*Rule]int)
	var order []*Rule

	var visit func(r *Rule) error
	visit = func(r *Rule) error {
		switch state[r] {
		case visiting:
			return dowser.NewError(dowser.KindCycle,
				"prerequisite cycle through %s", r)
		case done:
			return nil
		}
		state[r] = visiting
		// prerequisites() already orders by ruleset insertion index, so
		// independent rules execute in insertion order.
		for _, pre := range r.prerequisites(b.ruleset) {
			if _, ran := b.doneRules[pre]; ran {
				continue
			}
			if err := visit(pre); err != nil {
				return err
			}
		}
		state[r] = done
		order = append(order, r)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}
