// Package cluster provides a distance metric over positions in a document
// tree and a single-link agglomerative clusterer built on it. Both are used
// standalone and by the rules engine's bestCluster aggregate.
package cluster

import (
	"math"

	dowser "github.com/dowser/dowser-go"
)

// MaxDistance encodes "unclusterable": the distance between an element and
// any of its ancestors or descendants.
const MaxDistance = math.MaxFloat64

// Costs holds the coefficients of the tree-distance metric. The zero value
// is not useful; start from DefaultCosts.
type Costs struct {
	// DifferentDepth is charged per level of depth disparity between the
	// two elements below their lowest common ancestor.
	DifferentDepth float64 `yaml:"differentDepth"`

	// DifferentTag is charged per paired ancestor level whose tags differ.
	DifferentTag float64 `yaml:"differentTag"`

	// SameTag is charged per paired ancestor level whose tags match.
	SameTag float64 `yaml:"sameTag"`

	// Stride is charged per element lying between the two ancestor paths
	// at each level of the walk, unpaired levels included. Stride counting
	// is skipped entirely when zero.
	Stride float64 `yaml:"stride"`
}

// DefaultCosts returns the default coefficient set. The values are defaults,
// not invariants; the optimize package exists to tune them.
func DefaultCosts() Costs {
	return Costs{
		DifferentDepth: 2,
		DifferentTag:   2,
		SameTag:        1,
		Stride:         1,
	}
}

// AdditionalCost lets callers mix extra distance into the metric, e.g. a
// text-length disparity term.
type AdditionalCost func(a, b dowser.Element) float64

type distanceConfig struct {
	costs      Costs
	additional AdditionalCost
}

// DistanceOption overrides part of the metric for one invocation.
type DistanceOption func(*distanceConfig)

// WithCosts replaces the coefficient set.
func WithCosts(c Costs) DistanceOption {
	return func(cfg *distanceConfig) { cfg.costs = c }
}

// WithAdditionalCost adds a caller-supplied distance term.
func WithAdditionalCost(f AdditionalCost) DistanceOption {
	return func(cfg *distanceConfig) { cfg.additional = f }
}

// Distance computes the tree distance between two elements of the same
// document. It is symmetric, zero on identical elements, and MaxDistance
// when either element contains the other. It does not obey the triangle
// inequality.
func Distance(a, b dowser.Element, opts ...DistanceOption) float64 {
	cfg := distanceConfig{costs: DefaultCosts()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if a == b {
		return 0
	}

	aPath := pathToRoot(a)
	bPath := pathToRoot(b)
	lca := lowestCommonAncestor(aPath, bPath)
	if lca == nil {
		// Different documents.
		return MaxDistance
	}
	if lca == a || lca == b {
		return MaxDistance
	}

	// Ancestor stacks from each endpoint up to and including the LCA.
	aStack := truncateAt(aPath, lca)
	bStack := truncateAt(bPath, lca)

	// Orient the stacks so "left" precedes "right" in document order;
	// stride walking follows sibling links rightward from the left path.
	left, right := aStack, bStack
	if !precedes(aStack[len(aStack)-2], bStack[len(bStack)-2]) {
		left, right = bStack, aStack
	}

	cost := 0.0
	levels := len(left)
	if len(right) > levels {
		levels = len(right)
	}
	// Walk downward from the LCA level. Unpaired levels are depth
	// disparity; paired levels compare tags and count strides.
	for i := 0; i < levels; i++ {
		var l, r dowser.Element
		if i < len(left) {
			l = left[len(left)-1-i]
		}
		if i < len(right) {
			r = right[len(right)-1-i]
		}
		switch {
		case l == nil || r == nil:
			cost += cfg.costs.DifferentDepth
		case l.TagName() == r.TagName():
			cost += cfg.costs.SameTag
		default:
			cost += cfg.costs.DifferentTag
		}
		if cfg.costs.Stride != 0 {
			cost += float64(numStrides(l, r)) * cfg.costs.Stride
		}
	}

	if cfg.additional != nil {
		cost += cfg.additional(a, b)
	}
	return cost
}

// pathToRoot returns [e, parent(e), ..., root].
func pathToRoot(e dowser.Element) []dowser.Element {
	var path []dowser.Element
	for cur := e; cur != nil; cur = cur.Parent() {
		path = append(path, cur)
	}
	return path
}

// lowestCommonAncestor finds the deepest element present on both root paths,
// or nil when the paths share no element.
func lowestCommonAncestor(aPath, bPath []dowser.Element) dowser.Element {
	onA := make(map[dowser.Element]int, len(aPath))
	for i, e := range aPath {
		onA[e] = i
	}
	// The first hit walking up from b is the LCA.
	for _, e := range bPath {
		if _, ok := onA[e]; ok {
			return e
		}
	}
	return nil
}

// truncateAt cuts a root path just past the given ancestor, inclusive.
func truncateAt(path []dowser.Element, at dowser.Element) []dowser.Element {
	for i, e := range path {
		if e == at {
			return path[:i+1]
		}
	}
	return path
}

// precedes reports whether sibling a comes before sibling b in document
// order. Both must share a parent.
func precedes(a, b dowser.Element) bool {
	for s := a.NextSibling(); s != nil; s = s.NextSibling() {
		if s == b {
			return true
		}
	}
	return false
}

// numStrides counts the elements lying between two nodes at one level of the
// walk. For siblings it is the elements strictly between them; when the
// nodes do not share a parent (or one side of the pairing is exhausted) it
// is the left node's following siblings plus the right node's preceding
// siblings, the elements sitting between the two ancestor paths.
func numStrides(left, right dowser.Element) int {
	num := 0
	sibling := left
	cont := sibling != nil && sibling != right
	for cont {
		sibling = sibling.NextSibling()
		cont = sibling != nil && sibling != right
		if cont {
			num++
		}
	}
	if sibling != right {
		// Ran out before reaching the right node: count from the other
		// side. Reachable siblings were already counted above, so this
		// never double-punishes adjacent nodes.
		for s := right; s != nil; {
			s = s.PrevSibling()
			if s != nil {
				num++
			}
		}
	}
	return num
}
