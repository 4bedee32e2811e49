package cluster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dowser/dowser-go/internal/testutils"
)

func TestClustersPartitionInput(t *testing.T) {
	items := []float64{1, 2, 3, 10, 11, 30}
	gap := func(a, b float64) float64 { return math.Abs(a - b) }

	groups := Clusters(items, 2, gap)

	// Disjoint non-empty clusters whose union is the input.
	var all []float64
	for _, g := range groups {
		require.NotEmpty(t, g)
		all = append(all, g...)
	}
	assert.ElementsMatch(t, items, all)

	// Every cross-cluster distance exceeds the cut-off.
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			for _, a := range groups[i] {
				for _, b := range groups[j] {
					assert.Greater(t, gap(a, b), 2.0)
				}
			}
		}
	}

	assert.Len(t, groups, 3)
}

func TestSingleLinkChainsThroughNeighbors(t *testing.T) {
	// 0-2-4 chain: no pair but neighbors is within 2, yet single-link
	// merges the whole run.
	items := []float64{0, 2, 4}
	groups := Clusters(items, 2, func(a, b float64) float64 { return math.Abs(a - b) })
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 3)
}

func TestClustersOfNothingIsEmpty(t *testing.T) {
	assert.Empty(t, Clusters(nil, 2, func(a, b int) float64 { return 0 }))
}

func TestSingletonStaysWhole(t *testing.T) {
	groups := Clusters([]string{"only"}, 0, func(a, b string) float64 { return 1 })
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"only"}, groups[0])
}

// Three anchors in each of two sibling divs cluster together; an anchor
// nested deep in a distant div, past a run of empty stride divs, stays on
// its own.
func TestLinkGroupClustering(t *testing.T) {
	doc := testutils.MustParse(t, `<body>
		<div><a>1</a><a>2</a><a>3</a></div>
		<div><a>4</a><a>5</a><a>6</a></div>
		<div></div><div></div><div></div>
		<div><div><div><a>7</a></div></div></div>
	</body>`)
	anchors := testutils.All(t, doc, "a")
	require.Len(t, anchors, 7)

	groups := Elements(anchors, 10)
	require.Len(t, groups, 2)

	sizes := []int{len(groups[0]), len(groups[1])}
	assert.ElementsMatch(t, []int{6, 1}, sizes)
}

func TestElementsHonorsCostOverrides(t *testing.T) {
	doc := testutils.MustParse(t, `<body>
		<div><a>1</a></div>
		<span><a>2</a></span>
	</body>`)
	anchors := testutils.All(t, doc, "a")
	require.Len(t, anchors, 2)

	// Default: div/span parents cost 2, total 4; a cut-off between the
	// two settings flips the outcome.
	apart := Elements(anchors, 3)
	together := Elements(anchors, 3, WithCosts(Costs{
		DifferentDepth: 2,
		DifferentTag:   1,
		SameTag:        1,
		Stride:         1,
	}))
	assert.Len(t, apart, 2)
	assert.Len(t, together, 1)
}
