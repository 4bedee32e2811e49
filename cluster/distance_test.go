package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dowser "github.com/dowser/dowser-go"
	"github.com/dowser/dowser-go/internal/testutils"
)

func TestDistanceOfElementToItselfIsZero(t *testing.T) {
	doc := testutils.MustParse(t, `<body><p id="a">x</p></body>`)
	a := testutils.First(t, doc, "#a")
	assert.Equal(t, 0.0, Distance(a, a))
}

func TestContainmentIsMaxDistance(t *testing.T) {
	doc := testutils.MustParse(t, `<body><div id="b"><div id="a"></div></div></body>`)
	a := testutils.First(t, doc, "#a")
	b := testutils.First(t, doc, "#b")
	assert.Equal(t, MaxDistance, Distance(a, b))
	assert.Equal(t, MaxDistance, Distance(b, a))
}

func TestDistanceIsSymmetric(t *testing.T) {
	doc := testutils.MustParse(t, `<body>
		<div id="g1"><a id="a1">1</a><span>s</span><a id="a2">2</a></div>
		<span id="g2"><a id="a3">3</a></span>
		<div><div><a id="deep">4</a></div></div>
	</body>`)
	ids := []string{"#a1", "#a2", "#a3", "#deep", "#g1", "#g2"}
	els := make([]dowser.Element, len(ids))
	for i, id := range ids {
		els[i] = testutils.First(t, doc, id)
	}
	for i := range els {
		for j := range els {
			assert.Equal(t, Distance(els[i], els[j]), Distance(els[j], els[i]),
				"distance(%s, %s)", ids[i], ids[j])
		}
	}
}

func TestDissimilarParentsCostMore(t *testing.T) {
	doc := testutils.MustParse(t, `<body>
		<div id="same"><a id="s1">1</a><a id="s2">2</a></div>
		<div><a id="d1">3</a></div>
		<span><a id="d2">4</a></span>
	</body>`)
	sameParent := Distance(
		testutils.First(t, doc, "#s1"),
		testutils.First(t, doc, "#s2"))
	differentParents := Distance(
		testutils.First(t, doc, "#d1"),
		testutils.First(t, doc, "#d2"))
	assert.Greater(t, differentParents, sameParent)
}

func TestDepthDisparityCharged(t *testing.T) {
	doc := testutils.MustParse(t, `<body>
		<div><a id="shallow">1</a></div>
		<div><div><div><a id="deep">2</a></div></div></div>
	</body>`)
	shallow := testutils.First(t, doc, "#shallow")
	deep := testutils.First(t, doc, "#deep")

	// Two extra levels on the deep side at the default cost of 2 each.
	withDisparity := Distance(shallow, deep)
	flattened := Distance(shallow, deep, WithCosts(Costs{
		DifferentDepth: 0,
		DifferentTag:   2,
		SameTag:        1,
		Stride:         1,
	}))
	assert.Equal(t, 4.0, withDisparity-flattened)
}

func TestStrideNodesCharged(t *testing.T) {
	doc := testutils.MustParse(t, `<body>
		<div id="g1"><a id="a">1</a></div>
		<div></div><div></div><div></div>
		<div id="g2"><a id="b">2</a></div>
	</body>`)
	a := testutils.First(t, doc, "#a")
	b := testutils.First(t, doc, "#b")

	withStrides := Distance(a, b)
	noStrides := Distance(a, b, WithCosts(Costs{
		DifferentDepth: 2,
		DifferentTag:   2,
		SameTag:        1,
		Stride:         0,
	}))
	// Three empty divs sit between the anchors' parent divs.
	assert.Equal(t, 3.0, withStrides-noStrides)
}

func TestAdditionalCostIsAdded(t *testing.T) {
	doc := testutils.MustParse(t, `<body><p id="a">x</p><p id="b">y</p></body>`)
	a := testutils.First(t, doc, "#a")
	b := testutils.First(t, doc, "#b")
	base := Distance(a, b)
	bumped := Distance(a, b, WithAdditionalCost(func(_, _ dowser.Element) float64 {
		return 5
	}))
	assert.Equal(t, base+5, bumped)
}

func TestDefaultCostsAreFresh(t *testing.T) {
	c := DefaultCosts()
	c.SameTag = 99
	require.Equal(t, 1.0, DefaultCosts().SameTag)
}
