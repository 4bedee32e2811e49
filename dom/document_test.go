package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head><title>t</title></head><body>
<div id="outer" class="wrap">
	<p id="first">hello <b>bold</b> world</p>
	<p id="second">second</p>
</div>
<a href="/x">link</a>
</body></html>`

func parsePage(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(page)
	require.NoError(t, err)
	return doc
}

func TestQuerySelectorAllDocumentOrder(t *testing.T) {
	doc := parsePage(t)
	els, err := doc.QuerySelectorAll("p")
	require.NoError(t, err)
	require.Len(t, els, 2)
	id0, _ := els[0].Attr("id")
	id1, _ := els[1].Attr("id")
	assert.Equal(t, "first", id0)
	assert.Equal(t, "second", id1)
}

func TestBadSelectorFails(t *testing.T) {
	doc := parsePage(t)
	_, err := doc.QuerySelectorAll("p[")
	assert.Error(t, err)
}

func TestElementIdentityIsStable(t *testing.T) {
	doc := parsePage(t)
	a, err := doc.QuerySelectorAll("#first")
	require.NoError(t, err)
	b, err := doc.QuerySelectorAll("p")
	require.NoError(t, err)
	require.NotEmpty(t, a)
	require.NotEmpty(t, b)
	assert.Equal(t, a[0], b[0])
	assert.True(t, a[0] == b[0])
}

func TestTreeNavigation(t *testing.T) {
	doc := parsePage(t)
	first, err := doc.QuerySelectorAll("#first")
	require.NoError(t, err)
	require.Len(t, first, 1)
	el := first[0]

	assert.Equal(t, "p", el.TagName())

	parent := el.Parent()
	require.NotNil(t, parent)
	assert.Equal(t, "div", parent.TagName())

	next := el.NextSibling()
	require.NotNil(t, next)
	id, _ := next.Attr("id")
	assert.Equal(t, "second", id)
	assert.Equal(t, el, next.PrevSibling())
	assert.Nil(t, next.NextSibling())

	kids := parent.Children()
	require.Len(t, kids, 2)
	assert.Equal(t, el, kids[0])
}

func TestAttrAndText(t *testing.T) {
	doc := parsePage(t)
	els, err := doc.QuerySelectorAll("#first")
	require.NoError(t, err)
	require.Len(t, els, 1)
	el := els[0]

	class, ok := el.Parent().Attr("class")
	assert.True(t, ok)
	assert.Equal(t, "wrap", class)

	_, ok = el.Attr("missing")
	assert.False(t, ok)

	assert.Equal(t, "hello bold world", els[0].TextContent())
}

func TestRootIsHTMLElement(t *testing.T) {
	doc := parsePage(t)
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "html", root.TagName())
	assert.Nil(t, root.Parent())
}
