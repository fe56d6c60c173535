package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVocabulary(t *testing.T) {
	s := Default()

	for _, name := range []string{Doc, Paragraph, Heading, Blockquote, HorizontalRule, CodeBlock, BulletList, OrderedList, ListItem, Text, Image, HardBreak} {
		assert.NotNil(t, s.NodeType(name), name)
	}

	ranks := s.MarkTypes()
	require.Len(t, ranks, 10)
	assert.Equal(t, TextColor, ranks[0].Name)
	assert.Equal(t, Strikethrough, ranks[9].Name)

	assert.False(t, s.MarkType(Link).Inclusive())
	assert.True(t, s.MarkType(Bold).Inclusive())

	code := s.NodeType(CodeBlock)
	assert.False(t, code.AllowsMarkType(s.MarkType(Bold)))
	assert.True(t, code.IsCode())
	assert.True(t, s.NodeType(Paragraph).AllowsMarkType(s.MarkType(Bold)))
	assert.True(t, s.NodeType(Image).IsLeaf())
	assert.True(t, s.NodeType(Image).IsInline())
}

func TestOptionalCapabilities(t *testing.T) {
	s, err := New(WithoutLists(), WithoutMarks(Highlight), WithoutNodes(Image, Paragraph))
	require.NoError(t, err)

	assert.Nil(t, s.NodeType(BulletList))
	assert.Nil(t, s.NodeType(ListItem))
	assert.Nil(t, s.NodeType(Image))
	assert.NotNil(t, s.NodeType(Paragraph), "paragraph is always present")
	assert.Nil(t, s.MarkType(Highlight))
	assert.NotNil(t, s.MarkType(Bold))
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(nil)

	doc := b.Doc(
		b.H(2, b.T("Title")),
		b.P(b.T("plain "), b.T("bold", b.Bold())),
		b.UL(b.LI(b.P(b.T("item")))),
		b.Code("go", "x := 1"),
		b.HR(),
	)
	assert.Equal(t, 5, doc.ChildCount())
	assert.Equal(t, 2, doc.Child(0).Attr("level"))
	assert.Equal(t, "go", doc.Child(3).Attr("language"))

	assert.Panics(t, func() { b.S.Node(Paragraph, nil, b.P()) })
	assert.Equal(t, "doc(paragraph)", b.EmptyDoc().String())
}
