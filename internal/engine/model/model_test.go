package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	notInclusive := false
	s, err := NewSchema(&SchemaSpec{
		Nodes: []*NodeSpec{
			{Name: "doc", Content: "block+"},
			{Name: "paragraph", Content: "inline*", Group: "block"},
			{Name: "blockquote", Content: "block+", Group: "block"},
			{Name: "rule", Group: "block"},
			{Name: "text", Group: "inline"},
			{Name: "image", Group: "inline", Inline: true, Atom: true, Attrs: map[string]*AttributeSpec{
				"src": {Required: true},
			}},
		},
		Marks: []*MarkSpec{
			{Name: "link", Inclusive: &notInclusive, Attrs: map[string]*AttributeSpec{"href": {Required: true}}},
			{Name: "bold"},
			{Name: "italic"},
		},
	})
	require.NoError(t, err)
	return s
}

type builder struct{ s *Schema }

func (b builder) doc(c ...*Node) *Node { return b.s.Node("doc", nil, c...) }
func (b builder) p(c ...*Node) *Node { return b.s.Node("paragraph", nil, c...) }
func (b builder) quote(c ...*Node) *Node { return b.s.Node("blockquote", nil, c...) }
func (b builder) text(s string, m ...*Mark) *Node { return b.s.Text(s, m...) }

func TestNodeSizes(t *testing.T) {
	b := builder{testSchema(t)}
	doc := b.doc(b.p(b.text("one")), b.p(b.text("two")))

	assert.Equal(t, 10, doc.Content().Size())
	assert.Equal(t, 12, doc.NodeSize())
	assert.Equal(t, 5, doc.Child(0).NodeSize())
	assert.Equal(t, 3, doc.Child(0).Child(0).NodeSize())
	assert.Equal(t, 1, b.s.Node("rule", nil).NodeSize())
	assert.Equal(t, 2, b.text("✓✓").NodeSize(), "text size counts characters")
}

func TestResolve(t *testing.T) {
	b := builder{testSchema(t)}
	doc := b.doc(b.p(b.text("one")), b.p(b.text("two")))

	t.Run("inside text", func(t *testing.T) {
		r := doc.Resolve(2)
		assert.Equal(t, 1, r.Depth)
		assert.Equal(t, 1, r.ParentOffset)
		assert.Equal(t, 1, r.TextOffset())
		assert.Equal(t, "paragraph", r.Parent().Type().Name)
		assert.Equal(t, 1, r.Start(1))
		assert.Equal(t, 4, r.End(1))
		assert.Equal(t, 0, r.Before(1))
		assert.Equal(t, 5, r.After(1))
		assert.Equal(t, 0, r.Index(0))
		assert.Equal(t, "o", r.NodeBefore().Text())
		assert.Equal(t, "ne", r.NodeAfter().Text())
	})

	t.Run("between blocks", func(t *testing.T) {
		r := doc.Resolve(5)
		assert.Equal(t, 0, r.Depth)
		assert.Equal(t, 5, r.ParentOffset)
		assert.Equal(t, 1, r.Index(0))
		assert.Equal(t, "one", r.NodeBefore().TextContent())
		assert.Equal(t, "two", r.NodeAfter().TextContent())
	})

	t.Run("start of second block", func(t *testing.T) {
		r := doc.Resolve(6)
		assert.Equal(t, 1, r.Depth)
		assert.Equal(t, 0, r.ParentOffset)
		assert.Equal(t, 6, r.Start(1))
		assert.Equal(t, 1, r.Index(0))
		assert.Nil(t, r.NodeBefore())
	})

	t.Run("nested", func(t *testing.T) {
		nested := b.doc(b.quote(b.p(b.text("ab"))))
		r := nested.Resolve(3)
		assert.Equal(t, 2, r.Depth)
		assert.Equal(t, "blockquote", r.Node(1).Type().Name)
		assert.Equal(t, 2, r.Start(2))
		assert.Equal(t, 1, r.Before(2))
		assert.Equal(t, 6, r.After(1))
		assert.Equal(t, 1, r.SharedDepth(2))
	})
}

func TestResolveOutOfRangePanics(t *testing.T) {
	b := builder{testSchema(t)}
	doc := b.doc(b.p(b.text("one")))

	for _, pos := range []int{-1, 6} {
		func() {
			defer func() {
				rec := recover()
				require.NotNil(t, rec, "pos %d", pos)
				_, ok := rec.(*RangeError)
				assert.True(t, ok, "panic value should be *RangeError, got %T", rec)
			}()
			doc.Resolve(pos)
		}()
	}
}

func TestNodeAt(t *testing.T) {
	b := builder{testSchema(t)}
	doc := b.doc(b.p(b.text("one")), b.s.Node("rule", nil))

	assert.Equal(t, "paragraph", doc.NodeAt(0).Type().Name)
	assert.Equal(t, "one", doc.NodeAt(1).Text())
	assert.Equal(t, "rule", doc.NodeAt(5).Type().Name)
	assert.Nil(t, doc.NodeAt(6))
}

func TestDescendantsPrunes(t *testing.T) {
	b := builder{testSchema(t)}
	doc := b.doc(b.quote(b.p(b.text("a"))), b.p(b.text("b")))

	var visited []string
	doc.Descendants(func(n *Node, _ int, _ *Node, _ int) bool {
		visited = append(visited, n.Type().Name)
		return n.Type().Name != "blockquote"
	})
	assert.Equal(t, []string{"blockquote", "paragraph", "text"}, visited)

	var positions []int
	doc.Descendants(func(n *Node, pos int, _ *Node, _ int) bool {
		positions = append(positions, pos)
		return true
	})
	assert.Equal(t, []int{0, 1, 2, 5, 6}, positions)
}

func TestTextBetween(t *testing.T) {
	b := builder{testSchema(t)}
	doc := b.doc(b.p(b.text("one")), b.p(b.text("two")))

	assert.Equal(t, "one\ntwo", doc.TextBetween(0, doc.Content().Size(), "\n", ""))
	assert.Equal(t, "ne\ntw", doc.TextBetween(2, 8, "\n", ""))
	assert.Equal(t, "onetwo", doc.TextContent())
}

func TestFragmentJoinsText(t *testing.T) {
	s := testSchema(t)
	bold := s.Mark("bold", nil)

	f := FragmentFrom(s.Text("a"), s.Text("b"), s.Text("c", bold), s.Text("d", bold))
	require.Equal(t, 2, f.ChildCount())
	assert.Equal(t, "ab", f.Child(0).Text())
	assert.Equal(t, "cd", f.Child(1).Text())
	assert.Equal(t, 4, f.Size())
}

func TestReplace(t *testing.T) {
	b := builder{testSchema(t)}
	doc := b.doc(b.p(b.text("one")), b.p(b.text("two")))

	tests := []struct {
		name     string
		from, to int
		slice    *Slice
		want     *Node
	}{
		{
			name:  "delete across blocks joins them",
			from:  3,
			to:    8,
			slice: EmptySlice,
			want:  b.doc(b.p(b.text("ono"))),
		},
		{
			name:  "insert text",
			from:  2,
			to:    2,
			slice: NewSlice(FragmentFrom(b.text("X")), 0, 0),
			want:  b.doc(b.p(b.text("oXne")), b.p(b.text("two"))),
		},
		{
			name:  "split with open slice",
			from:  2,
			to:    2,
			slice: NewSlice(FragmentFrom(b.p(), b.p()), 1, 1),
			want:  b.doc(b.p(b.text("o")), b.p(b.text("ne")), b.p(b.text("two"))),
		},
		{
			name:  "replace whole block",
			from:  0,
			to:    5,
			slice: NewSlice(FragmentFrom(b.quote(b.p(b.text("q")))), 0, 0),
			want:  b.doc(b.quote(b.p(b.text("q"))), b.p(b.text("two"))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := doc.Replace(tt.from, tt.to, tt.slice)
			require.NoError(t, err)
			assert.True(t, tt.want.Eq(got), "got %s", got)
		})
	}

	t.Run("shares untouched subtrees", func(t *testing.T) {
		got, err := doc.Replace(2, 2, NewSlice(FragmentFrom(b.text("X")), 0, 0))
		require.NoError(t, err)
		assert.Same(t, doc.Child(1), got.Child(1))
		assert.Equal(t, "one", doc.Child(0).TextContent(), "original is unchanged")
	})
}

func TestReplaceInvalidContent(t *testing.T) {
	b := builder{testSchema(t)}
	doc := b.doc(b.p(b.text("one")))

	_, err := doc.Replace(2, 2, NewSlice(FragmentFrom(b.p(b.text("x"))), 0, 0))
	var rerr *ReplaceError
	require.True(t, errors.As(err, &rerr), "got %v", err)

	_, err = doc.Replace(2, 2, NewSlice(FragmentFrom(b.p()), 2, 0))
	require.Error(t, err)
}

func TestSliceAndCut(t *testing.T) {
	b := builder{testSchema(t)}
	doc := b.doc(b.p(b.text("one")), b.p(b.text("two")))

	s := doc.Slice(2, 8)
	assert.Equal(t, 1, s.OpenStart)
	assert.Equal(t, 1, s.OpenEnd)
	assert.Equal(t, "netw", s.Content.TextBetween(0, s.Content.Size(), "", ""))

	flat := doc.Slice(1, 3)
	assert.Equal(t, 0, flat.OpenStart)
	assert.Equal(t, 2, flat.Size())

	assert.Same(t, EmptySlice, doc.Slice(4, 4))
}

func TestResolvedMarks(t *testing.T) {
	s := testSchema(t)
	b := builder{s}
	link := s.Mark("link", map[string]any{"href": "https://example.com"})
	bold := s.Mark("bold", nil)

	t.Run("non-inclusive mark ends at boundary", func(t *testing.T) {
		doc := b.doc(b.p(b.text("ab", link), b.text("cd")))
		assert.Empty(t, doc.Resolve(3).Marks())
		assert.Empty(t, doc.Resolve(1).Marks())
		assert.Len(t, doc.Resolve(2).Marks(), 1)
	})

	t.Run("inclusive mark extends", func(t *testing.T) {
		doc := b.doc(b.p(b.text("ab", bold), b.text("cd")))
		marks := doc.Resolve(3).Marks()
		require.Len(t, marks, 1)
		assert.Equal(t, "bold", marks[0].Type().Name)
	})

	t.Run("empty parent", func(t *testing.T) {
		doc := b.doc(b.p())
		assert.Empty(t, doc.Resolve(1).Marks())
	})
}

func TestMarkSetOrder(t *testing.T) {
	s := testSchema(t)
	italic := s.Mark("italic", nil)
	bold := s.Mark("bold", nil)
	link := s.Mark("link", map[string]any{"href": "x"})

	set := italic.AddToSet(nil)
	set = bold.AddToSet(set)
	set = link.AddToSet(set)
	require.Len(t, set, 3)
	assert.Equal(t, "link", set[0].Type().Name)
	assert.Equal(t, "bold", set[1].Type().Name)
	assert.Equal(t, "italic", set[2].Type().Name)

	other := s.Mark("link", map[string]any{"href": "y"})
	set = other.AddToSet(set)
	require.Len(t, set, 3)
	assert.Equal(t, "y", set[0].Attr("href"))

	set = bold.RemoveFromSet(set)
	assert.Len(t, set, 2)
	assert.False(t, bold.IsInSet(set))
}

func TestContentExpr(t *testing.T) {
	s := testSchema(t)
	p := s.NodeType("paragraph")
	doc := s.NodeType("doc")

	assert.False(t, doc.ValidContent(EmptyFragment), "block+ requires a block")
	assert.True(t, doc.ValidContent(FragmentFrom(s.Node("paragraph", nil))))
	assert.False(t, doc.ValidContent(FragmentFrom(s.Text("x"))))
	assert.True(t, p.ValidContent(EmptyFragment))
	assert.True(t, p.InlineContent())
	assert.True(t, p.IsTextblock())
	assert.False(t, doc.IsBlock())

	filled := doc.CreateAndFill(nil, nil, nil)
	require.NotNil(t, filled)
	assert.Equal(t, "doc(paragraph)", filled.String())

	assert.Equal(t, p, doc.DefaultTextblockAt(EmptyFragment, 0))
}

func TestNewSchemaErrors(t *testing.T) {
	_, err := NewSchema(&SchemaSpec{Nodes: []*NodeSpec{{Name: "doc", Content: "block+"}}})
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = NewSchema(&SchemaSpec{Nodes: []*NodeSpec{
		{Name: "doc", Content: "missing+"},
		{Name: "text"},
	}})
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestCloneHasFreshIdentity(t *testing.T) {
	b := builder{testSchema(t)}
	doc := b.doc(b.p(b.text("one")))

	c := doc.Child(0).Clone()
	assert.NotSame(t, doc.Child(0), c)
	assert.True(t, doc.Child(0).Eq(c))
}
