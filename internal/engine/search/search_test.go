package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/schema"
	"github.com/dshills/inkwell/internal/engine/state"
)

var b = schema.NewBuilder(nil)

func newEditorState(t *testing.T, doc *model.Node, opts ...Option) *state.EditorState {
	t.Helper()
	s, err := state.New(state.Config{Doc: doc, Plugins: []*state.Plugin{New(opts...)}})
	require.NoError(t, err)
	return s
}

func run(t *testing.T, cmd state.Command, s *state.EditorState) *state.EditorState {
	t.Helper()
	next, ok := state.Run(cmd, s)
	require.True(t, ok, "command should apply")
	return next
}

func TestFind(t *testing.T) {
	tests := []struct {
		name  string
		doc   *model.Node
		query string
		want  []Match
	}{
		{"overlapping", b.Doc(b.P(b.T("aaaa"))), "aa", []Match{{1, 3}, {2, 4}, {3, 5}}},
		{"case insensitive", b.Doc(b.P(b.T("Foo fOO"))), "FOO", []Match{{1, 4}, {5, 8}}},
		{"across blocks", b.Doc(b.P(b.T("ab")), b.P(b.T("ab"))), "b", []Match{{2, 3}, {6, 7}}},
		{"within text runs", b.Doc(b.P(b.T("ab", b.Bold()), b.T("cd"))), "bc", nil},
		{"after a leaf", b.Doc(b.P(b.T("a"), b.BR(), b.T("a"))), "a", []Match{{1, 2}, {3, 4}}},
		{"empty query", b.Doc(b.P(b.T("a"))), "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Find(tt.doc, tt.query))
		})
	}
}

func TestSetQuery(t *testing.T) {
	s := newEditorState(t, b.Doc(b.P(b.T("aaaa"))))
	assert.Equal(t, -1, Get(s).Current)

	s = run(t, SetQuery("aa"), s)
	st := Get(s)
	assert.Equal(t, "aa", st.Query)
	assert.Len(t, st.Matches, 3)
	assert.Equal(t, 0, st.Current)

	decos := s.Decorations().All()
	require.Len(t, decos, 3)
	assert.Equal(t, ClassCurrent, decos[0].Class)
	assert.Equal(t, ClassMatch, decos[1].Class)

	s = run(t, SetQuery("zz"), s)
	assert.Empty(t, Get(s).Matches)
	assert.Equal(t, -1, Get(s).Current)
	assert.False(t, NextMatch()(s, nil))

	t.Run("without plugin", func(t *testing.T) {
		s, err := state.New(state.Config{Doc: b.EmptyDoc()})
		require.NoError(t, err)
		assert.False(t, SetQuery("a")(s, nil))
		assert.Same(t, Empty, Get(s))
	})
}

func TestNavigationWraps(t *testing.T) {
	s := run(t, SetQuery("aa"), newEditorState(t, b.Doc(b.P(b.T("aaaa")))))

	s = run(t, PrevMatch(), s)
	assert.Equal(t, 2, Get(s).Current)
	assert.Equal(t, state.NewTextSelection(3, 5), s.Selection)

	s = run(t, NextMatch(), s)
	assert.Equal(t, 0, Get(s).Current)
	assert.Equal(t, state.NewTextSelection(1, 3), s.Selection)

	s = run(t, NextMatch(), s)
	assert.Equal(t, 1, Get(s).Current)
	m, ok := Get(s).CurrentMatch()
	require.True(t, ok)
	assert.Equal(t, Match{2, 4}, m)

	current := s.Decorations().Find(0, s.Doc.Content().Size(), nil)
	require.Len(t, current, 3)
	assert.Equal(t, ClassCurrent, current[1].Class)
}

func TestStep(t *testing.T) {
	st := &State{Matches: make([]Match, 3), Current: 2}
	assert.Equal(t, 0, st.Step(1))
	st.Current = 0
	assert.Equal(t, 2, st.Step(-1))
	assert.Equal(t, -1, (&State{Current: -1}).Step(1))
}

func TestClose(t *testing.T) {
	s := newEditorState(t, b.Doc(b.P(b.T("aaaa"))))
	assert.False(t, Close()(s, nil))

	s = run(t, SetQuery("a"), s)
	s = run(t, Close(), s)
	assert.Same(t, Empty, Get(s))
	assert.Equal(t, 0, s.Decorations().Len())
}

func TestRescanOnDocChange(t *testing.T) {
	var scans []int
	hook := WithRescanHook(func(_ string, n int) { scans = append(scans, n) })

	// "x x x": matches at 1, 3 and 5.
	s := run(t, SetQuery("X"), newEditorState(t, b.Doc(b.P(b.T("x x x"))), hook))
	s = run(t, NextMatch(), s)
	s = run(t, NextMatch(), s)
	require.Equal(t, 2, Get(s).Current)

	tr := s.Tr()
	require.NoError(t, tr.Delete(2, 6))
	s = s.Apply(tr)
	assert.Equal(t, []Match{{1, 2}}, Get(s).Matches)
	assert.Equal(t, 0, Get(s).Current, "current is clamped to the new match count")

	tr = s.Tr()
	require.NoError(t, tr.Transform.InsertText(2, "xx", nil))
	s = s.Apply(tr)
	assert.Len(t, Get(s).Matches, 3)
	assert.Equal(t, 0, Get(s).Current)

	assert.Equal(t, []int{3, 1, 3}, scans)

	t.Run("selection change keeps matches", func(t *testing.T) {
		before := Get(s)
		next := s.Apply(s.Tr().SetSelection(state.Cursor(1)))
		assert.Same(t, before, Get(next))
	})

	t.Run("no query maps decorations", func(t *testing.T) {
		s := newEditorState(t, b.Doc(b.P(b.T("abc"))), hook)
		tr := s.Tr()
		require.NoError(t, tr.Delete(1, 2))
		s = s.Apply(tr)
		assert.Equal(t, "", Get(s).Query)
		assert.Equal(t, 0, s.Decorations().Len())
		assert.Equal(t, []int{3, 1, 3}, scans, "no rescan without a query")
	})
}
