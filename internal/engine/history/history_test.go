package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/schema"
	"github.com/dshills/inkwell/internal/engine/state"
)

var b = schema.NewBuilder(nil)

func newState(t *testing.T, doc *model.Node, sel state.Selection, opts ...Option) *state.EditorState {
	t.Helper()
	s, err := state.New(state.Config{Doc: doc, Selection: &sel, Plugins: []*state.Plugin{New(opts...)}})
	require.NoError(t, err)
	return s
}

func run(t *testing.T, cmd state.Command, s *state.EditorState) *state.EditorState {
	t.Helper()
	next, ok := state.Run(cmd, s)
	require.True(t, ok, "command should apply")
	return next
}

// typeText inserts text at the selection, configuring the transaction
// with setup first.
func typeText(t *testing.T, s *state.EditorState, text string, setup func(*state.Transaction)) *state.EditorState {
	t.Helper()
	tr := s.Tr()
	if setup != nil {
		setup(tr)
	}
	require.NoError(t, tr.InsertText(text))
	return s.Apply(tr)
}

func TestUndoRedo(t *testing.T) {
	s := newState(t, b.Doc(b.P(b.T("ab"))), state.Cursor(2))
	s = typeText(t, s, "x", nil)
	require.Equal(t, "axb", s.Doc.TextContent())
	assert.Equal(t, 1, UndoDepth(s))

	s = run(t, Undo(), s)
	assert.True(t, b.Doc(b.P(b.T("ab"))).Eq(s.Doc), "got %s", s.Doc)
	assert.Equal(t, state.Cursor(2), s.Selection)
	assert.Equal(t, 0, UndoDepth(s))
	assert.Equal(t, 1, RedoDepth(s))

	s = run(t, Redo(), s)
	assert.Equal(t, "axb", s.Doc.TextContent())
	assert.Equal(t, state.Cursor(3), s.Selection)
	assert.Equal(t, 1, UndoDepth(s))
	assert.Equal(t, 0, RedoDepth(s))

	t.Run("nothing to undo", func(t *testing.T) {
		s := newState(t, b.EmptyDoc(), state.Cursor(1))
		assert.False(t, Undo()(s, nil))
		assert.False(t, Redo()(s, nil))
	})

	t.Run("dry run", func(t *testing.T) {
		assert.True(t, state.CanRun(Undo(), s))
		assert.Equal(t, 1, UndoDepth(s))
	})

	t.Run("without plugin", func(t *testing.T) {
		st, err := state.New(state.Config{Doc: b.EmptyDoc()})
		require.NoError(t, err)
		assert.False(t, Undo()(st, nil))
		assert.Same(t, Empty, Get(st))
	})
}

func TestNewChangeClearsRedo(t *testing.T) {
	s := newState(t, b.Doc(b.P(b.T("ab"))), state.Cursor(2))
	s = typeText(t, s, "x", nil)
	s = run(t, Undo(), s)
	require.Equal(t, 1, RedoDepth(s))

	s = typeText(t, s, "y", nil)
	assert.Equal(t, 0, RedoDepth(s))
	assert.Equal(t, 1, UndoDepth(s))
	assert.False(t, Redo()(s, nil))
}

func TestUnrecordedChangesAreMapped(t *testing.T) {
	s := newState(t, b.Doc(b.P(b.T("abc"))), state.Cursor(4))
	s = typeText(t, s, "X", nil)
	require.Equal(t, "abcX", s.Doc.TextContent())

	tr := s.Tr()
	require.NoError(t, tr.Transform.InsertText(1, "Z", nil))
	tr.SetMeta(state.MetaAddToHistory, false)
	s = s.Apply(tr)
	require.Equal(t, "ZabcX", s.Doc.TextContent())
	assert.Equal(t, 1, UndoDepth(s), "unrecorded change is not an entry")

	s = run(t, Undo(), s)
	assert.Equal(t, "Zabc", s.Doc.TextContent())
	assert.Equal(t, state.Cursor(5), s.Selection)
}

func TestMaxEntries(t *testing.T) {
	s := newState(t, b.Doc(b.P()), state.Cursor(1), WithMaxEntries(2))
	for _, text := range []string{"a", "b", "c"} {
		s = typeText(t, s, text, nil)
	}
	assert.Equal(t, 2, UndoDepth(s))

	s = run(t, Undo(), s)
	s = run(t, Undo(), s)
	assert.Equal(t, "a", s.Doc.TextContent(), "the oldest change is forgotten")
	assert.False(t, Undo()(s, nil))
}

func TestGrouping(t *testing.T) {
	base := time.Unix(1000, 0)
	at := func(d time.Duration, event string) func(*state.Transaction) {
		return func(tr *state.Transaction) {
			tr.Time = base.Add(d)
			tr.SetMeta(state.MetaUIEvent, event)
		}
	}

	t.Run("same event within delay", func(t *testing.T) {
		s := newState(t, b.Doc(b.P()), state.Cursor(1))
		s = typeText(t, s, "a", at(0, "input"))
		s = typeText(t, s, "b", at(100*time.Millisecond, "input"))
		s = typeText(t, s, "c", at(2*time.Second, "input"))
		assert.Equal(t, 2, UndoDepth(s))

		info, ok := Get(s).PeekUndo()
		require.True(t, ok)
		assert.Equal(t, "input", info.Description)

		s = run(t, Undo(), s)
		assert.Equal(t, "ab", s.Doc.TextContent())
		s = run(t, Undo(), s)
		assert.Equal(t, "", s.Doc.TextContent())
		assert.Equal(t, state.Cursor(1), s.Selection)
	})

	t.Run("different events", func(t *testing.T) {
		s := newState(t, b.Doc(b.P()), state.Cursor(1))
		s = typeText(t, s, "a", at(0, "input"))
		s = typeText(t, s, "b", at(10*time.Millisecond, "paste"))
		assert.Equal(t, 2, UndoDepth(s))
	})

	t.Run("explicit group", func(t *testing.T) {
		s := newState(t, b.Doc(b.P()), state.Cursor(1), WithGroupDelay(0))
		group := func(tr *state.Transaction) { tr.SetMeta(MetaGroup, "macro-1") }
		s = typeText(t, s, "a", group)
		s = typeText(t, s, "b", group)
		s = typeText(t, s, "c", nil)
		assert.Equal(t, 2, UndoDepth(s))
		assert.Len(t, Get(s).UndoInfo(), 2)

		s = run(t, Undo(), s)
		s = run(t, Undo(), s)
		assert.Equal(t, "", s.Doc.TextContent())
	})
}

func TestUndoMarks(t *testing.T) {
	doc := b.Doc(b.P(b.T("ab")))
	s := newState(t, doc, state.NewTextSelection(1, 3))
	tr := s.Tr()
	tr.AddMark(1, 3, b.Bold())
	s = s.Apply(tr)
	require.False(t, doc.Eq(s.Doc))

	s = run(t, Undo(), s)
	assert.True(t, doc.Eq(s.Doc), "got %s", s.Doc)
	assert.Equal(t, state.NewTextSelection(1, 3), s.Selection)
}
