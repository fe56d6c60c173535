package engine

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/schema"
	"github.com/dshills/inkwell/internal/engine/search"
)

// stepClock advances by step on every reading.
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: step}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}

type recordLogger struct {
	mu    sync.Mutex
	warns []string
	debug []string
}

func (l *recordLogger) Debug(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, fmt.Sprintf(format, args...))
}

func (l *recordLogger) Info(string, ...any) {}

func (l *recordLogger) Warn(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func (l *recordLogger) Error(string, ...any) {}

// ============================================================================
// Creation
// ============================================================================

func TestNew(t *testing.T) {
	e := New()

	assert.True(t, schema.NewBuilder(nil).EmptyDoc().Eq(e.Doc()))
	out, err := e.Markup()
	require.NoError(t, err)
	assert.Equal(t, "<p></p>", out)
	assert.Equal(t, Status{Line: 1, Column: 1, From: 1, To: 1, Empty: true}, e.Status())
}

func TestNewWithContent(t *testing.T) {
	e := New(WithContent("<p>one</p><p>two</p>"))
	assert.Equal(t, "one\ntwo", e.Text())
}

func TestNewMalformedContent(t *testing.T) {
	log := &recordLogger{}
	e := New(WithContent("<p>\xff</p>"), WithLogger(log))

	assert.True(t, schema.NewBuilder(nil).EmptyDoc().Eq(e.Doc()))
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "empty document")
}

func TestNewFromReader(t *testing.T) {
	e, err := NewFromReader(strings.NewReader("<h1>Title</h1>"))
	require.NoError(t, err)
	assert.Equal(t, "Title", e.Text())
}

// ============================================================================
// Commands
// ============================================================================

func TestCommandRegistry(t *testing.T) {
	e := New()
	assert.Len(t, e.Commands(), 23)
	assert.True(t, e.HasCommand(CmdSmartSelectAll))

	s, err := schema.New(schema.WithoutMarks(schema.Bold, schema.Code))
	require.NoError(t, err)
	e = New(WithSchema(s))
	assert.False(t, e.HasCommand(CmdToggleBold))
	assert.False(t, e.HasCommand(CmdToggleCode))
	assert.True(t, e.HasCommand(CmdToggleItalic))
	assert.False(t, e.CanRun(CmdToggleBold))

	_, err = e.Run(CmdToggleBold)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRegister(t *testing.T) {
	e := New()
	require.NoError(t, e.Register("searchFoo", search.SetQuery("foo")))
	assert.ErrorIs(t, e.Register("searchFoo", search.SetQuery("foo")), ErrDuplicateCommand)

	ok, err := e.Run("searchFoo")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "foo", e.SearchState().Query)
}

func TestRunInapplicable(t *testing.T) {
	m := NewMetrics()
	log := &recordLogger{}
	e := New(WithContent("<p>one</p><p>two</p>"), WithMetrics(m), WithLogger(log))

	ok, err := e.Run(CmdMoveLineUp)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, e.CanRun(CmdMoveLineUp))
	assert.True(t, e.CanRun(CmdMoveLineDown))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands.WithLabelValues(CmdMoveLineUp, "inapplicable")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Transactions))
	assert.Contains(t, log.debug, "command moveLineUp not applicable")
}

func TestMoveLineUndoRedo(t *testing.T) {
	m := NewMetrics()
	e := New(WithContent("<p>one</p><p>two</p>"), WithMetrics(m), WithClock(newStepClock(time.Second).Now))
	require.NoError(t, e.SetSelection(2, 2))

	ok, err := e.Run(CmdMoveLineDown)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two\none", e.Text())
	assert.Equal(t, 2, e.Status().Line)
	assert.Equal(t, 1, e.UndoDepth())

	require.NoError(t, e.Undo())
	assert.Equal(t, "one\ntwo", e.Text())
	require.NoError(t, e.Redo())
	assert.Equal(t, "two\none", e.Text())
	assert.ErrorIs(t, e.Redo(), history.ErrNothingToRedo)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands.WithLabelValues(CmdMoveLineDown, "applied")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Transactions))
}

func TestUndoEmpty(t *testing.T) {
	assert.ErrorIs(t, New().Undo(), history.ErrNothingToUndo)
}

func TestTypingIsGrouped(t *testing.T) {
	e := New(WithClock(newStepClock(10 * time.Millisecond).Now))
	for _, s := range []string{"a", "b", "c"} {
		ok, err := e.InsertText(s)
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, "abc", e.Text())
	assert.Equal(t, 1, e.UndoDepth())
	require.NoError(t, e.Undo())
	assert.Equal(t, "", e.Text())
}

func TestMacroIsOneUndoStep(t *testing.T) {
	e := New(WithContent("<p>one</p><p>two</p>"), WithClock(newStepClock(time.Second).Now))
	require.NoError(t, e.SetSelection(1, 1))

	err := e.Macro(func() error {
		for range 2 {
			if _, err := e.Run(CmdCopyLineDown); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "one\none\none\ntwo", e.Text())
	assert.Equal(t, 1, e.UndoDepth())

	require.NoError(t, e.Undo())
	assert.Equal(t, "one\ntwo", e.Text())
}

func TestReadOnly(t *testing.T) {
	e := New(WithContent("<p>one</p><p>two</p>"), WithReadOnly())

	ok, err := e.Run(CmdDeleteLine)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.False(t, ok)
	assert.Equal(t, "one\ntwo", e.Text())

	ok, err = e.Run(CmdSelectAll)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, e.Selection().IsAll())
}

func TestSetSelectionOutOfRange(t *testing.T) {
	e := New(WithContent("<p>one</p>"))
	assert.ErrorIs(t, e.SetSelection(0, 99), ErrOffsetOutOfRange)
}

func TestMarkQueries(t *testing.T) {
	e := New(WithContent(`<p><strong>bold</strong> <span style="color: #ff0000">red</span></p>`))

	require.NoError(t, e.SetSelection(1, 5))
	assert.True(t, e.IsMarkActive(schema.Bold))

	require.NoError(t, e.SetSelection(6, 9))
	color, ok := e.MarkAttr(schema.TextColor, "color")
	require.True(t, ok)
	assert.Equal(t, "#ff0000", color)

	ok, err := e.Run(CmdClearFormatting)
	require.NoError(t, err)
	require.True(t, ok)
	_, ok = e.MarkAttr(schema.TextColor, "color")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	m := NewMetrics()
	e := New(WithContent("<p>aaaa</p>"), WithMetrics(m))

	n, err := e.Search("aa")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ok, err := e.Run(CmdSearchNext)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, e.SearchState().Current)
	assert.Equal(t, 2, e.Selection().From())
	assert.Equal(t, 4, e.Selection().To())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchRescans))
	assert.Equal(t, 3, e.Decorations().Len())

	ok, err = e.Run(CmdSearchClose)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, -1, e.SearchState().Current)
}

// ============================================================================
// Notifications
// ============================================================================

func TestCoalescedPersistence(t *testing.T) {
	sched := NewTickScheduler()
	e := New(WithScheduler(sched), WithClock(newStepClock(time.Second).Now))

	var saved []string
	e.OnContentChange(func(markup string) { saved = append(saved, markup) })

	_, _ = e.InsertText("a")
	_, _ = e.InsertText("b")
	assert.Equal(t, 1, sched.Pending())
	assert.Empty(t, saved)

	assert.Equal(t, 1, e.Tick())
	assert.Equal(t, []string{"<p>ab</p>"}, saved)
	assert.Equal(t, 0, e.Tick())

	// An edit undone within the frame serializes to the delivered markup.
	_, _ = e.InsertText("c")
	require.NoError(t, e.Undo())
	assert.Equal(t, 1, e.Tick())
	assert.Len(t, saved, 1)
}

func TestFlush(t *testing.T) {
	e := New(WithContent("<p>x</p>"))
	var saved []string
	e.OnContentChange(func(markup string) { saved = append(saved, markup) })

	out, err := e.Flush()
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", out)
	assert.Empty(t, saved)

	_, _ = e.InsertText("y")
	_, err = e.Flush()
	require.NoError(t, err)
	assert.Equal(t, []string{"<p>yx</p>"}, saved)
}

func TestSelectionListener(t *testing.T) {
	e := New(WithContent("<p>one</p><p>two</p>"))
	var got []Status
	e.OnSelectionChange(func(s Status) { got = append(got, s) })

	require.NoError(t, e.SetSelection(5, 5))
	require.Len(t, got, 1)
	assert.Equal(t, Status{Line: 2, Column: 1, From: 6, To: 6, Empty: true}, got[0])

	// Selecting the same position again is not a change.
	require.NoError(t, e.SetSelection(6, 6))
	assert.Len(t, got, 1)
}

func TestSetContent(t *testing.T) {
	e := New(WithContent("<p>one</p>"))
	_, _ = e.InsertText("x")
	e.SetContent("<p>fresh</p>")

	assert.Equal(t, "fresh", e.Text())
	assert.Equal(t, 0, e.UndoDepth())
}

func TestStatusGraphemes(t *testing.T) {
	e := New(WithContent("<p>\U0001F44D\U0001F3FDab</p>"))
	require.NoError(t, e.SetSelection(3, 3))
	assert.Equal(t, 2, e.Status().Column)
	require.NoError(t, e.SetSelection(1, 4))
	assert.Equal(t, "Ln 1, Col 3 (3 selected)", e.Status().String())
}

func TestStatusCodeBlockColumn(t *testing.T) {
	e := New(WithContent("<pre><code>ab\ncd</code></pre>"))
	require.NoError(t, e.SetSelection(5, 5))
	assert.Equal(t, "Ln 1, Col 2", e.Status().String())

	require.NoError(t, e.SetSelection(3, 3))
	assert.Equal(t, 3, e.Status().Column)
}

func TestStats(t *testing.T) {
	e := New(WithContent("<p>Hello, world!</p><ul><li><p>two words</p></li></ul>"))
	assert.Equal(t, Stats{Words: 4, Characters: 22, Blocks: 2}, e.Stats())
}

func TestMetricsRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics()
	require.NoError(t, m.Register(reg))
	require.NoError(t, m.Register(reg))
}

func TestIntervalScheduler(t *testing.T) {
	done := make(chan struct{})
	NewIntervalScheduler(time.Millisecond).Schedule(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled function did not run")
	}
}

func TestConcurrentQueries(t *testing.T) {
	e := New(WithContent("<p>one</p><p>two</p>"))
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = e.InsertText("x")
			} else {
				_ = e.Status()
				_ = e.Stats()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 4, strings.Count(e.Text(), "x"))
}
