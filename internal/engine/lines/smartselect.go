package lines

import (
	"sync"
	"time"

	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/state"
)

// DefaultSelectAllTimeout is the idle time after which SmartSelectAll
// starts over from the innermost block.
const DefaultSelectAllTimeout = 2000 * time.Millisecond

// SelectLevel is a stage of the progressive select-all cycle.
type SelectLevel uint8

const (
	// LevelNone means no cycle is in progress.
	LevelNone SelectLevel = iota
	// LevelBlock selects the innermost block around the cursor.
	LevelBlock
	// LevelGroup selects the run of non-empty sibling blocks around it.
	LevelGroup
	// LevelDocument selects the whole document.
	LevelDocument
)

// String returns a string representation of the level.
func (l SelectLevel) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelBlock:
		return "block"
	case LevelGroup:
		return "group"
	case LevelDocument:
		return "document"
	default:
		return "unknown"
	}
}

// SmartSelect tracks the progressive select-all cycle. The cycle lives
// outside the document: it restarts after the idle timeout or when the
// selection no longer matches the one it produced.
type SmartSelect struct {
	mu sync.Mutex

	// Configuration
	timeout time.Duration
	now     func() time.Time

	// Last invocation state
	level    SelectLevel
	lastTime time.Time
	lastSel  state.Selection
	origin   int
}

// SmartSelectOption configures a SmartSelect.
type SmartSelectOption func(*SmartSelect)

// WithTimeout sets the idle timeout.
func WithTimeout(d time.Duration) SmartSelectOption {
	return func(s *SmartSelect) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) SmartSelectOption {
	return func(s *SmartSelect) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSmartSelect creates a progressive select-all tracker.
func NewSmartSelect(opts ...SmartSelectOption) *SmartSelect {
	s := &SmartSelect{
		timeout: DefaultSelectAllTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Level returns the level reached by the last invocation.
func (s *SmartSelect) Level() SelectLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Reset clears the cycle.
func (s *SmartSelect) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = LevelNone
	s.lastTime = time.Time{}
}

// Command returns the smartSelectAll command. Each invocation advances
// the cycle: block interior, paragraph group, whole document, then back
// to the block. A dry run does not advance the cycle.
func (s *SmartSelect) Command() state.Command {
	return func(st *state.EditorState, dispatch state.Dispatch) bool {
		s.mu.Lock()
		defer s.mu.Unlock()

		now := s.now()
		level, origin := s.level, s.origin
		if !s.continues(st, now) {
			level = LevelNone
			origin = st.Selection.Head
		}
		next := level%3 + 1

		sel, ok := levelSelection(st.Doc, origin, next)
		if !ok {
			return false
		}
		if dispatch == nil {
			return true
		}
		dispatch(st.Tr().SetSelection(sel))
		s.level = next
		s.lastTime = now
		s.lastSel = sel
		s.origin = origin
		return true
	}
}

// continues reports whether an invocation at now on st is part of the
// current cycle.
func (s *SmartSelect) continues(st *state.EditorState, now time.Time) bool {
	if s.level == LevelNone || s.lastTime.IsZero() {
		return false
	}
	// Handle clock skew: a negative elapsed time starts a new cycle
	elapsed := now.Sub(s.lastTime)
	if elapsed < 0 || elapsed > s.timeout {
		return false
	}
	if s.origin > st.Doc.Content().Size() {
		return false
	}
	return st.Selection.Eq(s.lastSel)
}

// levelSelection computes the selection for level around origin.
func levelSelection(doc *model.Node, origin int, level SelectLevel) (state.Selection, bool) {
	if level == LevelDocument {
		return state.AllSelection(doc), true
	}

	r := doc.Resolve(origin)
	if !r.Parent().InlineContent() {
		near := state.Near(doc, origin, 1)
		if near.IsAll() {
			return state.AllSelection(doc), true
		}
		r = doc.Resolve(near.Head)
	}
	d := r.Depth
	if d == 0 {
		return state.AllSelection(doc), true
	}

	if level == LevelBlock {
		return blockSelection(r, d), true
	}

	parent := r.Node(d - 1)
	index := r.Index(d - 1)
	if isEmptyBlock(parent.Child(index)) {
		return blockSelection(r, d), true
	}
	first, last := index, index
	for first > 0 && !isEmptyBlock(parent.Child(first-1)) {
		first--
	}
	for last < parent.ChildCount()-1 && !isEmptyBlock(parent.Child(last+1)) {
		last++
	}

	pos := r.Start(d - 1)
	var from, to int
	for i := 0; i <= last; i++ {
		if i == first {
			from = pos
		}
		pos += parent.Child(i).NodeSize()
	}
	to = pos
	return state.NewTextSelection(from+1, to-1), true
}

// blockSelection selects the interior of the block at depth d, or the
// block itself when it is empty.
func blockSelection(r *model.ResolvedPos, d int) state.Selection {
	start, end := r.Start(d), r.End(d)
	if start == end {
		return state.NewTextSelection(r.Before(d), r.After(d))
	}
	return state.NewTextSelection(start, end)
}

func isEmptyBlock(n *model.Node) bool {
	return !n.IsLeaf() && n.Content().Size() == 0
}
