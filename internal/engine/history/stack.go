package history

import (
	"errors"
	"time"

	"github.com/dshills/inkwell/internal/engine/transform"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is the default undo depth.
const DefaultMaxEntries = 100

// State is the history plugin value. It is immutable; every change
// returns a new State.
type State struct {
	undo []*Entry
	redo []*Entry

	// Last recorded transaction, for grouping
	lastTime  time.Time
	lastEvent string
	lastGroup any
}

// Empty is the state with no history.
var Empty = &State{}

// UndoDepth returns the number of undoable entries.
func (s *State) UndoDepth() int { return len(s.undo) }

// RedoDepth returns the number of redoable entries.
func (s *State) RedoDepth() int { return len(s.redo) }

// PeekUndo returns the entry the next undo reverts.
func (s *State) PeekUndo() (Info, bool) { return peek(s.undo) }

// PeekRedo returns the entry the next redo reapplies.
func (s *State) PeekRedo() (Info, bool) { return peek(s.redo) }

func peek(stack []*Entry) (Info, bool) {
	if len(stack) == 0 {
		return Info{}, false
	}
	return stack[len(stack)-1].info(), true
}

// UndoInfo returns the undo entries, oldest first.
func (s *State) UndoInfo() []Info { return infos(s.undo) }

// RedoInfo returns the redo entries, oldest first.
func (s *State) RedoInfo() []Info { return infos(s.redo) }

func infos(stack []*Entry) []Info {
	out := make([]Info, len(stack))
	for i, e := range stack {
		out[i] = e.info()
	}
	return out
}

// push records a new change. It clears the redo stack and drops the
// oldest entries beyond maxEntries.
func (s *State) push(e *Entry, maxEntries int, event string, group any) *State {
	undo := append(s.undo[:len(s.undo):len(s.undo)], e)
	if maxEntries > 0 && len(undo) > maxEntries {
		undo = undo[len(undo)-maxEntries:]
	}
	return &State{undo: undo, lastTime: e.Timestamp, lastEvent: event, lastGroup: group}
}

// extend merges a change into the newest undo entry.
func (s *State) extend(e *Entry, event string, group any) *State {
	top := len(s.undo) - 1
	undo := append(s.undo[:top:top], e.merge(s.undo[top]))
	return &State{undo: undo, lastTime: e.Timestamp, lastEvent: event, lastGroup: group}
}

// move pops the top of one stack and pushes e onto the other.
func (s *State) move(redo bool, e *Entry) *State {
	from, to := s.undo, s.redo
	if redo {
		from, to = s.redo, s.undo
	}
	from = from[: len(from)-1 : len(from)-1]
	to = append(to[:len(to):len(to)], e)
	if redo {
		return &State{undo: to, redo: from}
	}
	return &State{undo: from, redo: to}
}

// rebase maps every entry through m, a change that is not recorded.
func (s *State) rebase(m *transform.Mapping) *State {
	out := *s
	out.undo = rebaseStack(s.undo, m)
	out.redo = rebaseStack(s.redo, m)
	return &out
}

func rebaseStack(stack []*Entry, m *transform.Mapping) []*Entry {
	if len(stack) == 0 {
		return stack
	}
	out := make([]*Entry, len(stack))
	cur := m
	for i := len(stack) - 1; i >= 0; i-- {
		out[i], cur = stack[i].rebase(cur)
	}
	return out
}
