package history

import (
	"github.com/dshills/inkwell/internal/engine/state"
)

// Undo reverts the newest recorded change and restores the selection it
// was made from.
func Undo() state.Command { return travel(false) }

// Redo reapplies the newest undone change.
func Redo() state.Command { return travel(true) }

// UndoDepth returns the number of undoable changes in s.
func UndoDepth(s *state.EditorState) int { return Get(s).UndoDepth() }

// RedoDepth returns the number of redoable changes in s.
func RedoDepth(s *state.EditorState) int { return Get(s).RedoDepth() }

func travel(redo bool) state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		hist, ok := Key.Get(s).(*State)
		if !ok {
			return false
		}
		stack := hist.undo
		if redo {
			stack = hist.redo
		}
		if len(stack) == 0 {
			return false
		}
		if dispatch == nil {
			return true
		}

		e := stack[len(stack)-1]
		tr := s.Tr()
		for _, step := range e.Steps {
			tr.MaybeStep(step)
		}
		back := &Entry{
			ID:          e.ID,
			Steps:       invertSteps(tr.Transform),
			Selection:   s.Selection,
			Description: e.Description,
			Timestamp:   e.Timestamp,
		}
		tr.SetSelection(restoreSelection(tr.Doc, e.Selection))
		tr.SetMeta(Key, hist.move(redo, back))
		tr.SetMeta(state.MetaAddToHistory, false)
		dispatch(tr)
		return true
	}
}
