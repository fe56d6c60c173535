package commands

import "github.com/dshills/inkwell/internal/engine/state"

// SelectAll selects the whole document.
func SelectAll(s *state.EditorState, dispatch state.Dispatch) bool {
	if dispatch != nil {
		dispatch(s.Tr().SetSelection(state.AllSelection(s.Doc)))
	}
	return true
}

// DeleteSelection deletes the selected content. It does not apply to an
// empty selection.
func DeleteSelection(s *state.EditorState, dispatch state.Dispatch) bool {
	if s.Selection.IsEmpty() {
		return false
	}
	tr := s.Tr()
	if err := tr.DeleteSelection(); err != nil {
		return false
	}
	if dispatch != nil {
		dispatch(tr)
	}
	return true
}

// InsertText replaces the selection with text, applying the stored marks.
func InsertText(text string) state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		if text == "" {
			return false
		}
		tr := s.Tr()
		if err := tr.InsertText(text); err != nil {
			return false
		}
		if dispatch != nil {
			dispatch(tr)
		}
		return true
	}
}
