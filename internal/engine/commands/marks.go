package commands

import (
	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/schema"
	"github.com/dshills/inkwell/internal/engine/state"
)

// markApplies reports whether some textblock in [from, to] allows mt.
func markApplies(doc *model.Node, from, to int, mt *model.MarkType) bool {
	r := doc.Resolve(from)
	can := r.Depth == 0 && doc.InlineContent() && doc.Type().AllowsMarkType(mt)
	doc.NodesBetween(from, to, func(node *model.Node, _ int, _ *model.Node, _ int) bool {
		if can {
			return false
		}
		can = node.InlineContent() && node.Type().AllowsMarkType(mt)
		return true
	})
	return can
}

// cursorMarks returns the stored marks or, when none are stored, the marks
// at the cursor.
func cursorMarks(s *state.EditorState, pos int) []*model.Mark {
	if s.StoredMarks != nil {
		return s.StoredMarks
	}
	return s.Doc.Resolve(pos).Marks()
}

// ToggleMark toggles the named mark. On a range it removes the mark when
// any character in the range carries it and adds it otherwise. On a
// cursor it toggles the stored marks and leaves the document alone.
func ToggleMark(name string, attrs map[string]any) state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		mt := s.Schema.MarkType(name)
		if mt == nil {
			return false
		}
		sel := s.Selection
		if !markApplies(s.Doc, sel.From(), sel.To(), mt) {
			return false
		}
		if dispatch == nil {
			return true
		}
		tr := s.Tr()
		if pos, ok := sel.CursorPos(); ok {
			if mt.IsInSet(cursorMarks(s, pos)) != nil {
				tr.RemoveStoredMark(mt)
			} else {
				tr.AddStoredMark(mt.Create(attrs))
			}
		} else if s.Doc.RangeHasMark(sel.From(), sel.To(), mt) {
			tr.RemoveMark(sel.From(), sel.To(), mt)
		} else {
			tr.AddMark(sel.From(), sel.To(), mt.Create(attrs))
		}
		dispatch(tr)
		return true
	}
}

// ApplyMark sets the named mark with attrs across the selection, replacing
// any mark of the same type. On a cursor it updates the stored marks.
func ApplyMark(name string, attrs map[string]any) state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		mt := s.Schema.MarkType(name)
		if mt == nil {
			return false
		}
		sel := s.Selection
		if !markApplies(s.Doc, sel.From(), sel.To(), mt) {
			return false
		}
		if dispatch == nil {
			return true
		}
		mark := mt.Create(attrs)
		tr := s.Tr()
		if _, ok := sel.CursorPos(); ok {
			tr.AddStoredMark(mark)
		} else {
			tr.AddMark(sel.From(), sel.To(), mark)
		}
		dispatch(tr)
		return true
	}
}

// RemoveMark removes the named mark from the selection, or from the stored
// marks on a cursor.
func RemoveMark(name string) state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		mt := s.Schema.MarkType(name)
		if mt == nil {
			return false
		}
		if dispatch == nil {
			return true
		}
		sel := s.Selection
		tr := s.Tr()
		if _, ok := sel.CursorPos(); ok {
			tr.RemoveStoredMark(mt)
		} else {
			tr.RemoveMark(sel.From(), sel.To(), mt)
		}
		dispatch(tr)
		return true
	}
}

// ClearFormatting removes every formatting mark from the selection, or
// from the stored marks on a cursor, in one transaction.
func ClearFormatting() state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		var types []*model.MarkType
		for _, name := range schema.FormattingMarks {
			if mt := s.Schema.MarkType(name); mt != nil {
				types = append(types, mt)
			}
		}
		if len(types) == 0 {
			return false
		}
		if dispatch == nil {
			return true
		}
		sel := s.Selection
		tr := s.Tr()
		if pos, ok := sel.CursorPos(); ok {
			marks := cursorMarks(s, pos)
			for _, mt := range types {
				marks = mt.RemoveFromSet(marks)
			}
			tr.EnsureMarks(marks)
		} else {
			for _, mt := range types {
				tr.RemoveMark(sel.From(), sel.To(), mt)
			}
		}
		dispatch(tr)
		return true
	}
}

// IsMarkActive reports whether the named mark is active. For a cursor it
// checks the stored marks, or the marks at the cursor when none are stored.
// For a range it reports whether any character carries the mark.
func IsMarkActive(s *state.EditorState, name string) bool {
	mt := s.Schema.MarkType(name)
	if mt == nil {
		return false
	}
	sel := s.Selection
	if pos, ok := sel.CursorPos(); ok {
		return mt.IsInSet(cursorMarks(s, pos)) != nil
	}
	return s.Doc.RangeHasMark(sel.From(), sel.To(), mt)
}

// ActiveMark returns the mark of the named type that governs the
// selection: on a cursor the stored or cursor mark, on a range the mark on
// the first text run at or after the selection start. It returns nil when
// that run does not carry the mark.
func ActiveMark(s *state.EditorState, name string) *model.Mark {
	mt := s.Schema.MarkType(name)
	if mt == nil {
		return nil
	}
	sel := s.Selection
	if pos, ok := sel.CursorPos(); ok {
		return mt.IsInSet(cursorMarks(s, pos))
	}
	var found *model.Mark
	seen := false
	s.Doc.NodesBetween(sel.From(), sel.To(), func(node *model.Node, _ int, _ *model.Node, _ int) bool {
		if seen {
			return false
		}
		if node.IsText() {
			seen = true
			found = mt.IsInSet(node.Marks())
		}
		return true
	})
	return found
}

// MarkAttr returns an attribute of the active mark of the named type.
func MarkAttr(s *state.EditorState, name, attr string) (any, bool) {
	m := ActiveMark(s, name)
	if m == nil {
		return nil, false
	}
	v, ok := m.Attrs()[attr]
	return v, ok
}
