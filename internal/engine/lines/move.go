package lines

import (
	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/state"
)

// Direction is the direction a line command moves or copies blocks.
type Direction int

const (
	// Up moves towards the start of the document.
	Up Direction = iota
	// Down moves towards the end of the document.
	Down
)

// String returns the direction name.
func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// relSelection is a selection stored as offsets from the start of a block
// range so it can be rebuilt after the blocks move.
type relSelection struct {
	anchor, head int
}

func relativeTo(sel state.Selection, base int) relSelection {
	return relSelection{anchor: sel.Anchor - base, head: sel.Head - base}
}

func (r relSelection) at(doc *model.Node, base int) state.Selection {
	size := doc.Content().Size()
	return state.NewTextSelection(clamp(base+r.anchor, 0, size), clamp(base+r.head, 0, size))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// MoveLine moves the selected blocks past their neighbour in dir. It does
// not apply when the blocks are already first (up) or last (down).
func MoveLine(dir Direction) state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		br, ok := SelectedBlockRange(s)
		if !ok {
			return false
		}
		var target int
		switch dir {
		case Up:
			if br.StartIndex == 0 {
				return false
			}
			target = br.From - s.Doc.Child(br.StartIndex-1).NodeSize()
		default:
			if br.EndIndex >= s.Doc.ChildCount() {
				return false
			}
			// Position after the next sibling once the range is removed.
			target = br.From + s.Doc.Child(br.EndIndex).NodeSize()
		}
		if dispatch == nil {
			return true
		}

		rel := relativeTo(s.Selection, br.From)
		blocks := br.Content(s.Doc).Children()
		tr := s.Tr()
		if err := tr.Delete(br.From, br.To); err != nil {
			return false
		}
		if err := tr.Insert(target, blocks...); err != nil {
			return false
		}
		tr.SetSelection(rel.at(tr.Doc, target))
		dispatch(tr)
		return true
	}
}

// MoveLineUp moves the selected blocks above the previous block.
func MoveLineUp() state.Command { return MoveLine(Up) }

// MoveLineDown moves the selected blocks below the next block.
func MoveLineDown() state.Command { return MoveLine(Down) }

// CopyLine inserts a copy of the selected blocks before (up) or after
// (down) them and selects the copy. The original blocks are unchanged.
func CopyLine(dir Direction) state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		br, ok := SelectedBlockRange(s)
		if !ok {
			return false
		}
		if dispatch == nil {
			return true
		}

		rel := relativeTo(s.Selection, br.From)
		content := br.Content(s.Doc)
		copies := make([]*model.Node, 0, content.ChildCount())
		for _, n := range content.Children() {
			copies = append(copies, n.Clone())
		}
		target := br.To
		if dir == Up {
			target = br.From
		}
		tr := s.Tr()
		if err := tr.Insert(target, copies...); err != nil {
			return false
		}
		tr.SetSelection(rel.at(tr.Doc, target))
		dispatch(tr)
		return true
	}
}

// CopyLineUp copies the selected blocks above themselves.
func CopyLineUp() state.Command { return CopyLine(Up) }

// CopyLineDown copies the selected blocks below themselves.
func CopyLineDown() state.Command { return CopyLine(Down) }

// DeleteLine deletes the selected blocks. Deleting every block leaves an
// empty default block behind.
func DeleteLine() state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		br, ok := SelectedBlockRange(s)
		if !ok {
			return false
		}
		if dispatch == nil {
			return true
		}
		tr := s.Tr()
		var err error
		if br.Len() == s.Doc.ChildCount() {
			empty := s.Doc.Type().CreateAndFill(nil, nil, nil)
			err = tr.ReplaceWith(br.From, br.To, empty.Content().Children()...)
		} else {
			err = tr.Delete(br.From, br.To)
		}
		if err != nil {
			return false
		}
		dispatch(tr)
		return true
	}
}
