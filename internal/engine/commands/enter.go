package commands

import (
	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/schema"
	"github.com/dshills/inkwell/internal/engine/state"
	"github.com/dshills/inkwell/internal/engine/transform"
)

// Enter splits the current list item inside a list, lifts an empty block
// out of its container, inserts a paragraph when the cursor sits between
// blocks, and otherwise splits the current block keeping the active marks.
func Enter() state.Command {
	return state.Chain(SplitListItem, LiftEmptyBlock, CreateParagraphNear, SplitBlockKeepMarks)
}

// SplitListItem splits the list item around the selection. An empty last
// paragraph of an item is left to LiftEmptyBlock.
func SplitListItem(s *state.EditorState, dispatch state.Dispatch) bool {
	itemType := s.Schema.NodeType(schema.ListItem)
	if itemType == nil {
		return false
	}
	sel := s.Selection
	if sel.IsAll() {
		return false
	}
	rFrom, rTo := s.Doc.Resolve(sel.From()), s.Doc.Resolve(sel.To())
	if rFrom.Depth < 2 || !rFrom.SameParent(rTo) || !rFrom.Parent().IsTextblock() {
		return false
	}
	item := rFrom.Node(-1)
	if item.Type() != itemType {
		return false
	}
	if rFrom.Parent().Content().Size() == 0 && item.ChildCount() == rFrom.IndexAfter(-1) {
		return false
	}

	var types []*transform.TypeAttrs
	if rTo.Pos == rFrom.End(rFrom.Depth) {
		if next := itemType.DefaultTextblockAt(model.EmptyFragment, 0); next != nil {
			types = []*transform.TypeAttrs{nil, {Type: next}}
		}
	}
	tr := s.Tr()
	if err := tr.Delete(rFrom.Pos, rTo.Pos); err != nil {
		return false
	}
	if !transform.CanSplit(tr.Doc, rFrom.Pos, 2, types...) {
		return false
	}
	if dispatch == nil {
		return true
	}
	if err := tr.Split(rFrom.Pos, 2, types...); err != nil {
		return false
	}
	dispatch(tr)
	return true
}

// LiftEmptyBlock handles an empty textblock at the cursor. When the block is
// not the last child of its container, the container is split before it.
// Otherwise the block, or the list item holding only it, is lifted out of
// its container.
func LiftEmptyBlock(s *state.EditorState, dispatch state.Dispatch) bool {
	pos, ok := s.Selection.CursorPos()
	if !ok {
		return false
	}
	r := s.Doc.Resolve(pos)
	if !r.Parent().IsTextblock() || r.Parent().Content().Size() > 0 || r.Depth < 2 {
		return false
	}

	if r.After(r.Depth) != r.End(r.Depth-1) && splitBefore(s, dispatch, r) {
		return true
	}

	itemDepth := r.Depth
	if listItem := s.Schema.NodeType(schema.ListItem); listItem != nil && r.Node(r.Depth-1).Type() == listItem {
		if r.Node(r.Depth-1).ChildCount() != 1 {
			// The empty paragraph trails other content in the item: move it
			// into an item of its own first.
			return splitBefore(s, dispatch, r)
		}
		itemDepth = r.Depth - 1
	}

	tr := s.Tr()
	cursor, err := liftOut(tr, r, itemDepth)
	if err != nil {
		return false
	}
	if dispatch != nil {
		tr.SetSelection(state.Cursor(cursor))
		dispatch(tr)
	}
	return true
}

func splitBefore(s *state.EditorState, dispatch state.Dispatch, r *model.ResolvedPos) bool {
	before := r.Before(r.Depth)
	if !transform.CanSplit(s.Doc, before, 1) {
		return false
	}
	if dispatch != nil {
		tr := s.Tr()
		if err := tr.Split(before, 1); err != nil {
			return false
		}
		dispatch(tr)
	}
	return true
}

// liftOut moves the node at itemDepth out of its parent container. The
// container is split around it and emptied halves disappear. The lifted
// node is replaced by the empty textblock at r. It returns the cursor
// position inside the lifted block.
func liftOut(tr *state.Transaction, r *model.ResolvedPos, itemDepth int) (int, error) {
	containerDepth := itemDepth - 1
	container := r.Node(containerDepth)
	block := r.Parent()
	index, count := r.Index(containerDepth), container.ChildCount()
	empty := container.Copy(model.EmptyFragment)

	var err error
	var cursor int
	switch {
	case count == 1:
		from := r.Before(containerDepth)
		err = tr.ReplaceWith(from, r.After(containerDepth), block)
		cursor = from + 1
	case index == 0:
		from := r.Before(containerDepth)
		err = tr.Replace(from, r.After(itemDepth), model.NewSlice(model.FragmentFrom(block, empty), 0, 1))
		cursor = from + 1
	case index == count-1:
		from := r.Before(itemDepth)
		err = tr.Replace(from, r.After(containerDepth), model.NewSlice(model.FragmentFrom(empty, block), 1, 0))
		cursor = from + 2
	default:
		from := r.Before(itemDepth)
		err = tr.Replace(from, r.After(itemDepth), model.NewSlice(model.FragmentFrom(empty, block, empty), 1, 1))
		cursor = from + 2
	}
	return cursor, err
}

// CreateParagraphNear inserts an empty paragraph when the cursor sits
// between blocks rather than inside a textblock.
func CreateParagraphNear(s *state.EditorState, dispatch state.Dispatch) bool {
	pos, ok := s.Selection.CursorPos()
	if !ok {
		return false
	}
	r := s.Doc.Resolve(pos)
	if r.Parent().InlineContent() {
		return false
	}
	parent := r.Parent()
	typ := parent.Type().DefaultTextblockAt(parent.Content(), r.Index(r.Depth))
	if typ == nil {
		return false
	}
	para := typ.CreateAndFill(nil, nil, nil)
	if para == nil {
		return false
	}
	tr := s.Tr()
	if err := tr.Insert(pos, para); err != nil {
		return false
	}
	if dispatch != nil {
		tr.SetSelection(state.Cursor(pos + 1))
		dispatch(tr)
	}
	return true
}

// SplitBlock splits the textblock at the selection, deleting any selected
// content first. Splitting at the end of a block that is not the default
// textblock (a heading) creates a default block (a paragraph).
func SplitBlock(s *state.EditorState, dispatch state.Dispatch) bool {
	return splitBlock(s, dispatch, false)
}

// SplitBlockKeepMarks is SplitBlock that carries the marks active at the
// cursor into the new block.
func SplitBlockKeepMarks(s *state.EditorState, dispatch state.Dispatch) bool {
	return splitBlock(s, dispatch, true)
}

func splitBlock(s *state.EditorState, dispatch state.Dispatch, keepMarks bool) bool {
	sel := s.Selection
	if sel.IsAll() {
		return false
	}
	rFrom, rTo := s.Doc.Resolve(sel.From()), s.Doc.Resolve(sel.To())
	if !rFrom.Parent().IsBlock() || !rFrom.Parent().IsTextblock() {
		return false
	}

	var marks []*model.Mark
	if keepMarks {
		marks = s.StoredMarks
		if marks == nil && rTo.ParentOffset > 0 {
			marks = rFrom.Marks()
		}
	}

	atEnd := rTo.ParentOffset == rTo.Parent().Content().Size()
	tr := s.Tr()
	if !sel.IsEmpty() {
		if err := tr.DeleteSelection(); err != nil {
			return false
		}
	}
	var deflt *model.NodeType
	if rFrom.Depth > 0 {
		container := rFrom.Node(-1)
		deflt = container.Type().DefaultTextblockAt(container.Content(), rFrom.IndexAfter(-1))
	}
	var types []*transform.TypeAttrs
	if atEnd && deflt != nil {
		types = []*transform.TypeAttrs{{Type: deflt}}
	}
	pos := tr.Mapping().Map(rFrom.Pos, 1)
	can := transform.CanSplit(tr.Doc, pos, 1, types...)
	if !can && types == nil && deflt != nil && transform.CanSplit(tr.Doc, pos, 1, &transform.TypeAttrs{Type: deflt}) {
		types = []*transform.TypeAttrs{{Type: deflt}}
		can = true
	}
	if !can {
		return false
	}
	if dispatch == nil {
		return true
	}
	if err := tr.Split(pos, 1, types...); err != nil {
		return false
	}
	if !atEnd && rFrom.ParentOffset == 0 && deflt != nil && rFrom.Parent().Type() != deflt {
		// The block before the split is empty; demote it to the default type.
		first := tr.Mapping().Map(rFrom.Before(rFrom.Depth), 1)
		if empty := deflt.CreateAndFill(nil, nil, nil); empty != nil {
			if old := tr.Doc.NodeAt(first); old != nil && old.Content().Size() == 0 {
				tr.MaybeStep(transform.NewReplaceStep(first, first+old.NodeSize(), model.NewSlice(model.FragmentFrom(empty), 0, 0)))
			}
		}
	}
	if marks != nil {
		tr.EnsureMarks(marks)
	}
	dispatch(tr)
	return true
}
