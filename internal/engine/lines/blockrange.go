package lines

import (
	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/state"
)

// BlockRange is a run of top-level sibling blocks.
type BlockRange struct {
	// StartIndex and EndIndex delimit the blocks as child indexes of the
	// document. EndIndex is exclusive.
	StartIndex, EndIndex int

	// From is the position before the first block, To the position after
	// the last.
	From, To int
}

// Len returns the number of blocks in the range.
func (br BlockRange) Len() int { return br.EndIndex - br.StartIndex }

// Content returns the blocks of the range in doc.
func (br BlockRange) Content(doc *model.Node) *model.Fragment {
	return doc.Content().Cut(br.From, br.To)
}

// SelectedBlockRange returns the top-level blocks overlapping the
// selection. A selection that ends at the very start of a block, having
// been extended down to it from an earlier block, excludes that block.
func SelectedBlockRange(s *state.EditorState) (BlockRange, bool) {
	return blockRangeFor(s.Doc, s.Selection.From(), s.Selection.To())
}

func blockRangeFor(doc *model.Node, from, to int) (BlockRange, bool) {
	rFrom, rTo := doc.Resolve(from), doc.Resolve(to)

	start := rFrom.Index(0)
	end := rTo.Index(0)
	if rTo.Depth > 0 {
		end++
		if to > from && atBlockStart(rTo) && rTo.Index(0) > start {
			end--
		}
	}
	if start >= end || end > doc.ChildCount() {
		return BlockRange{}, false
	}

	br := BlockRange{StartIndex: start, EndIndex: end}
	doc.ForEach(func(child *model.Node, offset, index int) {
		if index == start {
			br.From = offset
		}
		if index == end-1 {
			br.To = offset + child.NodeSize()
		}
	})
	return br, true
}

// atBlockStart reports whether r is the first position inside its
// top-level block.
func atBlockStart(r *model.ResolvedPos) bool {
	if r.ParentOffset != 0 {
		return false
	}
	for d := 1; d < r.Depth; d++ {
		if r.Index(d) != 0 {
			return false
		}
	}
	return true
}
