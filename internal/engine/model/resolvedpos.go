package model

import "fmt"

type pathEntry struct {
	node  *Node
	index int
	start int
}

// ResolvedPos is a position with its ancestor chain resolved. Depth 0 is
// the root; Depth is the depth of the innermost parent.
type ResolvedPos struct {
	Pos          int
	Depth        int
	ParentOffset int

	doc  *Node
	path []pathEntry
}

func resolvePos(doc *Node, pos int) *ResolvedPos {
	if pos < 0 || pos > doc.content.Size() {
		PanicRange("position %d outside [0, %d]", pos, doc.content.Size())
	}
	var path []pathEntry
	start := 0
	parentOffset := pos
	for node := doc; ; {
		index, offset := node.content.FindIndex(parentOffset, -1)
		rem := parentOffset - offset
		path = append(path, pathEntry{node: node, index: index, start: start + offset})
		if rem == 0 {
			break
		}
		node = node.Child(index)
		if node.IsText() {
			break
		}
		parentOffset = rem - 1
		start += offset + 1
	}
	return &ResolvedPos{Pos: pos, Depth: len(path) - 1, ParentOffset: parentOffset, doc: doc, path: path}
}

func (r *ResolvedPos) resolveDepth(depth int) int {
	if depth < 0 {
		return r.Depth + depth
	}
	return depth
}

// Doc returns the root node the position was resolved in.
func (r *ResolvedPos) Doc() *Node { return r.doc }

// Parent returns the innermost node containing the position.
func (r *ResolvedPos) Parent() *Node { return r.path[r.Depth].node }

// Node returns the ancestor at depth. Negative depths count from Depth.
func (r *ResolvedPos) Node(depth int) *Node { return r.path[r.resolveDepth(depth)].node }

// Index returns the child index into the ancestor at depth.
func (r *ResolvedPos) Index(depth int) int { return r.path[r.resolveDepth(depth)].index }

// IndexAfter returns the index pointing after this position in the
// ancestor at depth.
func (r *ResolvedPos) IndexAfter(depth int) int {
	depth = r.resolveDepth(depth)
	if depth == r.Depth && r.TextOffset() == 0 {
		return r.path[depth].index
	}
	return r.path[depth].index + 1
}

// Start returns the position at the start of the ancestor at depth.
func (r *ResolvedPos) Start(depth int) int {
	depth = r.resolveDepth(depth)
	if depth == 0 {
		return 0
	}
	return r.path[depth-1].start + 1
}

// End returns the position at the end of the ancestor at depth.
func (r *ResolvedPos) End(depth int) int {
	depth = r.resolveDepth(depth)
	return r.Start(depth) + r.path[depth].node.content.Size()
}

// Before returns the position directly before the ancestor at depth.
// Depth must be at least 1.
func (r *ResolvedPos) Before(depth int) int {
	depth = r.resolveDepth(depth)
	if depth == 0 {
		PanicRange("there is no position before the top-level node")
	}
	if depth == r.Depth+1 {
		return r.Pos
	}
	return r.path[depth-1].start
}

// After returns the position directly after the ancestor at depth.
// Depth must be at least 1.
func (r *ResolvedPos) After(depth int) int {
	depth = r.resolveDepth(depth)
	if depth == 0 {
		PanicRange("there is no position after the top-level node")
	}
	if depth == r.Depth+1 {
		return r.Pos
	}
	return r.path[depth-1].start + r.path[depth].node.NodeSize()
}

// TextOffset returns the offset into the text node the position points
// into, or 0 when it points between nodes.
func (r *ResolvedPos) TextOffset() int {
	return r.Pos - r.path[len(r.path)-1].start
}

// NodeAfter returns the node directly after the position, cut when the
// position is inside a text node.
func (r *ResolvedPos) NodeAfter() *Node {
	parent := r.Parent()
	index := r.Index(r.Depth)
	if index == parent.ChildCount() {
		return nil
	}
	off := r.TextOffset()
	child := parent.Child(index)
	if off > 0 {
		return child.Cut(off, child.textLen)
	}
	return child
}

// NodeBefore returns the node directly before the position.
func (r *ResolvedPos) NodeBefore() *Node {
	index := r.Index(r.Depth)
	off := r.TextOffset()
	if off > 0 {
		return r.Parent().Child(index).Cut(0, off)
	}
	if index == 0 {
		return nil
	}
	return r.Parent().Child(index - 1)
}

// Marks returns the marks at the position: the marks new text typed here
// would get. Non-inclusive marks are dropped at their boundaries.
func (r *ResolvedPos) Marks() []*Mark {
	parent := r.Parent()
	index := r.Index(r.Depth)
	if parent.content.Size() == 0 {
		return nil
	}
	if r.TextOffset() > 0 {
		return parent.Child(index).marks
	}
	main, other := parent.MaybeChild(index-1), parent.MaybeChild(index)
	if main == nil {
		main, other = other, main
	}
	marks := main.marks
	for _, m := range main.marks {
		if !m.typ.Inclusive() && (other == nil || !m.IsInSet(other.marks)) {
			marks = m.RemoveFromSet(marks)
		}
	}
	return marks
}

// SharedDepth returns the depth of the deepest ancestor that also contains
// pos.
func (r *ResolvedPos) SharedDepth(pos int) int {
	for depth := r.Depth; depth > 0; depth-- {
		if r.Start(depth) <= pos && r.End(depth) >= pos {
			return depth
		}
	}
	return 0
}

// SameParent reports whether other has the same parent node.
func (r *ResolvedPos) SameParent(other *ResolvedPos) bool {
	return r.Pos-r.ParentOffset == other.Pos-other.ParentOffset
}

// BlockRange returns the range of sibling blocks around this position and
// other, at the deepest depth whose node satisfies pred (nil accepts any).
func (r *ResolvedPos) BlockRange(other *ResolvedPos, pred func(*Node) bool) *NodeRange {
	if other.Pos < r.Pos {
		return other.BlockRange(r, pred)
	}
	d := r.Depth
	if r.Parent().InlineContent() || r.Pos == other.Pos {
		d--
	}
	for ; d >= 0; d-- {
		if other.Pos <= r.End(d) && (pred == nil || pred(r.Node(d))) {
			return &NodeRange{From: r, To: other, Depth: d}
		}
	}
	return nil
}

func (r *ResolvedPos) String() string {
	s := ""
	for i := 1; i <= r.Depth; i++ {
		if s != "" {
			s += "/"
		}
		s += fmt.Sprintf("%s_%d", r.Node(i).typ.Name, r.Index(i-1))
	}
	return fmt.Sprintf("%s:%d", s, r.ParentOffset)
}

// NodeRange is a flat range of sibling nodes at Depth.
type NodeRange struct {
	From  *ResolvedPos
	To    *ResolvedPos
	Depth int
}

// Start returns the position before the first node in the range.
func (nr *NodeRange) Start() int { return nr.From.Before(nr.Depth + 1) }

// End returns the position after the last node in the range.
func (nr *NodeRange) End() int { return nr.To.After(nr.Depth + 1) }

// Parent returns the node containing the range.
func (nr *NodeRange) Parent() *Node { return nr.From.Node(nr.Depth) }

// StartIndex returns the index of the first node in the range.
func (nr *NodeRange) StartIndex() int { return nr.From.Index(nr.Depth) }

// EndIndex returns the index after the last node in the range.
func (nr *NodeRange) EndIndex() int { return nr.To.IndexAfter(nr.Depth) }
