package model

import (
	"maps"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Node is an immutable document tree node. Branch nodes hold a Fragment of
// children; text nodes hold a run of characters.
type Node struct {
	typ     *NodeType
	attrs   map[string]any
	content *Fragment
	marks   []*Mark

	text    string
	textLen int
}

func newTextNode(nt *NodeType, text string, marks []*Mark) *Node {
	return &Node{typ: nt, content: EmptyFragment, marks: marks, text: text, textLen: utf8.RuneCountInString(text)}
}

// Type returns the node type.
func (n *Node) Type() *NodeType { return n.typ }

// Attrs returns the node attributes. Callers must not modify the map.
func (n *Node) Attrs() map[string]any { return n.attrs }

// Attr returns a single attribute value.
func (n *Node) Attr(name string) any { return n.attrs[name] }

// Content returns the node's children.
func (n *Node) Content() *Fragment { return n.content }

// Marks returns the node's marks in rank order.
func (n *Node) Marks() []*Mark { return n.marks }

// Text returns the characters of a text node.
func (n *Node) Text() string { return n.text }

// IsText reports whether this is a text node.
func (n *Node) IsText() bool { return n.typ.IsText() }

// IsInline reports whether this node is inline.
func (n *Node) IsInline() bool { return n.typ.IsInline() }

// IsBlock reports whether this node is a block.
func (n *Node) IsBlock() bool { return n.typ.IsBlock() }

// IsTextblock reports whether this is a block holding inline content.
func (n *Node) IsTextblock() bool { return n.typ.IsTextblock() }

// InlineContent reports whether the node's content is inline.
func (n *Node) InlineContent() bool { return n.typ.InlineContent() }

// IsLeaf reports whether the node's type allows no content.
func (n *Node) IsLeaf() bool { return n.typ.IsLeaf() }

// IsAtom reports whether the node is treated as a single unit.
func (n *Node) IsAtom() bool { return n.typ.IsAtom() }

// NodeSize returns the number of positions the node occupies.
func (n *Node) NodeSize() int {
	switch {
	case n.IsText():
		return n.textLen
	case n.IsLeaf():
		return 1
	default:
		return 2 + n.content.Size()
	}
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return n.content.ChildCount() }

// Child returns the child at index.
func (n *Node) Child(index int) *Node { return n.content.Child(index) }

// MaybeChild returns the child at index, or nil.
func (n *Node) MaybeChild(index int) *Node { return n.content.MaybeChild(index) }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.content.FirstChild() }

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node { return n.content.LastChild() }

// ForEach calls fn for each child.
func (n *Node) ForEach(fn func(child *Node, offset, index int)) { n.content.ForEach(fn) }

// NodesBetween calls fn for every descendant overlapping [from, to) in
// this node's content coordinates. Returning false prunes the subtree.
func (n *Node) NodesBetween(from, to int, fn func(node *Node, pos int, parent *Node, index int) bool) {
	n.content.NodesBetween(from, to, fn, 0, n)
}

// Descendants walks every descendant depth-first, pre-order. Returning
// false from fn skips the node's children.
func (n *Node) Descendants(fn func(node *Node, pos int, parent *Node, index int) bool) {
	n.NodesBetween(0, n.content.Size(), fn)
}

// TextContent returns the concatenated text of the node.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.text
	}
	return n.content.TextBetween(0, n.content.Size(), "", "")
}

// TextBetween returns the text between two content positions.
func (n *Node) TextBetween(from, to int, blockSeparator, leafText string) string {
	return n.content.TextBetween(from, to, blockSeparator, leafText)
}

// SameMarkup reports whether other has the same type, attributes and marks.
func (n *Node) SameMarkup(other *Node) bool {
	return n.HasMarkup(other.typ, other.attrs, other.marks)
}

// HasMarkup reports whether the node has the given type, attributes and
// marks.
func (n *Node) HasMarkup(nt *NodeType, attrs map[string]any, marks []*Mark) bool {
	return n.typ == nt && attrsEqual(n.attrs, attrs) && SameMarkSet(n.marks, marks)
}

// Eq reports deep structural equality.
func (n *Node) Eq(other *Node) bool {
	if n == other {
		return true
	}
	return n.SameMarkup(other) && n.text == other.text && n.content.Eq(other.content)
}

// Copy returns a node with the same markup and the given content.
func (n *Node) Copy(content *Fragment) *Node {
	if content == n.content {
		return n
	}
	if content == nil {
		content = EmptyFragment
	}
	return &Node{typ: n.typ, attrs: n.attrs, content: content, marks: n.marks}
}

// Mark returns the node with the given mark set.
func (n *Node) Mark(marks []*Mark) *Node {
	if SameMarkSet(marks, n.marks) {
		return n
	}
	c := *n
	c.marks = marks
	return &c
}

// WithText returns a text node with the same marks and new text.
func (n *Node) WithText(text string) *Node {
	if text == n.text {
		return n
	}
	return newTextNode(n.typ, text, n.marks)
}

// Cut returns the part of the node between from and to, in content
// coordinates (or character offsets for text).
func (n *Node) Cut(from, to int) *Node {
	if n.IsText() {
		if from == 0 && to == n.textLen {
			return n
		}
		runes := []rune(n.text)
		return n.WithText(string(runes[from:to]))
	}
	if from == 0 && to == n.content.Size() {
		return n
	}
	return n.Copy(n.content.Cut(from, to))
}

// Clone returns a deep copy with fresh identity for every node.
func (n *Node) Clone() *Node {
	c := &Node{typ: n.typ, attrs: maps.Clone(n.attrs), marks: n.marks, text: n.text, textLen: n.textLen}
	if n.content.ChildCount() == 0 {
		c.content = EmptyFragment
		return c
	}
	children := make([]*Node, n.content.ChildCount())
	for i, child := range n.content.content {
		children[i] = child.Clone()
	}
	c.content = &Fragment{content: children, size: n.content.size}
	return c
}

// Slice returns the slice of the document between two positions.
func (n *Node) Slice(from, to int) *Slice {
	return n.slice(from, to, false)
}

// SliceWithParents returns the slice between two positions including all
// ancestors as open nodes.
func (n *Node) SliceWithParents(from, to int) *Slice {
	return n.slice(from, to, true)
}

func (n *Node) slice(from, to int, includeParents bool) *Slice {
	if from == to {
		return EmptySlice
	}
	rFrom, rTo := n.Resolve(from), n.Resolve(to)
	depth := 0
	if !includeParents {
		depth = rFrom.SharedDepth(to)
	}
	start := rFrom.Start(depth)
	node := rFrom.Node(depth)
	content := node.content.Cut(rFrom.Pos-start, rTo.Pos-start)
	return NewSlice(content, rFrom.Depth-depth, rTo.Depth-depth)
}

// Replace replaces [from, to) with the slice, returning the new root.
func (n *Node) Replace(from, to int, slice *Slice) (*Node, error) {
	return replace(n.Resolve(from), n.Resolve(to), slice)
}

// NodeAt returns the node starting directly after pos, or nil.
func (n *Node) NodeAt(pos int) *Node {
	node := n
	for {
		index, offset := node.content.FindIndex(pos, -1)
		node = node.MaybeChild(index)
		if node == nil {
			return nil
		}
		if offset == pos || node.IsText() {
			return node
		}
		pos -= offset + 1
	}
}

// Resolve resolves a position in this node's content. It panics with a
// *RangeError when pos is outside [0, content size].
func (n *Node) Resolve(pos int) *ResolvedPos {
	return resolvePos(n, pos)
}

// RangeHasMark reports whether any inline node in [from, to) carries a mark
// of type mt.
func (n *Node) RangeHasMark(from, to int, mt *MarkType) bool {
	found := false
	if to > from {
		n.NodesBetween(from, to, func(node *Node, _ int, _ *Node, _ int) bool {
			if mt.IsInSet(node.marks) != nil {
				found = true
			}
			return !found
		})
	}
	return found
}

// String renders a debug representation, e.g. doc(paragraph("hi")).
func (n *Node) String() string {
	if n.IsText() {
		s := strconv.Quote(n.text)
		for i := len(n.marks) - 1; i >= 0; i-- {
			s = n.marks[i].typ.Name + "(" + s + ")"
		}
		return s
	}
	name := n.typ.Name
	if n.content.ChildCount() > 0 {
		parts := make([]string, n.content.ChildCount())
		for i, c := range n.content.content {
			parts[i] = c.String()
		}
		name += "(" + strings.Join(parts, ", ") + ")"
	}
	return name
}
