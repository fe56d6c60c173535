package model

import "strings"

// Fragment is an immutable ordered sequence of child nodes.
type Fragment struct {
	content []*Node
	size    int
}

// EmptyFragment is the fragment with no children.
var EmptyFragment = &Fragment{}

// NewFragment builds a fragment from nodes, joining adjacent text nodes
// that carry the same marks.
func NewFragment(nodes []*Node) *Fragment {
	if len(nodes) == 0 {
		return EmptyFragment
	}
	out := make([]*Node, 0, len(nodes))
	size := 0
	for _, n := range nodes {
		size += n.NodeSize()
		if last := len(out) - 1; last >= 0 && n.IsText() && out[last].IsText() && n.SameMarkup(out[last]) {
			out[last] = out[last].WithText(out[last].text + n.text)
			continue
		}
		out = append(out, n)
	}
	return &Fragment{content: out, size: size}
}

// FragmentFrom builds a fragment from the given nodes.
func FragmentFrom(nodes ...*Node) *Fragment {
	return NewFragment(nodes)
}

// Size returns the total size of the fragment's children.
func (f *Fragment) Size() int { return f.size }

// ChildCount returns the number of children.
func (f *Fragment) ChildCount() int { return len(f.content) }

// Child returns the child at index. It panics when out of range.
func (f *Fragment) Child(index int) *Node {
	if index < 0 || index >= len(f.content) {
		PanicRange("child index %d of %d", index, len(f.content))
	}
	return f.content[index]
}

// MaybeChild returns the child at index, or nil.
func (f *Fragment) MaybeChild(index int) *Node {
	if index < 0 || index >= len(f.content) {
		return nil
	}
	return f.content[index]
}

// FirstChild returns the first child or nil.
func (f *Fragment) FirstChild() *Node { return f.MaybeChild(0) }

// LastChild returns the last child or nil.
func (f *Fragment) LastChild() *Node { return f.MaybeChild(len(f.content) - 1) }

// Children returns a copy of the child list.
func (f *Fragment) Children() []*Node {
	return append([]*Node(nil), f.content...)
}

// ForEach calls fn for each child with its offset and index.
func (f *Fragment) ForEach(fn func(node *Node, offset, index int)) {
	pos := 0
	for i, child := range f.content {
		fn(child, pos, i)
		pos += child.NodeSize()
	}
}

// NodesBetween calls fn for every node overlapping [from, to), descending
// into a node's children unless fn returns false. pos values are offset by
// nodeStart.
func (f *Fragment) NodesBetween(from, to int, fn func(node *Node, pos int, parent *Node, index int) bool, nodeStart int, parent *Node) {
	pos := 0
	for i := 0; pos < to && i < len(f.content); i++ {
		child := f.content[i]
		end := pos + child.NodeSize()
		if end > from && fn(child, nodeStart+pos, parent, i) && child.content.Size() > 0 {
			start := pos + 1
			child.content.NodesBetween(max(0, from-start), min(child.content.Size(), to-start), fn, nodeStart+start, child)
		}
		pos = end
	}
}

// Descendants calls fn for every descendant node, pre-order.
func (f *Fragment) Descendants(fn func(node *Node, pos int, parent *Node, index int) bool) {
	f.NodesBetween(0, f.size, fn, 0, nil)
}

// TextBetween returns the text in [from, to). blockSeparator is inserted
// between blocks; leafText replaces non-text leaf nodes.
func (f *Fragment) TextBetween(from, to int, blockSeparator, leafText string) string {
	var b strings.Builder
	first := true
	f.NodesBetween(from, to, func(node *Node, pos int, _ *Node, _ int) bool {
		var nodeText string
		switch {
		case node.IsText():
			runes := []rune(node.text)
			nodeText = string(runes[max(from, pos)-pos : min(len(runes), to-pos)])
		case node.IsLeaf():
			nodeText = leafText
		}
		if blockSeparator != "" && node.IsBlock() && (node.IsTextblock() || node.IsLeaf() && nodeText != "") {
			if first {
				first = false
			} else {
				b.WriteString(blockSeparator)
			}
		}
		b.WriteString(nodeText)
		return true
	}, 0, nil)
	return b.String()
}

// Append concatenates two fragments, joining text at the seam.
func (f *Fragment) Append(other *Fragment) *Fragment {
	if other.size == 0 {
		return f
	}
	if f.size == 0 {
		return other
	}
	nodes := make([]*Node, 0, len(f.content)+len(other.content))
	nodes = append(nodes, f.content...)
	nodes = append(nodes, other.content...)
	return NewFragment(nodes)
}

// Cut returns the part of the fragment between from and to.
func (f *Fragment) Cut(from, to int) *Fragment {
	if from == 0 && to == f.size {
		return f
	}
	var result []*Node
	if to > from {
		pos := 0
		for i := 0; pos < to && i < len(f.content); i++ {
			child := f.content[i]
			end := pos + child.NodeSize()
			if end > from {
				if pos < from || end > to {
					if child.IsText() {
						child = child.Cut(max(0, from-pos), min(child.textLen, to-pos))
					} else {
						child = child.Cut(max(0, from-pos-1), min(child.content.Size(), to-pos-1))
					}
				}
				result = append(result, child)
			}
			pos = end
		}
	}
	return NewFragment(result)
}

// ReplaceChild returns a fragment with the child at index replaced.
func (f *Fragment) ReplaceChild(index int, node *Node) *Fragment {
	current := f.Child(index)
	if current == node {
		return f
	}
	nodes := f.Children()
	nodes[index] = node
	return &Fragment{content: nodes, size: f.size + node.NodeSize() - current.NodeSize()}
}

// AddToStart returns a fragment with node prepended.
func (f *Fragment) AddToStart(node *Node) *Fragment {
	return NewFragment(append([]*Node{node}, f.content...))
}

// AddToEnd returns a fragment with node appended.
func (f *Fragment) AddToEnd(node *Node) *Fragment {
	return NewFragment(append(f.Children(), node))
}

// Eq reports structural equality.
func (f *Fragment) Eq(other *Fragment) bool {
	if len(f.content) != len(other.content) {
		return false
	}
	for i, n := range f.content {
		if !n.Eq(other.content[i]) {
			return false
		}
	}
	return true
}

// FindIndex finds the child index containing pos and the offset at which
// that child starts. With round > 0 a position at a child boundary rounds
// to the following child.
func (f *Fragment) FindIndex(pos int, round int) (index, offset int) {
	if pos == 0 {
		return 0, 0
	}
	if pos == f.size {
		return len(f.content), pos
	}
	if pos > f.size || pos < 0 {
		PanicRange("position %d outside fragment of size %d", pos, f.size)
	}
	cur := 0
	for i, child := range f.content {
		end := cur + child.NodeSize()
		if end >= pos {
			if end == pos || round > 0 {
				return i + 1, end
			}
			return i, cur
		}
		cur = end
	}
	return len(f.content), f.size
}

func (f *Fragment) String() string {
	parts := make([]string, len(f.content))
	for i, n := range f.content {
		parts[i] = n.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
