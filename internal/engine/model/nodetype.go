package model

import (
	"fmt"
	"slices"
	"strings"
)

// NodeType describes one kind of node in a Schema.
type NodeType struct {
	Name   string
	Schema *Schema
	Spec   *NodeSpec

	groups        []string
	content       *ContentExpr
	inlineContent bool
	allowAllMarks bool
	markSet       []*MarkType
}

func (nt *NodeType) resolveMarks() error {
	if nt.Spec.Marks == nil {
		nt.allowAllMarks = true
		return nil
	}
	for _, name := range strings.Fields(*nt.Spec.Marks) {
		if name == "_" {
			nt.allowAllMarks = true
			return nil
		}
		mt := nt.Schema.marks[name]
		if mt == nil {
			return fmt.Errorf("%w: node %q allows unknown mark %q", ErrInvalidSchema, nt.Name, name)
		}
		nt.markSet = append(nt.markSet, mt)
	}
	return nil
}

// IsText reports whether this is the text node type.
func (nt *NodeType) IsText() bool { return nt == nt.Schema.textType }

// IsInline reports whether nodes of this type are inline.
func (nt *NodeType) IsInline() bool { return nt.Spec.Inline || nt.IsText() }

// IsBlock reports whether nodes of this type are blocks.
func (nt *NodeType) IsBlock() bool { return !nt.IsInline() && nt != nt.Schema.TopNodeType }

// IsTextblock reports whether this is a block type holding inline content.
func (nt *NodeType) IsTextblock() bool { return nt.IsBlock() && nt.inlineContent }

// InlineContent reports whether the type's content is inline.
func (nt *NodeType) InlineContent() bool { return nt.inlineContent }

// IsLeaf reports whether the type has no content expression.
func (nt *NodeType) IsLeaf() bool { return nt.content.empty() }

// IsAtom reports whether nodes of this type are treated as a single unit.
func (nt *NodeType) IsAtom() bool { return nt.IsLeaf() || nt.Spec.Atom }

// IsCode reports whether the node holds raw code.
func (nt *NodeType) IsCode() bool { return nt.Spec.Code }

// InGroup reports whether the type belongs to the named group.
func (nt *NodeType) InGroup(group string) bool {
	return slices.Contains(nt.groups, group)
}

// AllowsMarkType reports whether marks of type mt may appear inside this node.
func (nt *NodeType) AllowsMarkType(mt *MarkType) bool {
	return nt.allowAllMarks || slices.Contains(nt.markSet, mt)
}

// AllowsMarks reports whether every mark in the set is allowed.
func (nt *NodeType) AllowsMarks(marks []*Mark) bool {
	for _, m := range marks {
		if !nt.AllowsMarkType(m.Type()) {
			return false
		}
	}
	return true
}

// AllowedMarks filters a mark set down to the marks allowed here.
func (nt *NodeType) AllowedMarks(marks []*Mark) []*Mark {
	if nt.allowAllMarks {
		return marks
	}
	var out []*Mark
	for _, m := range marks {
		if nt.AllowsMarkType(m.Type()) {
			out = append(out, m)
		}
	}
	return out
}

// HasRequiredAttrs reports whether the type declares attributes without
// defaults.
func (nt *NodeType) HasRequiredAttrs() bool {
	for _, a := range nt.Spec.Attrs {
		if a.Required {
			return true
		}
	}
	return false
}

// ValidContent reports whether the fragment matches the content expression
// and carries only allowed marks.
func (nt *NodeType) ValidContent(content *Fragment) bool {
	if !nt.content.matches(content.content) {
		return false
	}
	for _, child := range content.content {
		if !nt.AllowsMarks(child.marks) {
			return false
		}
	}
	return true
}

// CheckContent returns an error when the content is not valid for the type.
func (nt *NodeType) CheckContent(content *Fragment) error {
	if !nt.ValidContent(content) {
		return fmt.Errorf("%w for %s: %s", ErrInvalidContent, nt.Name, content)
	}
	return nil
}

// CompatibleContent reports whether content of other may be joined onto
// this type.
func (nt *NodeType) CompatibleContent(other *NodeType) bool {
	return nt == other || nt.content.source == other.content.source
}

// Create builds a node without checking its content.
func (nt *NodeType) Create(attrs map[string]any, content *Fragment, marks []*Mark) (*Node, error) {
	if nt.IsText() {
		return nil, fmt.Errorf("%w: use Schema.Text for text nodes", ErrInvalidContent)
	}
	computed, err := computeAttrs(nt.Spec.Attrs, attrs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", nt.Name, err)
	}
	if content == nil {
		content = EmptyFragment
	}
	return &Node{typ: nt, attrs: computed, content: content, marks: MarkSetFrom(marks...)}, nil
}

// CreateChecked builds a node and validates its content.
func (nt *NodeType) CreateChecked(attrs map[string]any, content *Fragment, marks []*Mark) (*Node, error) {
	if content == nil {
		content = EmptyFragment
	}
	if err := nt.CheckContent(content); err != nil {
		return nil, err
	}
	return nt.Create(attrs, content, marks)
}

// CreateAndFill builds a node, adding the minimal required content when the
// given content is empty. It returns nil when no valid node can be made.
func (nt *NodeType) CreateAndFill(attrs map[string]any, content *Fragment, marks []*Mark) *Node {
	if content == nil {
		content = EmptyFragment
	}
	if content.Size() == 0 && !nt.ValidContent(content) {
		filled := nt.content.fill()
		if filled == nil {
			return nil
		}
		content = NewFragment(filled)
	}
	if !nt.ValidContent(content) {
		return nil
	}
	n, err := nt.Create(attrs, content, marks)
	if err != nil {
		return nil
	}
	return n
}

// DefaultTextblockAt returns the first textblock type that may be inserted
// at child index of content held by this type, or nil.
func (nt *NodeType) DefaultTextblockAt(content *Fragment, index int) *NodeType {
	prefix := make([]*NodeType, 0, index+1)
	for i := 0; i < index && i < content.ChildCount(); i++ {
		prefix = append(prefix, content.Child(i).typ)
	}
	for _, cand := range nt.Schema.nodeOrder {
		if !cand.IsTextblock() || cand.HasRequiredAttrs() {
			continue
		}
		if nt.content.prefixMatches(append(prefix, cand)) {
			return cand
		}
	}
	return nil
}

// String returns the type name.
func (nt *NodeType) String() string { return nt.Name }
