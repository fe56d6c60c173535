package model

import (
	"fmt"
	"strings"
)

// AttributeSpec describes an attribute of a node or mark type.
type AttributeSpec struct {
	// Default is used when the attribute is not supplied.
	Default any

	// Required attributes have no default and must be supplied on creation.
	Required bool
}

// NodeSpec describes a node type.
type NodeSpec struct {
	// Name is the unique node type name.
	Name string

	// Content is the content expression, e.g. "block+" or "inline*".
	// Empty means the node is a leaf.
	Content string

	// Group is a space-separated list of groups the type belongs to.
	Group string

	// Marks lists the mark names allowed inside this node. Nil allows all
	// marks; a pointer to "" allows none.
	Marks *string

	// Attrs declares the attributes the node carries.
	Attrs map[string]*AttributeSpec

	// Inline marks the type as inline content. Text is always inline.
	Inline bool

	// Atom marks a leaf that is treated as a single unit.
	Atom bool

	// Code marks nodes that hold raw code text.
	Code bool
}

// MarkSpec describes a mark type. The order of MarkSpecs in a SchemaSpec is
// the mark rank: marks of lower rank sort first in a mark set and render as
// the outer element.
type MarkSpec struct {
	// Name is the unique mark type name.
	Name string

	// Attrs declares the attributes the mark carries.
	Attrs map[string]*AttributeSpec

	// Inclusive controls whether typing at the end of the mark extends it.
	// Nil means inclusive.
	Inclusive *bool
}

// SchemaSpec is the input to NewSchema.
type SchemaSpec struct {
	Nodes []*NodeSpec
	Marks []*MarkSpec

	// TopNode names the root node type. Defaults to "doc".
	TopNode string
}

// Schema is the registry of node and mark types for a document.
type Schema struct {
	Spec *SchemaSpec

	nodes     map[string]*NodeType
	marks     map[string]*MarkType
	nodeOrder []*NodeType
	markOrder []*MarkType

	// TopNodeType is the type of the document root.
	TopNodeType *NodeType

	textType *NodeType
}

// NewSchema builds a Schema from a specification.
func NewSchema(spec *SchemaSpec) (*Schema, error) {
	s := &Schema{
		Spec:  spec,
		nodes: make(map[string]*NodeType, len(spec.Nodes)),
		marks: make(map[string]*MarkType, len(spec.Marks)),
	}

	for rank, ms := range spec.Marks {
		if ms.Name == "" {
			return nil, fmt.Errorf("%w: mark spec %d has no name", ErrInvalidSchema, rank)
		}
		if _, dup := s.marks[ms.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate mark %q", ErrInvalidSchema, ms.Name)
		}
		mt := &MarkType{Name: ms.Name, Rank: rank, Schema: s, Spec: ms}
		s.marks[ms.Name] = mt
		s.markOrder = append(s.markOrder, mt)
	}

	for _, ns := range spec.Nodes {
		if ns.Name == "" {
			return nil, fmt.Errorf("%w: node spec has no name", ErrInvalidSchema)
		}
		if _, dup := s.nodes[ns.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate node %q", ErrInvalidSchema, ns.Name)
		}
		nt := &NodeType{Name: ns.Name, Schema: s, Spec: ns}
		if ns.Group != "" {
			nt.groups = strings.Fields(ns.Group)
		}
		s.nodes[ns.Name] = nt
		s.nodeOrder = append(s.nodeOrder, nt)
	}

	top := spec.TopNode
	if top == "" {
		top = "doc"
	}
	s.TopNodeType = s.nodes[top]
	if s.TopNodeType == nil {
		return nil, fmt.Errorf("%w: top node %q not defined", ErrInvalidSchema, top)
	}
	s.textType = s.nodes["text"]
	if s.textType == nil {
		return nil, fmt.Errorf("%w: schema has no text node", ErrInvalidSchema)
	}

	for _, nt := range s.nodeOrder {
		expr, err := parseContentExpr(s, nt.Spec.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: node %q: %v", ErrInvalidSchema, nt.Name, err)
		}
		nt.content = expr
	}
	for _, nt := range s.nodeOrder {
		nt.inlineContent = nt.content.inlineContent()
		if err := nt.resolveMarks(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// NodeType returns the named node type, or nil if the schema lacks it.
func (s *Schema) NodeType(name string) *NodeType {
	return s.nodes[name]
}

// MarkType returns the named mark type, or nil if the schema lacks it.
func (s *Schema) MarkType(name string) *MarkType {
	return s.marks[name]
}

// NodeTypes returns the node types in declaration order.
func (s *Schema) NodeTypes() []*NodeType {
	return append([]*NodeType(nil), s.nodeOrder...)
}

// MarkTypes returns the mark types in rank order.
func (s *Schema) MarkTypes() []*MarkType {
	return append([]*MarkType(nil), s.markOrder...)
}

// Node creates a node of the named type. It panics when the type is
// unknown or the content is invalid, which makes it suited to building
// fixed documents in code and tests.
func (s *Schema) Node(name string, attrs map[string]any, content ...*Node) *Node {
	nt := s.nodes[name]
	if nt == nil {
		panic(fmt.Errorf("%w: %s", ErrUnknownNodeType, name))
	}
	n, err := nt.CreateChecked(attrs, NewFragment(content), nil)
	if err != nil {
		panic(err)
	}
	return n
}

// Text creates a text node. Empty text is not allowed.
func (s *Schema) Text(text string, marks ...*Mark) *Node {
	if text == "" {
		panic("model: empty text nodes are not allowed")
	}
	return newTextNode(s.textType, text, MarkSetFrom(marks...))
}

// Mark creates a mark of the named type. It panics when the type is
// unknown.
func (s *Schema) Mark(name string, attrs map[string]any) *Mark {
	mt := s.marks[name]
	if mt == nil {
		panic(fmt.Errorf("%w: %s", ErrUnknownMarkType, name))
	}
	return mt.Create(attrs)
}

func computeAttrs(specs map[string]*AttributeSpec, given map[string]any) (map[string]any, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(specs))
	for name, spec := range specs {
		v, ok := given[name]
		if !ok {
			if spec.Required {
				return nil, fmt.Errorf("%w: %s", ErrMissingAttr, name)
			}
			v = spec.Default
		}
		out[name] = v
	}
	return out, nil
}
