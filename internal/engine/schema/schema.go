// Package schema defines the node and mark vocabulary of the note editor.
//
// The vocabulary is fixed, but individual capabilities (lists, images,
// headings, individual marks) may be left out with options. Commands that
// depend on a missing type omit themselves instead of failing.
package schema

import (
	"slices"

	"github.com/dshills/inkwell/internal/engine/model"
)

// Node type names.
const (
	Doc            = "doc"
	Paragraph      = "paragraph"
	Heading        = "heading"
	Blockquote     = "blockquote"
	HorizontalRule = "horizontalRule"
	CodeBlock      = "codeBlock"
	BulletList     = "bulletList"
	OrderedList    = "orderedList"
	ListItem       = "listItem"
	Text           = "text"
	Image          = "image"
	HardBreak      = "hardBreak"
)

// Mark type names, in rank order (outermost first).
const (
	TextColor     = "textColor"
	Highlight     = "highlight"
	FontSize      = "fontSize"
	FontFamily    = "fontFamily"
	Link          = "link"
	Bold          = "bold"
	Italic        = "italic"
	Code          = "code"
	Underline     = "underline"
	Strikethrough = "strikethrough"
)

// FormattingMarks lists the marks removed by clear-formatting.
var FormattingMarks = []string{
	TextColor, Highlight, FontSize, FontFamily,
	Bold, Italic, Underline, Strikethrough, Code, Link,
}

// LineTypes is the set of node types treated as a visual line.
var LineTypes = []string{Paragraph, ListItem, CodeBlock, Blockquote, Heading}

// Option configures the vocabulary.
type Option func(*options)

type options struct {
	withoutNodes []string
	withoutMarks []string
}

// WithoutLists omits bullet lists, ordered lists and list items.
func WithoutLists() Option {
	return func(o *options) {
		o.withoutNodes = append(o.withoutNodes, BulletList, OrderedList, ListItem)
	}
}

// WithoutNodes omits the named optional node types. Doc, paragraph and
// text are always present.
func WithoutNodes(names ...string) Option {
	return func(o *options) {
		o.withoutNodes = append(o.withoutNodes, names...)
	}
}

// WithoutMarks omits the named mark types.
func WithoutMarks(names ...string) Option {
	return func(o *options) {
		o.withoutMarks = append(o.withoutMarks, names...)
	}
}

func strp(s string) *string { return &s }

func boolp(b bool) *bool { return &b }

// Spec returns the vocabulary specification.
func Spec(opts ...Option) *model.SchemaSpec {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	nodes := []*model.NodeSpec{
		{Name: Doc, Content: "block+"},
		{Name: Paragraph, Content: "inline*", Group: "block"},
		{Name: Heading, Content: "inline*", Group: "block", Attrs: map[string]*model.AttributeSpec{
			"level": {Default: 1},
		}},
		{Name: Blockquote, Content: "block+", Group: "block"},
		{Name: HorizontalRule, Group: "block"},
		{Name: CodeBlock, Content: "text*", Group: "block", Marks: strp(""), Code: true, Attrs: map[string]*model.AttributeSpec{
			"language": {Default: ""},
		}},
		{Name: BulletList, Content: "listItem+", Group: "block list"},
		{Name: OrderedList, Content: "listItem+", Group: "block list", Attrs: map[string]*model.AttributeSpec{
			"start": {Default: 1},
		}},
		{Name: ListItem, Content: "paragraph block*"},
		{Name: Text, Group: "inline"},
		{Name: Image, Group: "inline", Inline: true, Atom: true, Attrs: map[string]*model.AttributeSpec{
			"src":   {Required: true},
			"alt":   {Default: ""},
			"title": {Default: ""},
		}},
		{Name: HardBreak, Group: "inline", Inline: true},
	}
	nodes = slices.DeleteFunc(nodes, func(ns *model.NodeSpec) bool {
		switch ns.Name {
		case Doc, Paragraph, Text:
			return false
		}
		return slices.Contains(o.withoutNodes, ns.Name)
	})

	marks := []*model.MarkSpec{
		{Name: TextColor, Attrs: map[string]*model.AttributeSpec{"color": {Required: true}}},
		{Name: Highlight, Attrs: map[string]*model.AttributeSpec{"color": {Default: ""}}},
		{Name: FontSize, Attrs: map[string]*model.AttributeSpec{"size": {Required: true}}},
		{Name: FontFamily, Attrs: map[string]*model.AttributeSpec{"family": {Required: true}}},
		{Name: Link, Inclusive: boolp(false), Attrs: map[string]*model.AttributeSpec{
			"href":  {Required: true},
			"title": {Default: ""},
		}},
		{Name: Bold},
		{Name: Italic},
		{Name: Code},
		{Name: Underline},
		{Name: Strikethrough},
	}
	marks = slices.DeleteFunc(marks, func(ms *model.MarkSpec) bool {
		return slices.Contains(o.withoutMarks, ms.Name)
	})

	return &model.SchemaSpec{Nodes: nodes, Marks: marks, TopNode: Doc}
}

// New builds the note schema.
func New(opts ...Option) (*model.Schema, error) {
	return model.NewSchema(Spec(opts...))
}

var defaultSchema = mustNew()

func mustNew() *model.Schema {
	s, err := New()
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the full note schema. It is shared and immutable.
func Default() *model.Schema {
	return defaultSchema
}
