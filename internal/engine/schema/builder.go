package schema

import "github.com/dshills/inkwell/internal/engine/model"

// Builder constructs documents in the note vocabulary. Its methods panic
// on invalid content, so it suits fixed documents built in code.
type Builder struct {
	S *model.Schema
}

// NewBuilder returns a builder for s, or for the default schema when s is
// nil.
func NewBuilder(s *model.Schema) Builder {
	if s == nil {
		s = Default()
	}
	return Builder{S: s}
}

// EmptyDoc returns a document holding a single empty paragraph.
func (b Builder) EmptyDoc() *model.Node {
	return b.Doc(b.P())
}

func (b Builder) Doc(content ...*model.Node) *model.Node { return b.S.Node(Doc, nil, content...) }

func (b Builder) P(content ...*model.Node) *model.Node { return b.S.Node(Paragraph, nil, content...) }

func (b Builder) H(level int, content ...*model.Node) *model.Node {
	return b.S.Node(Heading, map[string]any{"level": level}, content...)
}

func (b Builder) Quote(content ...*model.Node) *model.Node {
	return b.S.Node(Blockquote, nil, content...)
}

func (b Builder) HR() *model.Node { return b.S.Node(HorizontalRule, nil) }

func (b Builder) Code(language, text string) *model.Node {
	if text == "" {
		return b.S.Node(CodeBlock, map[string]any{"language": language})
	}
	return b.S.Node(CodeBlock, map[string]any{"language": language}, b.S.Text(text))
}

func (b Builder) UL(items ...*model.Node) *model.Node { return b.S.Node(BulletList, nil, items...) }

func (b Builder) OL(items ...*model.Node) *model.Node { return b.S.Node(OrderedList, nil, items...) }

func (b Builder) LI(content ...*model.Node) *model.Node { return b.S.Node(ListItem, nil, content...) }

func (b Builder) Img(src string) *model.Node {
	return b.S.Node(Image, map[string]any{"src": src})
}

func (b Builder) BR() *model.Node { return b.S.Node(HardBreak, nil) }

// T creates a text node.
func (b Builder) T(text string, marks ...*model.Mark) *model.Node { return b.S.Text(text, marks...) }

func (b Builder) Bold() *model.Mark      { return b.S.Mark(Bold, nil) }
func (b Builder) Italic() *model.Mark    { return b.S.Mark(Italic, nil) }
func (b Builder) CodeMark() *model.Mark  { return b.S.Mark(Code, nil) }
func (b Builder) Underline() *model.Mark { return b.S.Mark(Underline, nil) }
func (b Builder) Strike() *model.Mark    { return b.S.Mark(Strikethrough, nil) }

func (b Builder) Link(href string) *model.Mark {
	return b.S.Mark(Link, map[string]any{"href": href})
}

func (b Builder) Color(color string) *model.Mark {
	return b.S.Mark(TextColor, map[string]any{"color": color})
}

func (b Builder) Highlight(color string) *model.Mark {
	return b.S.Mark(Highlight, map[string]any{"color": color})
}

func (b Builder) FontSize(size string) *model.Mark {
	return b.S.Mark(FontSize, map[string]any{"size": size})
}

func (b Builder) FontFamily(family string) *model.Mark {
	return b.S.Mark(FontFamily, map[string]any{"family": family})
}
