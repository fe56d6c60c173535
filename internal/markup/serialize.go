package markup

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/schema"
)

// Serializer renders documents as persisted markup.
type Serializer struct {
	minifier *minify.M
}

// SerializerOption configures a Serializer.
type SerializerOption func(*Serializer)

// WithMinify strips insignificant whitespace and optional syntax from the
// output.
func WithMinify(enabled bool) SerializerOption {
	return func(s *Serializer) {
		if !enabled {
			s.minifier = nil
			return
		}
		m := minify.New()
		m.AddFunc("text/html", mhtml.Minify)
		s.minifier = m
	}
}

// NewSerializer returns a serializer.
func NewSerializer(opts ...SerializerOption) *Serializer {
	s := &Serializer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serialize renders doc's children as an HTML fragment.
func (s *Serializer) Serialize(doc *model.Node) (string, error) {
	if doc == nil {
		return "", ErrEmptyDocument
	}
	var buf bytes.Buffer
	for _, child := range doc.Content().Children() {
		if err := html.Render(&buf, blockElement(child)); err != nil {
			return "", fmt.Errorf("render %s: %w", child.Type().Name, err)
		}
	}
	if s.minifier == nil {
		return buf.String(), nil
	}
	out, err := s.minifier.Bytes("text/html", buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("minify: %w", err)
	}
	return string(out), nil
}

func element(tag atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String(), Attr: attrs}
}

func textNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

func blockElement(n *model.Node) *html.Node {
	var el *html.Node
	switch n.Type().Name {
	case schema.Paragraph:
		el = element(atom.P)
	case schema.Heading:
		el = element(headingAtom(n.Attr("level")))
	case schema.Blockquote:
		el = element(atom.Blockquote)
	case schema.HorizontalRule:
		return element(atom.Hr)
	case schema.CodeBlock:
		pre := element(atom.Pre)
		code := element(atom.Code)
		if lang, _ := n.Attr("language").(string); lang != "" {
			code.Attr = append(code.Attr, html.Attribute{Key: "class", Val: "language-" + lang})
		}
		if text := n.TextContent(); text != "" {
			code.AppendChild(textNode(text))
		}
		pre.AppendChild(code)
		return pre
	case schema.BulletList:
		el = element(atom.Ul)
	case schema.OrderedList:
		el = element(atom.Ol)
		if start := intAttr(n.Attr("start"), 1); start != 1 {
			el.Attr = append(el.Attr, html.Attribute{Key: "start", Val: strconv.Itoa(start)})
		}
	case schema.ListItem:
		el = element(atom.Li)
	default:
		el = element(atom.Div)
	}

	if n.InlineContent() {
		appendInline(el, n)
		return el
	}
	for _, child := range n.Content().Children() {
		el.AppendChild(blockElement(child))
	}
	return el
}

type openMark struct {
	mark *model.Mark
	el   *html.Node
}

// appendInline renders the inline children of n into el. Adjacent runs
// sharing outer marks share the outer elements.
func appendInline(el *html.Node, n *model.Node) {
	var stack []openMark
	top := func() *html.Node {
		if len(stack) == 0 {
			return el
		}
		return stack[len(stack)-1].el
	}
	children := n.Content().Children()
	prevSpace := true
	for i, child := range children {
		marks := child.Marks()
		keep := 0
		for keep < len(stack) && keep < len(marks) && stack[keep].mark.Eq(marks[keep]) {
			keep++
		}
		stack = stack[:keep]
		for _, m := range marks[keep:] {
			mel := markElement(m)
			top().AppendChild(mel)
			stack = append(stack, openMark{mark: m, el: mel})
		}
		if child.IsText() {
			var text string
			text, prevSpace = encodeSpaces(child.Text(), prevSpace, i == len(children)-1)
			top().AppendChild(textNode(text))
			continue
		}
		prevSpace = child.Type().Name == schema.HardBreak
		top().AppendChild(inlineNode(child))
	}
}

// encodeSpaces writes as no-break spaces the spaces that markup whitespace
// collapsing would drop: the first space of a block or after a break, every
// space after another space, and a space ending the block. It reports
// whether text ends in a space.
func encodeSpaces(text string, prevSpace, endsBlock bool) (string, bool) {
	var sb strings.Builder
	sb.Grow(len(text))
	for i, r := range text {
		if r == ' ' && (prevSpace || (endsBlock && i == len(text)-1)) {
			sb.WriteRune(nbsp)
		} else {
			sb.WriteRune(r)
		}
		prevSpace = r == ' '
	}
	return sb.String(), prevSpace
}

func inlineNode(n *model.Node) *html.Node {
	switch n.Type().Name {
	case schema.HardBreak:
		return element(atom.Br)
	case schema.Image:
		img := element(atom.Img, html.Attribute{Key: "src", Val: stringAttr(n.Attr("src"))})
		if alt := stringAttr(n.Attr("alt")); alt != "" {
			img.Attr = append(img.Attr, html.Attribute{Key: "alt", Val: alt})
		}
		if title := stringAttr(n.Attr("title")); title != "" {
			img.Attr = append(img.Attr, html.Attribute{Key: "title", Val: title})
		}
		return img
	}
	return textNode(n.Text())
}

func markElement(m *model.Mark) *html.Node {
	switch m.Type().Name {
	case schema.Bold:
		return element(atom.Strong)
	case schema.Italic:
		return element(atom.Em)
	case schema.Code:
		return element(atom.Code)
	case schema.Underline:
		return element(atom.U)
	case schema.Strikethrough:
		return element(atom.S)
	case schema.Link:
		a := element(atom.A, html.Attribute{Key: "href", Val: m.AttrString("href")})
		if title := m.AttrString("title"); title != "" {
			a.Attr = append(a.Attr, html.Attribute{Key: "title", Val: title})
		}
		return a
	case schema.TextColor:
		return element(atom.Span, html.Attribute{Key: "style", Val: "color: " + m.AttrString("color")})
	case schema.Highlight:
		if color := m.AttrString("color"); color != "" {
			return element(atom.Mark, html.Attribute{Key: "data-color", Val: color})
		}
		return element(atom.Mark)
	case schema.FontSize:
		return element(atom.Span, html.Attribute{Key: "style", Val: "font-size: " + m.AttrString("size")})
	case schema.FontFamily:
		return element(atom.Span, html.Attribute{Key: "style", Val: "font-family: " + m.AttrString("family")})
	}
	return element(atom.Span)
}

func headingAtom(level any) atom.Atom {
	switch intAttr(level, 1) {
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	case 4:
		return atom.H4
	case 5:
		return atom.H5
	case 6:
		return atom.H6
	}
	return atom.H1
}

func intAttr(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

func stringAttr(v any) string {
	s, _ := v.(string)
	return s
}
