package markup

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/schema"
)

// inlineTags are the elements parsed as inline content. Every other element
// starts a block.
var inlineTags = map[string]bool{
	"a": true, "b": true, "strong": true, "i": true, "em": true,
	"u": true, "s": true, "strike": true, "del": true, "code": true,
	"span": true, "mark": true, "img": true, "br": true, "sub": true,
	"sup": true, "small": true, "abbr": true, "font": true, "label": true,
	"kbd": true, "var": true, "samp": true, "q": true, "cite": true,
}

// knownBlocks are the block elements mapped onto node types.
var knownBlocks = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "blockquote": true, "hr": true, "pre": true, "ul": true,
	"ol": true, "li": true,
}

// Parser reads persisted markup into documents of one schema.
type Parser struct {
	schema *model.Schema
	policy *bluemonday.Policy
}

// NewParser returns a parser producing documents of s, or of the default
// schema when s is nil.
func NewParser(s *model.Schema) *Parser {
	if s == nil {
		s = schema.Default()
	}
	return &Parser{schema: s, policy: newPolicy()}
}

// Schema returns the schema documents are built in.
func (p *Parser) Schema() *model.Schema { return p.schema }

// ParseString parses markup held in a string.
func (p *Parser) ParseString(src string) (*model.Node, error) {
	return p.ParseBytes([]byte(src))
}

// Parse reads all of r and parses it.
func (p *Parser) Parse(r io.Reader) (*model.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markup: %w", err)
	}
	return p.ParseBytes(data)
}

// ParseBytes parses markup. Empty input yields a document holding one
// empty paragraph.
func (p *Parser) ParseBytes(data []byte) (*model.Node, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrMalformed)
	}
	clean := p.policy.SanitizeBytes(data)
	root, err := html.Parse(bytes.NewReader(clean))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	body := findElement(root, "body")
	if body == nil {
		return nil, fmt.Errorf("%w: no body", ErrMalformed)
	}

	blocks := p.blocks(childNodes(body))
	docType := p.schema.TopNodeType
	doc, err := docType.CreateChecked(nil, model.NewFragment(blocks), nil)
	if err != nil {
		if len(blocks) == 0 {
			return p.Empty(), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc, nil
}

// Empty returns a document holding one empty paragraph.
func (p *Parser) Empty() *model.Node {
	return p.schema.TopNodeType.CreateAndFill(nil, nil, nil)
}

func (p *Parser) has(name string) bool { return p.schema.NodeType(name) != nil }

// blocks maps a run of sibling elements to block nodes. Runs of inline
// content between blocks are wrapped in a paragraph.
func (p *Parser) blocks(nodes []*html.Node) []*model.Node {
	var out []*model.Node
	var pending []*html.Node
	flush := func() {
		if len(pending) == 0 {
			return
		}
		content := p.inline(pending, p.schema.NodeType(schema.Paragraph))
		pending = nil
		if len(content) > 0 {
			out = append(out, p.create(schema.Paragraph, nil, content))
		}
	}
	for _, n := range nodes {
		switch {
		case n.Type == html.TextNode, n.Type == html.ElementNode && inlineTags[n.Data]:
			pending = append(pending, n)
		case n.Type == html.ElementNode:
			flush()
			out = append(out, p.block(n)...)
		}
	}
	flush()
	return slices.DeleteFunc(out, func(n *model.Node) bool { return n == nil })
}

func (p *Parser) block(n *html.Node) []*model.Node {
	switch n.Data {
	case "p":
		return []*model.Node{p.textblock(schema.Paragraph, nil, n)}
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if !p.has(schema.Heading) {
			return []*model.Node{p.textblock(schema.Paragraph, nil, n)}
		}
		level := int(n.Data[1] - '0')
		return []*model.Node{p.textblock(schema.Heading, map[string]any{"level": level}, n)}
	case "blockquote":
		inner := p.blocks(childNodes(n))
		if !p.has(schema.Blockquote) {
			return inner
		}
		if len(inner) == 0 {
			inner = []*model.Node{p.create(schema.Paragraph, nil, nil)}
		}
		return []*model.Node{p.create(schema.Blockquote, nil, inner)}
	case "hr":
		if !p.has(schema.HorizontalRule) {
			return nil
		}
		return []*model.Node{p.create(schema.HorizontalRule, nil, nil)}
	case "pre":
		return []*model.Node{p.codeBlock(n)}
	case "ul", "ol":
		return p.list(n)
	}
	if !containsBlock(n) {
		return []*model.Node{p.textblock(schema.Paragraph, nil, n)}
	}
	return p.blocks(childNodes(n))
}

func (p *Parser) textblock(name string, attrs map[string]any, n *html.Node) *model.Node {
	return p.create(name, attrs, p.inline(childNodes(n), p.schema.NodeType(name)))
}

func (p *Parser) codeBlock(n *html.Node) *model.Node {
	text := norm.NFC.String(rawText(n))
	if !p.has(schema.CodeBlock) {
		text = collapseSpace(text)
		text = strings.TrimSpace(text)
		var content []*model.Node
		if text != "" {
			content = append(content, p.schema.Text(text))
		}
		return p.create(schema.Paragraph, nil, content)
	}
	var lang string
	if code := findElement(n, "code"); code != nil {
		for _, class := range strings.Fields(attr(code, "class")) {
			if l, ok := strings.CutPrefix(class, "language-"); ok {
				lang = l
				break
			}
		}
	}
	var content []*model.Node
	if text != "" {
		content = append(content, p.schema.Text(text))
	}
	return p.create(schema.CodeBlock, map[string]any{"language": lang}, content)
}

func (p *Parser) list(n *html.Node) []*model.Node {
	listType := schema.BulletList
	var attrs map[string]any
	if n.Data == "ol" {
		listType = schema.OrderedList
		if start, err := strconv.Atoi(attr(n, "start")); err == nil {
			attrs = map[string]any{"start": start}
		}
	}
	if !p.has(listType) || !p.has(schema.ListItem) {
		var out []*model.Node
		for _, c := range childNodes(n) {
			if c.Type == html.ElementNode && c.Data == "li" {
				out = append(out, p.blocks(childNodes(c))...)
			} else {
				out = append(out, p.blocks([]*html.Node{c})...)
			}
		}
		return out
	}

	var items []*model.Node
	for _, c := range childNodes(n) {
		switch {
		case c.Type == html.ElementNode && c.Data == "li":
			items = append(items, p.listItem(p.blocks(childNodes(c))))
		case c.Type == html.ElementNode:
			// Stray elements inside a list become their own item.
			if inner := p.blocks([]*html.Node{c}); len(inner) > 0 {
				items = append(items, p.listItem(inner))
			}
		}
	}
	if len(items) == 0 {
		return nil
	}
	return []*model.Node{p.create(listType, attrs, items)}
}

// listItem wraps blocks in a list item, which must open with a paragraph.
func (p *Parser) listItem(blocks []*model.Node) *model.Node {
	if len(blocks) == 0 || blocks[0].Type().Name != schema.Paragraph {
		blocks = append([]*model.Node{p.create(schema.Paragraph, nil, nil)}, blocks...)
	}
	return p.create(schema.ListItem, nil, blocks)
}

// create builds a node, filling required content when the given content is
// not valid for the type.
func (p *Parser) create(name string, attrs map[string]any, content []*model.Node) *model.Node {
	nt := p.schema.NodeType(name)
	if nt == nil {
		return nil
	}
	frag := model.NewFragment(content)
	if n, err := nt.CreateChecked(attrs, frag, nil); err == nil {
		return n
	}
	return nt.CreateAndFill(attrs, nil, nil)
}

// inline maps a run of inline elements to inline nodes allowed in parent.
func (p *Parser) inline(nodes []*html.Node, parent *model.NodeType) []*model.Node {
	b := &inlineBuilder{p: p, parent: parent, atStart: true}
	for _, n := range nodes {
		b.walk(n, nil)
	}
	return b.finish()
}

type inlineBuilder struct {
	p       *Parser
	parent  *model.NodeType
	out     []*model.Node
	atStart bool
}

func (b *inlineBuilder) walk(n *html.Node, marks []*model.Mark) {
	switch n.Type {
	case html.TextNode:
		b.text(n.Data, marks)
		return
	case html.ElementNode:
	default:
		return
	}

	s := b.p.schema
	switch n.Data {
	case "br":
		if nt := s.NodeType(schema.HardBreak); nt != nil {
			if br := mustCreate(nt, nil); b.parent.ValidContent(model.FragmentFrom(br)) {
				b.out = append(b.out, br)
				b.atStart = true
				return
			}
		}
		b.text(" ", marks)
		return
	case "img":
		src := attr(n, "src")
		nt := s.NodeType(schema.Image)
		if nt == nil || src == "" {
			return
		}
		img := mustCreate(nt, map[string]any{"src": src, "alt": attr(n, "alt"), "title": attr(n, "title")})
		if b.parent.ValidContent(model.FragmentFrom(img)) {
			b.out = append(b.out, img)
			b.atStart = false
		}
		return
	}

	for _, m := range b.p.elementMarks(n) {
		marks = m.AddToSet(marks)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c, marks)
	}
}

func (b *inlineBuilder) text(raw string, marks []*model.Mark) {
	text := collapseSpace(norm.NFC.String(raw))
	if b.atStart {
		text = strings.TrimLeft(text, " ")
	}
	if text == "" {
		return
	}
	b.out = append(b.out, b.p.schema.Text(text, b.parent.AllowedMarks(marks)...))
	b.atStart = strings.HasSuffix(text, " ")
}

// nbsp is the no-break space the serializer writes for spaces that
// whitespace collapsing would otherwise drop.
const nbsp = '\u00a0'

// finish trims trailing space from the last text run and turns no-break
// spaces back into plain spaces.
func (b *inlineBuilder) finish() []*model.Node {
	for len(b.out) > 0 {
		last := b.out[len(b.out)-1]
		if !last.IsText() {
			break
		}
		trimmed := strings.TrimRight(last.Text(), " ")
		if trimmed != "" {
			b.out[len(b.out)-1] = last.WithText(trimmed)
			break
		}
		b.out = b.out[:len(b.out)-1]
	}
	for i, n := range b.out {
		if n.IsText() && strings.ContainsRune(n.Text(), nbsp) {
			b.out[i] = n.WithText(strings.ReplaceAll(n.Text(), string(nbsp), " "))
		}
	}
	return b.out
}

// elementMarks returns the marks an inline element contributes. Marks whose
// type is absent from the schema are skipped.
func (p *Parser) elementMarks(n *html.Node) []*model.Mark {
	var out []*model.Mark
	add := func(name string, attrs map[string]any) {
		if mt := p.schema.MarkType(name); mt != nil {
			out = append(out, mt.Create(attrs))
		}
	}
	switch n.Data {
	case "strong", "b":
		add(schema.Bold, nil)
	case "em", "i":
		add(schema.Italic, nil)
	case "code":
		add(schema.Code, nil)
	case "u":
		add(schema.Underline, nil)
	case "s", "strike", "del":
		add(schema.Strikethrough, nil)
	case "a":
		if href := attr(n, "href"); href != "" {
			add(schema.Link, map[string]any{"href": href, "title": attr(n, "title")})
		}
	case "mark":
		color := attr(n, "data-color")
		if color == "" {
			color = styles(n)["background-color"]
		}
		add(schema.Highlight, map[string]any{"color": color})
		return out
	}

	for key, val := range styles(n) {
		switch key {
		case "color":
			add(schema.TextColor, map[string]any{"color": val})
		case "background-color":
			add(schema.Highlight, map[string]any{"color": val})
		case "font-size":
			add(schema.FontSize, map[string]any{"size": val})
		case "font-family":
			add(schema.FontFamily, map[string]any{"family": val})
		}
	}
	return out
}

func mustCreate(nt *model.NodeType, attrs map[string]any) *model.Node {
	n, err := nt.Create(attrs, nil, nil)
	if err != nil {
		panic(err)
	}
	return n
}

// styles parses an element's inline style declarations. Values of
// "inherit" are dropped.
func styles(n *html.Node) map[string]string {
	out := make(map[string]string)
	for decl := range strings.SplitSeq(attr(n, "style"), ";") {
		key, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		if key == "" || val == "" || val == "inherit" {
			continue
		}
		out[key] = val
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func childNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// containsBlock reports whether any descendant of n is a block element.
func containsBlock(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if knownBlocks[c.Data] || !inlineTags[c.Data] || containsBlock(c) {
			return true
		}
	}
	return false
}

func rawText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// collapseSpace replaces each run of HTML whitespace with one space.
func collapseSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				sb.WriteByte(' ')
			}
			space = true
		default:
			sb.WriteRune(r)
			space = false
		}
	}
	return sb.String()
}
