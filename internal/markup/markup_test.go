package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/schema"
)

var b = schema.NewBuilder(nil)

func assertDoc(t *testing.T, want, got *model.Node) {
	t.Helper()
	assert.True(t, want.Eq(got), "want %s\n got %s", want, got)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want *model.Node
	}{
		{"empty", "", b.EmptyDoc()},
		{"paragraph", "<p>Hello <strong>world</strong></p>", b.Doc(b.P(b.T("Hello "), b.T("world", b.Bold())))},
		{"bare text", "just text", b.Doc(b.P(b.T("just text")))},
		{"whitespace", "<p>  a \n  b  </p>\n\n<p>c</p>", b.Doc(b.P(b.T("a b")), b.P(b.T("c")))},
		{"heading", "<h2>Title</h2>", b.Doc(b.H(2, b.T("Title")))},
		{"unknown tags degrade", "<div>plain</div><section><p>a</p></section>", b.Doc(b.P(b.T("plain")), b.P(b.T("a")))},
		{"script stripped", "<p>a</p><script>alert(1)</script>", b.Doc(b.P(b.T("a")))},
		{"hard break", "<p>a<br>b</p>", b.Doc(b.P(b.T("a"), b.BR(), b.T("b")))},
		{"list", "<ul><li><p>one</p></li><li>two</li></ul>", b.Doc(b.UL(b.LI(b.P(b.T("one"))), b.LI(b.P(b.T("two")))))},
		{"nested list", "<ul><li>a<ul><li>b</li></ul></li></ul>", b.Doc(b.UL(b.LI(b.P(b.T("a")), b.UL(b.LI(b.P(b.T("b")))))))},
		{"blockquote", "<blockquote>quoted</blockquote>", b.Doc(b.Quote(b.P(b.T("quoted"))))},
		{"empty blockquote", "<blockquote></blockquote>", b.Doc(b.Quote(b.P()))},
		{"code block", "<pre><code class=\"language-go\">a := 1\nb := 2</code></pre>", b.Doc(b.Code("go", "a := 1\nb := 2"))},
		{"rule", "<p>a</p><hr><p>b</p>", b.Doc(b.P(b.T("a")), b.HR(), b.P(b.T("b")))},
		{"styled span", `<p><span style="color: #ff0000; font-size: 18px">x</span></p>`, b.Doc(b.P(b.T("x", b.Color("#ff0000"), b.FontSize("18px"))))},
		{"highlight", `<p><mark data-color="#ffff00">x</mark></p>`, b.Doc(b.P(b.T("x", b.Highlight("#ffff00"))))},
		{"link", `<p><a href="https://example.com">site</a></p>`, b.Doc(b.P(b.T("site", b.Link("https://example.com"))))},
		{"normalized", "<p>e\u0301</p>", b.Doc(b.P(b.T("\u00e9")))},
	}
	p := NewParser(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := p.ParseString(tt.src)
			require.NoError(t, err)
			assertDoc(t, tt.want, doc)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := NewParser(nil).ParseBytes([]byte{'<', 'p', '>', 0xff, 0xfe})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseWithoutOptionalTypes(t *testing.T) {
	s, err := schema.New(schema.WithoutLists(), schema.WithoutNodes(schema.Heading), schema.WithoutMarks(schema.Bold))
	require.NoError(t, err)
	sb := schema.NewBuilder(s)

	doc, err := NewParser(s).ParseString("<h1>T</h1><ul><li>one</li><li>two</li></ul><p><b>x</b></p>")
	require.NoError(t, err)
	assertDoc(t, sb.Doc(sb.P(sb.T("T")), sb.P(sb.T("one")), sb.P(sb.T("two")), sb.P(sb.T("x"))), doc)
}

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		doc  *model.Node
		want string
	}{
		{"empty", b.EmptyDoc(), "<p></p>"},
		{"marks", b.Doc(b.P(b.T("Hello "), b.T("world", b.Bold()))), "<p>Hello <strong>world</strong></p>"},
		{"mark order", b.Doc(b.P(b.T("x", b.Bold(), b.Color("red")))), `<p><span style="color: red"><strong>x</strong></span></p>`},
		{"shared outer mark", b.Doc(b.P(b.T("a", b.Italic()), b.T("b", b.Italic(), b.Strike()))), "<p><em>a<s>b</s></em></p>"},
		{"escaping", b.Doc(b.P(b.T("a < b"))), "<p>a &lt; b</p>"},
		{"heading", b.Doc(b.H(3, b.T("T"))), "<h3>T</h3>"},
		{"code", b.Doc(b.Code("go", "x")), `<pre><code class="language-go">x</code></pre>`},
		{"ordered list", b.Doc(b.S.Node(schema.OrderedList, map[string]any{"start": 3}, b.LI(b.P(b.T("x"))))), `<ol start="3"><li><p>x</p></li></ol>`},
		{"break and image", b.Doc(b.P(b.T("a"), b.BR(), b.Img("https://example.com/a.png"))), `<p>a<br/><img src="https://example.com/a.png"/></p>`},
		{"link", b.Doc(b.P(b.T("site", b.Link("https://example.com")))), `<p><a href="https://example.com">site</a></p>`},
		{"highlight", b.Doc(b.P(b.T("x", b.Highlight("#ff0")))), `<p><mark data-color="#ff0">x</mark></p>`},
	}
	s := NewSerializer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Serialize(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	titled := b.S.Mark(schema.Link, map[string]any{"href": "https://example.com", "title": "Example"})
	img := b.S.Node(schema.Image, map[string]any{"src": "a.png", "alt": "A", "title": "Pic"})

	tests := []struct {
		name string
		doc  *model.Node
	}{
		{"vocabulary", b.Doc(
			b.H(1, b.T("Notes")),
			b.P(b.T("plain "), b.T("bold", b.Bold()), b.T(" and "), b.T("tinted", b.Color("#336699"), b.Italic())),
			b.Quote(b.P(b.T("quoted"))),
			b.UL(b.LI(b.P(b.T("one"))), b.LI(b.P(b.T("two")), b.OL(b.LI(b.P(b.T("nested")))))),
			b.Code("", "line 1\nline 2"),
			b.HR(),
			b.P(b.T("sized", b.FontSize("1.2em"), b.FontFamily("serif"))),
		)},
		{"link and image", b.Doc(b.P(b.T("see "), b.T("site", titled), b.T(" "), img))},
		{"other marks", b.Doc(b.P(b.T("u", b.Underline()), b.T("c", b.CodeMark()), b.T("h", b.Highlight("yellow"))))},
		{"double space", b.Doc(b.P(b.T("a  b")))},
		{"leading space", b.Doc(b.P(b.T(" lead")))},
		{"trailing space", b.Doc(b.P(b.T("tail ")))},
		{"only spaces", b.Doc(b.P(b.T("   ")))},
		{"space run across marks", b.Doc(b.P(b.T("a "), b.T(" b", b.Bold())))},
		{"space after break", b.Doc(b.P(b.T("a"), b.BR(), b.T(" b")))},
	}
	p := NewParser(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, minified := range []bool{false, true} {
				out, err := NewSerializer(WithMinify(minified)).Serialize(tt.doc)
				require.NoError(t, err)
				back, err := p.ParseString(out)
				require.NoError(t, err)
				assertDoc(t, tt.doc, back)
			}
		})
	}
}

func TestSerializeKeepsSpaces(t *testing.T) {
	out, err := NewSerializer().Serialize(b.Doc(b.P(b.T(" a  b "))))
	require.NoError(t, err)
	assert.Equal(t, "<p>\u00a0a \u00a0b\u00a0</p>", out)
}

func TestParseNoBreakSpace(t *testing.T) {
	doc, err := NewParser(nil).ParseString("<p>a&nbsp; b</p>")
	require.NoError(t, err)
	assertDoc(t, b.Doc(b.P(b.T("a  b"))), doc)
}

func TestMinifyShrinks(t *testing.T) {
	doc := b.Doc(b.P(b.T("a")), b.UL(b.LI(b.P(b.T("b")))))
	plain, err := NewSerializer().Serialize(doc)
	require.NoError(t, err)
	small, err := NewSerializer(WithMinify(true)).Serialize(doc)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(small), len(plain))
	assert.True(t, strings.Contains(small, "b"))
}

func TestSerializeNil(t *testing.T) {
	_, err := NewSerializer().Serialize(nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}
