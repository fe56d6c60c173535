package activeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/engine/decoration"
	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/schema"
	"github.com/dshills/inkwell/internal/engine/state"
)

var b = schema.NewBuilder(nil)

func decorations(t *testing.T, doc *model.Node, sel state.Selection, types ...string) []decoration.Decoration {
	t.Helper()
	s, err := state.New(state.Config{Doc: doc, Selection: &sel, Plugins: []*state.Plugin{New(types...)}})
	require.NoError(t, err)
	return s.Decorations().All()
}

func TestActiveLine(t *testing.T) {
	// p("one") 0-5, ul 5-14 holding li 6-13 holding p("two") 7-12, code 14-18.
	doc := b.Doc(b.P(b.T("one")), b.UL(b.LI(b.P(b.T("two")))), b.Code("", "go"))

	tests := []struct {
		name  string
		sel   state.Selection
		types []string
		want  []decoration.Decoration
	}{
		{"paragraph", state.Cursor(2), nil, []decoration.Decoration{
			decoration.Node(0, 5, Class).WithPriority(decoration.PriorityLow),
		}},
		{"innermost line wins", state.Cursor(9), nil, []decoration.Decoration{
			decoration.Node(7, 12, Class).WithPriority(decoration.PriorityLow),
		}},
		{"custom line types", state.Cursor(9), []string{schema.ListItem}, []decoration.Decoration{
			decoration.Node(6, 13, Class).WithPriority(decoration.PriorityLow),
		}},
		{"code block", state.Cursor(16), nil, []decoration.Decoration{
			decoration.Node(14, 18, Class).WithPriority(decoration.PriorityLow),
		}},
		{"range selection", state.NewTextSelection(1, 3), nil, nil},
		{"between blocks", state.Cursor(5), nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decorations(t, doc, tt.sel, tt.types...)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActiveLineFollowsSelection(t *testing.T) {
	doc := b.Doc(b.P(b.T("one")), b.P(b.T("two")))
	sel := state.Cursor(2)
	s, err := state.New(state.Config{Doc: doc, Selection: &sel, Plugins: []*state.Plugin{New()}})
	require.NoError(t, err)

	s = s.Apply(s.Tr().SetSelection(state.Cursor(7)))
	from, to, ok := Line(s, schema.LineTypes)
	require.True(t, ok)
	assert.Equal(t, 5, from)
	assert.Equal(t, 10, to)
}
