// Package activeline highlights the block holding a collapsed cursor.
//
// The overlay keeps no state of its own. Decorations are computed from
// each editor state by walking from the cursor's innermost block outward
// to the first line-level block.
package activeline

import (
	"slices"

	"github.com/dshills/inkwell/internal/engine/decoration"
	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/schema"
	"github.com/dshills/inkwell/internal/engine/state"
)

// Class is the decoration class of the active line.
const Class = "active-line"

// Key identifies the active-line plugin.
var Key = state.NewPluginKey("activeLine")

// New creates the active-line plugin. types lists the line-level node
// names; schema.LineTypes is used when it is empty.
func New(types ...string) *state.Plugin {
	if len(types) == 0 {
		types = schema.LineTypes
	}
	return &state.Plugin{
		Key: Key,
		Decorations: func(s *state.EditorState) *decoration.Set {
			from, to, ok := Line(s, types)
			if !ok {
				return decoration.Empty
			}
			return decoration.NewSet(decoration.Node(from, to, Class).WithPriority(decoration.PriorityLow))
		},
	}
}

// Line returns the bounds of the line-level block around a collapsed
// cursor.
func Line(s *state.EditorState, types []string) (from, to int, ok bool) {
	pos, ok := s.Selection.CursorPos()
	if !ok {
		return 0, 0, false
	}
	r := s.Doc.Resolve(pos)
	for d := r.Depth; d > 0; d-- {
		if isLine(r.Node(d), types) {
			return r.Before(d), r.After(d), true
		}
	}
	return 0, 0, false
}

func isLine(n *model.Node, types []string) bool {
	return slices.Contains(types, n.Type().Name)
}
