package transform

import (
	"sort"

	"github.com/dshills/inkwell/internal/engine/model"
)

// TypeAttrs names a node type and attributes for a node created by a
// structural change.
type TypeAttrs struct {
	Type  *model.NodeType
	Attrs map[string]any
}

// Split splits the node at pos and depth-1 of its ancestors. typesAfter
// optionally gives, outermost first, the type of each node created after
// the split; a nil entry keeps the original type.
func (t *Transform) Split(pos, depth int, typesAfter ...*TypeAttrs) error {
	rPos := t.Doc.Resolve(pos)
	before, after := model.EmptyFragment, model.EmptyFragment
	for d, e, i := rPos.Depth, rPos.Depth-depth, depth-1; d > e; d, i = d-1, i-1 {
		before = model.FragmentFrom(rPos.Node(d).Copy(before))
		var ta *TypeAttrs
		if i >= 0 && i < len(typesAfter) {
			ta = typesAfter[i]
		}
		if ta != nil && ta.Type != nil {
			n, err := ta.Type.Create(ta.Attrs, after, nil)
			if err != nil {
				return err
			}
			after = model.FragmentFrom(n)
		} else {
			after = model.FragmentFrom(rPos.Node(d).Copy(after))
		}
	}
	step := NewReplaceStep(pos, pos, model.NewSlice(before.Append(after), depth, depth))
	step.Structure = true
	return t.Step(step)
}

// CanSplit reports whether Split would succeed on doc.
func CanSplit(doc *model.Node, pos, depth int, typesAfter ...*TypeAttrs) bool {
	r := doc.Resolve(pos)
	if r.Depth-depth < 0 {
		return false
	}
	return New(doc).Split(pos, depth, typesAfter...) == nil
}

// DeleteRange deletes [from, to) even when the endpoints sit at different
// depths. Nodes fully covered are removed, partially covered nodes are
// trimmed and the two boundary blocks are joined when their depths and
// types allow it.
func (t *Transform) DeleteRange(from, to int) error {
	if from >= to {
		return nil
	}
	if res := t.MaybeStep(NewReplaceStep(from, to, model.EmptySlice)); res.OK() {
		return nil
	}

	rFrom, rTo := t.Doc.Resolve(from), t.Doc.Resolve(to)
	shared := rFrom.SharedDepth(to)
	type span struct{ from, to int }
	var spans []span
	add := func(a, b int) {
		if b > a {
			spans = append(spans, span{a, b})
		}
	}

	midFrom, midTo := from, to
	for d := rFrom.Depth; d > shared; d-- {
		start := from
		if d < rFrom.Depth {
			start = rFrom.After(d + 1)
		}
		add(start, rFrom.End(d))
		midFrom = rFrom.After(d)
	}
	for d := rTo.Depth; d > shared; d-- {
		end := to
		if d < rTo.Depth {
			end = rTo.Before(d + 1)
		}
		add(rTo.Start(d), end)
		midTo = rTo.Before(d)
	}
	add(midFrom, midTo)

	sort.Slice(spans, func(i, j int) bool { return spans[i].from > spans[j].from })
	startStep := len(t.Steps)
	for _, s := range spans {
		t.MaybeStep(NewReplaceStep(s.from, s.to, model.EmptySlice))
	}
	if len(t.Steps) == startStep {
		return t.Step(NewReplaceStep(from, to, model.EmptySlice))
	}

	m := t.mapping.Slice(startStep)
	joinFrom, joinTo := m.Map(from, -1), m.Map(to, 1)
	if joinFrom < joinTo {
		t.MaybeStep(NewReplaceStep(joinFrom, joinTo, model.EmptySlice))
	}
	return nil
}
