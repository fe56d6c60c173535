package transform

import "github.com/dshills/inkwell/internal/engine/model"

// AddMark adds mark to the inline content in [from, to). Marks excluded by
// mark (another mark of the same type) are replaced.
func (t *Transform) AddMark(from, to int, mark *model.Mark) *Transform {
	var removed, added []Step
	var removing *RemoveMarkStep
	var adding *AddMarkStep
	t.Doc.NodesBetween(from, to, func(node *model.Node, pos int, parent *model.Node, _ int) bool {
		if !node.IsInline() {
			return true
		}
		marks := node.Marks()
		if mark.IsInSet(marks) || !parent.Type().AllowsMarkType(mark.Type()) {
			return true
		}
		start, end := max(pos, from), min(pos+node.NodeSize(), to)
		newSet := mark.AddToSet(marks)
		for _, m := range marks {
			if m.IsInSet(newSet) {
				continue
			}
			if removing != nil && removing.To == start && removing.Mark.Eq(m) {
				removing.To = end
			} else {
				removing = &RemoveMarkStep{From: start, To: end, Mark: m}
				removed = append(removed, removing)
			}
		}
		if adding != nil && adding.To == start {
			adding.To = end
		} else {
			adding = &AddMarkStep{From: start, To: end, Mark: mark}
			added = append(added, adding)
		}
		return true
	})
	for _, s := range removed {
		t.MaybeStep(s)
	}
	for _, s := range added {
		t.MaybeStep(s)
	}
	return t
}

// RemoveMark removes every mark of type mt from the inline content in
// [from, to).
func (t *Transform) RemoveMark(from, to int, mt *model.MarkType) *Transform {
	return t.removeMarks(from, to, func(marks []*model.Mark) []*model.Mark {
		if m := mt.IsInSet(marks); m != nil {
			return []*model.Mark{m}
		}
		return nil
	})
}

// RemoveMarkInstance removes the given mark (type and attributes) from
// [from, to).
func (t *Transform) RemoveMarkInstance(from, to int, mark *model.Mark) *Transform {
	return t.removeMarks(from, to, func(marks []*model.Mark) []*model.Mark {
		if mark.IsInSet(marks) {
			return []*model.Mark{mark}
		}
		return nil
	})
}

// RemoveAllMarks removes all marks from [from, to).
func (t *Transform) RemoveAllMarks(from, to int) *Transform {
	return t.removeMarks(from, to, func(marks []*model.Mark) []*model.Mark { return marks })
}

type markMatch struct {
	mark     *model.Mark
	from, to int
	step     int
}

func (t *Transform) removeMarks(from, to int, pick func([]*model.Mark) []*model.Mark) *Transform {
	var matched []*markMatch
	step := 0
	t.Doc.NodesBetween(from, to, func(node *model.Node, pos int, _ *model.Node, _ int) bool {
		if !node.IsInline() {
			return true
		}
		step++
		end := min(pos+node.NodeSize(), to)
		for _, m := range pick(node.Marks()) {
			var found *markMatch
			for _, mm := range matched {
				if mm.step == step-1 && m.Eq(mm.mark) {
					found = mm
				}
			}
			if found != nil {
				found.to = end
				found.step = step
			} else {
				matched = append(matched, &markMatch{mark: m, from: max(pos, from), to: end, step: step})
			}
		}
		return true
	})
	for _, mm := range matched {
		t.MaybeStep(&RemoveMarkStep{From: mm.from, To: mm.to, Mark: mm.mark})
	}
	return t
}
