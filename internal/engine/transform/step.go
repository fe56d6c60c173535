package transform

import (
	"fmt"

	"github.com/dshills/inkwell/internal/engine/model"
)

// Step is an atomic document change.
type Step interface {
	// Apply applies the step to doc.
	Apply(doc *model.Node) StepResult

	// GetMap returns the position map of the step.
	GetMap() *StepMap

	// Invert returns a step that undoes this one. doc is the document the
	// step was applied to.
	Invert(doc *model.Node) Step

	// Map returns the step mapped through m, or nil when the content it
	// touches was deleted.
	Map(m Mappable) Step

	fmt.Stringer
}

// StepResult is the outcome of applying a step. Failed is empty on
// success.
type StepResult struct {
	Doc    *model.Node
	Failed string
}

// OK reports whether the step applied.
func (r StepResult) OK() bool { return r.Failed == "" }

func stepOK(doc *model.Node) StepResult { return StepResult{Doc: doc} }

func stepFail(msg string) StepResult { return StepResult{Failed: msg} }

func stepFromReplace(doc *model.Node, from, to int, slice *model.Slice) StepResult {
	out, err := doc.Replace(from, to, slice)
	if err != nil {
		return stepFail(err.Error())
	}
	return stepOK(out)
}

// ReplaceStep replaces [From, To) with Slice. It covers pure deletion
// (empty slice) and pure insertion (From == To).
type ReplaceStep struct {
	From  int
	To    int
	Slice *model.Slice

	// Structure marks steps that may only replace structure tokens, such
	// as splits. Such a step fails when content would be overwritten.
	Structure bool
}

// NewReplaceStep creates a replace step.
func NewReplaceStep(from, to int, slice *model.Slice) *ReplaceStep {
	if slice == nil {
		slice = model.EmptySlice
	}
	return &ReplaceStep{From: from, To: to, Slice: slice}
}

// Apply implements Step.
func (s *ReplaceStep) Apply(doc *model.Node) StepResult {
	if s.Structure && contentBetween(doc, s.From, s.To) {
		return stepFail("structure replace would overwrite content")
	}
	return stepFromReplace(doc, s.From, s.To, s.Slice)
}

// GetMap implements Step.
func (s *ReplaceStep) GetMap() *StepMap {
	return NewStepMap(s.From, s.To-s.From, s.Slice.Size())
}

// Invert implements Step.
func (s *ReplaceStep) Invert(doc *model.Node) Step {
	return &ReplaceStep{From: s.From, To: s.From + s.Slice.Size(), Slice: doc.Slice(s.From, s.To)}
}

// Map implements Step.
func (s *ReplaceStep) Map(m Mappable) Step {
	from, to := m.MapResult(s.From, 1), m.MapResult(s.To, -1)
	if from.DeletedAcross && to.DeletedAcross {
		return nil
	}
	return &ReplaceStep{From: from.Pos, To: max(from.Pos, to.Pos), Slice: s.Slice, Structure: s.Structure}
}

func (s *ReplaceStep) String() string {
	return fmt.Sprintf("replace(%d, %d, %s)", s.From, s.To, s.Slice.Content)
}

// contentBetween reports whether [from, to) holds anything but the
// closing and opening tokens of adjacent nodes.
func contentBetween(doc *model.Node, from, to int) bool {
	r := doc.Resolve(from)
	dist := to - from
	depth := r.Depth
	for dist > 0 && depth > 0 && r.IndexAfter(depth) == r.Node(depth).ChildCount() {
		depth--
		dist--
	}
	if dist > 0 {
		next := r.Node(depth).MaybeChild(r.IndexAfter(depth))
		for dist > 0 {
			if next == nil || next.IsLeaf() {
				return true
			}
			next = next.FirstChild()
			dist--
		}
	}
	return false
}

// AddMarkStep adds Mark to all inline content in [From, To).
type AddMarkStep struct {
	From int
	To   int
	Mark *model.Mark
}

// Apply implements Step.
func (s *AddMarkStep) Apply(doc *model.Node) StepResult {
	return applyMarkChange(doc, s.From, s.To, func(set []*model.Mark) []*model.Mark {
		return s.Mark.AddToSet(set)
	}, s.Mark.Type())
}

// GetMap implements Step.
func (s *AddMarkStep) GetMap() *StepMap { return EmptyStepMap }

// Invert implements Step.
func (s *AddMarkStep) Invert(*model.Node) Step {
	return &RemoveMarkStep{From: s.From, To: s.To, Mark: s.Mark}
}

// Map implements Step.
func (s *AddMarkStep) Map(m Mappable) Step {
	from, to := m.MapResult(s.From, 1), m.MapResult(s.To, -1)
	if (from.DeletedAcross && to.DeletedAcross) || from.Pos >= to.Pos {
		return nil
	}
	return &AddMarkStep{From: from.Pos, To: to.Pos, Mark: s.Mark}
}

func (s *AddMarkStep) String() string {
	return fmt.Sprintf("addMark(%d, %d, %s)", s.From, s.To, s.Mark)
}

// RemoveMarkStep removes Mark from all inline content in [From, To).
type RemoveMarkStep struct {
	From int
	To   int
	Mark *model.Mark
}

// Apply implements Step.
func (s *RemoveMarkStep) Apply(doc *model.Node) StepResult {
	return applyMarkChange(doc, s.From, s.To, func(set []*model.Mark) []*model.Mark {
		return s.Mark.RemoveFromSet(set)
	}, nil)
}

// GetMap implements Step.
func (s *RemoveMarkStep) GetMap() *StepMap { return EmptyStepMap }

// Invert implements Step.
func (s *RemoveMarkStep) Invert(*model.Node) Step {
	return &AddMarkStep{From: s.From, To: s.To, Mark: s.Mark}
}

// Map implements Step.
func (s *RemoveMarkStep) Map(m Mappable) Step {
	from, to := m.MapResult(s.From, 1), m.MapResult(s.To, -1)
	if (from.DeletedAcross && to.DeletedAcross) || from.Pos >= to.Pos {
		return nil
	}
	return &RemoveMarkStep{From: from.Pos, To: to.Pos, Mark: s.Mark}
}

func (s *RemoveMarkStep) String() string {
	return fmt.Sprintf("removeMark(%d, %d, %s)", s.From, s.To, s.Mark)
}

// applyMarkChange rewrites the mark sets of inline nodes in [from, to).
// When only is non-nil, nodes whose parent disallows that mark type are
// left alone.
func applyMarkChange(doc *model.Node, from, to int, change func([]*model.Mark) []*model.Mark, only *model.MarkType) StepResult {
	old := doc.Slice(from, to)
	rFrom := doc.Resolve(from)
	parent := rFrom.Node(rFrom.SharedDepth(to))
	content := mapInline(old.Content, parent, func(node, parent *model.Node) *model.Node {
		if !node.IsAtom() || (only != nil && !parent.Type().AllowsMarkType(only)) {
			return node
		}
		return node.Mark(change(node.Marks()))
	})
	return stepFromReplace(doc, from, to, model.NewSlice(content, old.OpenStart, old.OpenEnd))
}

func mapInline(f *model.Fragment, parent *model.Node, fn func(node, parent *model.Node) *model.Node) *model.Fragment {
	mapped := make([]*model.Node, 0, f.ChildCount())
	for _, child := range f.Children() {
		if child.Content().Size() > 0 {
			child = child.Copy(mapInline(child.Content(), child, fn))
		}
		if child.IsInline() {
			child = fn(child, parent)
		}
		mapped = append(mapped, child)
	}
	return model.NewFragment(mapped)
}
