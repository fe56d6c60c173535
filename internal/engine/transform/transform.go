package transform

import (
	"fmt"

	"github.com/dshills/inkwell/internal/engine/model"
)

// Transform accumulates steps applied to a document.
type Transform struct {
	// Doc is the current document, after all steps so far.
	Doc *model.Node

	// Steps are the applied steps in order.
	Steps []Step

	// Docs holds the document before each step.
	Docs []*model.Node

	mapping *Mapping
}

// New starts a transform of doc.
func New(doc *model.Node) *Transform {
	return &Transform{Doc: doc, mapping: NewMapping(doc.Content().Size())}
}

// Before returns the starting document.
func (t *Transform) Before() *model.Node {
	if len(t.Docs) > 0 {
		return t.Docs[0]
	}
	return t.Doc
}

// Mapping returns the mapping of all steps so far.
func (t *Transform) Mapping() *Mapping { return t.mapping }

// DocChanged reports whether any step was applied.
func (t *Transform) DocChanged() bool { return len(t.Steps) > 0 }

// Step applies a step, returning an error when it fails.
func (t *Transform) Step(s Step) error {
	res := t.MaybeStep(s)
	if !res.OK() {
		return fmt.Errorf("%w: %s: %s", ErrStepFailed, s, res.Failed)
	}
	return nil
}

// MaybeStep applies a step if it can, returning the result. A failed step
// leaves the transform unchanged.
func (t *Transform) MaybeStep(s Step) StepResult {
	res := s.Apply(t.Doc)
	if res.OK() {
		t.addStep(s, res.Doc)
	}
	return res
}

func (t *Transform) addStep(s Step, doc *model.Node) {
	t.Docs = append(t.Docs, t.Doc)
	t.Steps = append(t.Steps, s)
	t.mapping.AppendMap(s.GetMap())
	t.Doc = doc
}

// Replace replaces [from, to) with slice.
func (t *Transform) Replace(from, to int, slice *model.Slice) error {
	if from == to && (slice == nil || slice.Size() == 0) {
		return nil
	}
	return t.Step(NewReplaceStep(from, to, slice))
}

// ReplaceWith replaces [from, to) with the given nodes.
func (t *Transform) ReplaceWith(from, to int, nodes ...*model.Node) error {
	return t.Replace(from, to, model.NewSlice(model.NewFragment(nodes), 0, 0))
}

// Insert inserts nodes at pos.
func (t *Transform) Insert(pos int, nodes ...*model.Node) error {
	return t.ReplaceWith(pos, pos, nodes...)
}

// Delete deletes [from, to).
func (t *Transform) Delete(from, to int) error {
	return t.Replace(from, to, model.EmptySlice)
}

// InsertText inserts text at pos with the given marks. Empty text is a
// no-op.
func (t *Transform) InsertText(pos int, text string, marks []*model.Mark) error {
	if text == "" {
		return nil
	}
	return t.Insert(pos, t.Doc.Type().Schema.Text(text, marks...))
}
