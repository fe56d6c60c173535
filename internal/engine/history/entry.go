package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/state"
	"github.com/dshills/inkwell/internal/engine/transform"
)

// Entry is one undoable change.
type Entry struct {
	// ID is the ID of the transaction that produced the entry.
	ID uuid.UUID

	// Steps revert the change when applied in order.
	Steps []transform.Step

	// Selection is restored after the steps are applied.
	Selection state.Selection

	// Description names the change, from the transaction's UI event.
	Description string

	// Timestamp is when the change was made.
	Timestamp time.Time
}

// Info describes an entry.
type Info struct {
	ID          uuid.UUID
	Description string
	Timestamp   time.Time
	Steps       int
}

func (e *Entry) info() Info {
	return Info{ID: e.ID, Description: e.Description, Timestamp: e.Timestamp, Steps: len(e.Steps)}
}

// invertSteps returns steps that revert t, newest first.
func invertSteps(t *transform.Transform) []transform.Step {
	out := make([]transform.Step, 0, len(t.Steps))
	for i := len(t.Steps) - 1; i >= 0; i-- {
		out = append(out, t.Steps[i].Invert(t.Docs[i]))
	}
	return out
}

func newEntry(tr *state.Transaction, sel state.Selection) *Entry {
	desc, _ := tr.Meta(state.MetaUIEvent).(string)
	if desc == "" {
		desc = "edit"
	}
	return &Entry{
		ID:          tr.ID,
		Steps:       invertSteps(tr.Transform),
		Selection:   sel,
		Description: desc,
		Timestamp:   tr.Time,
	}
}

// merge returns an entry reverting e and then the older change o.
func (e *Entry) merge(o *Entry) *Entry {
	steps := make([]transform.Step, 0, len(e.Steps)+len(o.Steps))
	steps = append(steps, e.Steps...)
	steps = append(steps, o.Steps...)
	return &Entry{ID: o.ID, Steps: steps, Selection: o.Selection, Description: o.Description, Timestamp: o.Timestamp}
}

// rebase maps the entry through m, a change made to the document the
// entry applies to. It returns the rebased entry and the mapping from the
// document the old entry produced to the one the new entry produces.
// Positions inside content removed by a step collapse to the removal
// point.
func (e *Entry) rebase(m *transform.Mapping) (*Entry, *transform.Mapping) {
	steps := make([]transform.Step, 0, len(e.Steps))
	cur := m
	for _, s := range e.Steps {
		mapped := s.Map(cur)
		next := transform.NewMapping(-1)
		next.AppendMap(s.GetMap().Invert())
		for _, sm := range cur.Maps() {
			next.AppendMap(sm)
		}
		if mapped != nil {
			steps = append(steps, mapped)
			next.AppendMap(mapped.GetMap())
		}
		cur = next
	}
	out := *e
	out.Steps = steps
	if !e.Selection.IsAll() {
		out.Selection = state.NewTextSelection(cur.Map(e.Selection.Anchor, 1), cur.Map(e.Selection.Head, 1))
	}
	return &out, cur
}

// restoreSelection returns sel if it fits doc and a nearby cursor
// otherwise.
func restoreSelection(doc *model.Node, sel state.Selection) state.Selection {
	if sel.IsAll() {
		return state.AllSelection(doc)
	}
	size := doc.Content().Size()
	if sel.Anchor < 0 || sel.Anchor > size || sel.Head < 0 || sel.Head > size {
		return state.Near(doc, min(max(sel.Head, 0), size), -1)
	}
	if !doc.Resolve(sel.Head).Parent().InlineContent() {
		return state.Near(doc, sel.Head, 1)
	}
	return sel
}
