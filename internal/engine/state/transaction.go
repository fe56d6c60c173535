package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/transform"
)

// Metadata keys understood by the engine.
const (
	// MetaAddToHistory set to false keeps a transaction out of undo history.
	MetaAddToHistory = "addToHistory"

	// MetaUIEvent names the input that produced the transaction.
	MetaUIEvent = "uiEvent"
)

// Transaction is a Transform that also tracks the selection, stored marks
// and metadata. Build one with EditorState.Tr and apply it with
// EditorState.Apply.
type Transaction struct {
	*transform.Transform

	// ID uniquely identifies the transaction.
	ID uuid.UUID

	// Time is when the transaction was created.
	Time time.Time

	sel    Selection
	selFor int
	selSet bool

	storedMarks []*model.Mark
	marksFor    int
	marksSet    bool

	meta map[any]any
}

func newTransaction(s *EditorState) *Transaction {
	return &Transaction{
		Transform:   transform.New(s.Doc),
		ID:          uuid.New(),
		Time:        time.Now(),
		sel:         s.Selection,
		storedMarks: s.StoredMarks,
	}
}

// Selection returns the selection, mapped through any steps added since it
// was set.
func (tr *Transaction) Selection() Selection {
	if tr.selFor < len(tr.Steps) {
		tr.sel = tr.sel.Map(tr.Doc, tr.Mapping().Slice(tr.selFor))
		tr.selFor = len(tr.Steps)
	}
	return tr.sel
}

// SetSelection sets the selection. It clears stored marks.
func (tr *Transaction) SetSelection(sel Selection) *Transaction {
	sel.Check(tr.Doc)
	tr.sel = sel
	tr.selFor = len(tr.Steps)
	tr.selSet = true
	tr.storedMarks = nil
	tr.marksFor = len(tr.Steps)
	tr.marksSet = false
	return tr
}

// SelectionSet reports whether the selection was set explicitly.
func (tr *Transaction) SelectionSet() bool { return tr.selSet }

// StoredMarks returns the stored marks. Adding a step clears them.
func (tr *Transaction) StoredMarks() []*model.Mark {
	if tr.marksFor != len(tr.Steps) {
		return nil
	}
	return tr.storedMarks
}

// SetStoredMarks replaces the stored marks. Nil clears them; an empty
// non-nil set suppresses the marks at the cursor.
func (tr *Transaction) SetStoredMarks(marks []*model.Mark) *Transaction {
	tr.storedMarks = marks
	tr.marksFor = len(tr.Steps)
	tr.marksSet = true
	return tr
}

// StoredMarksSet reports whether stored marks were set explicitly.
func (tr *Transaction) StoredMarksSet() bool {
	return tr.marksSet && tr.marksFor == len(tr.Steps)
}

func (tr *Transaction) headMarks() []*model.Mark {
	if marks := tr.StoredMarks(); marks != nil {
		return marks
	}
	return tr.Doc.Resolve(tr.Selection().Head).Marks()
}

// EnsureMarks makes marks the stored marks unless the marks at the
// selection already equal them.
func (tr *Transaction) EnsureMarks(marks []*model.Mark) *Transaction {
	if marks == nil {
		marks = []*model.Mark{}
	}
	current := tr.StoredMarks()
	if current == nil {
		current = tr.Doc.Resolve(tr.Selection().From()).Marks()
	}
	if !model.SameMarkSet(current, marks) {
		tr.SetStoredMarks(marks)
	}
	return tr
}

// AddStoredMark adds mark to the stored marks.
func (tr *Transaction) AddStoredMark(mark *model.Mark) *Transaction {
	return tr.EnsureMarks(mark.AddToSet(tr.headMarks()))
}

// RemoveStoredMark removes marks of type mt from the stored marks.
func (tr *Transaction) RemoveStoredMark(mt *model.MarkType) *Transaction {
	return tr.EnsureMarks(mt.RemoveFromSet(tr.headMarks()))
}

// SetMeta stores a metadata value.
func (tr *Transaction) SetMeta(key, value any) *Transaction {
	if tr.meta == nil {
		tr.meta = make(map[any]any)
	}
	tr.meta[key] = value
	return tr
}

// Meta returns a metadata value or nil.
func (tr *Transaction) Meta(key any) any {
	return tr.meta[key]
}

// HasMeta reports whether any metadata is set.
func (tr *Transaction) HasMeta() bool { return len(tr.meta) > 0 }

// DeleteSelection deletes the selected content.
func (tr *Transaction) DeleteSelection() error {
	sel := tr.Selection()
	if sel.IsEmpty() {
		return nil
	}
	if sel.IsAll() {
		doc := tr.Doc.Type().CreateAndFill(nil, nil, nil)
		if err := tr.Replace(0, tr.Doc.Content().Size(), model.NewSlice(doc.Content(), 0, 0)); err != nil {
			return err
		}
		tr.SetSelection(AtStart(tr.Doc))
		return nil
	}
	if err := tr.DeleteRange(sel.From(), sel.To()); err != nil {
		return err
	}
	tr.SetSelection(Near(tr.Doc, tr.Mapping().Map(sel.From(), -1), -1))
	return nil
}

// InsertText replaces the selection with text carrying the stored marks, or
// the marks at the cursor when none are stored.
func (tr *Transaction) InsertText(text string) error {
	if text == "" {
		return tr.DeleteSelection()
	}
	sel := tr.Selection()
	marks := tr.StoredMarks()
	if marks == nil {
		rFrom := tr.Doc.Resolve(sel.From())
		marks = rFrom.Marks()
		if after := rFrom.NodeAfter(); !sel.IsEmpty() && after != nil && after.IsText() {
			marks = after.Marks()
		}
	}
	if err := tr.DeleteSelection(); err != nil {
		return err
	}
	pos := tr.Selection().Head
	if !tr.Doc.Resolve(pos).Parent().Type().AllowsMarks(marks) {
		marks = tr.Doc.Resolve(pos).Parent().Type().AllowedMarks(marks)
	}
	if err := tr.Transform.InsertText(pos, text, marks); err != nil {
		return err
	}
	tr.SetSelection(Cursor(pos + len([]rune(text))))
	return nil
}
