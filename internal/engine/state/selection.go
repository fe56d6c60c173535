package state

import (
	"fmt"

	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/transform"
)

// Selection is an immutable selection value. Anchor is where the selection
// started and Head is where it ends (the side that moves when extending).
// When Anchor == Head the selection is a collapsed cursor. An all-selection
// covers the whole document.
type Selection struct {
	Anchor int
	Head   int

	all bool
}

// NewTextSelection creates a text selection from anchor to head.
func NewTextSelection(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// Cursor creates a collapsed selection at pos.
func Cursor(pos int) Selection {
	return Selection{Anchor: pos, Head: pos}
}

// AllSelection selects the whole of doc.
func AllSelection(doc *model.Node) Selection {
	return Selection{Anchor: 0, Head: doc.Content().Size(), all: true}
}

// IsAll reports whether this is an all-selection.
func (s Selection) IsAll() bool { return s.all }

// IsEmpty reports whether the selection has no extent.
func (s Selection) IsEmpty() bool { return s.Anchor == s.Head }

// From returns the lower bound of the selection.
func (s Selection) From() int { return min(s.Anchor, s.Head) }

// To returns the upper bound of the selection.
func (s Selection) To() int { return max(s.Anchor, s.Head) }

// IsForward reports whether head is at or after anchor.
func (s Selection) IsForward() bool { return s.Head >= s.Anchor }

// CursorPos returns the cursor position of a collapsed text selection.
func (s Selection) CursorPos() (int, bool) {
	if s.all || !s.IsEmpty() {
		return 0, false
	}
	return s.Head, true
}

// Eq reports whether two selections are identical.
func (s Selection) Eq(other Selection) bool {
	return s == other
}

// Content returns the selected slice of doc.
func (s Selection) Content(doc *model.Node) *model.Slice {
	return doc.Slice(s.From(), s.To())
}

// Check panics with a *model.RangeError when the selection does not fit
// doc.
func (s Selection) Check(doc *model.Node) {
	size := doc.Content().Size()
	if s.Anchor < 0 || s.Anchor > size || s.Head < 0 || s.Head > size {
		model.PanicRange("selection %s outside document of size %d", s, size)
	}
}

// Map maps the selection through m onto doc, the document m maps to.
func (s Selection) Map(doc *model.Node, m transform.Mappable) Selection {
	if s.all {
		return AllSelection(doc)
	}
	head := m.Map(s.Head, 1)
	if !doc.Resolve(head).Parent().InlineContent() {
		return Near(doc, head, 1)
	}
	anchor := m.Map(s.Anchor, 1)
	if !doc.Resolve(anchor).Parent().InlineContent() {
		anchor = head
	}
	return NewTextSelection(anchor, head)
}

func (s Selection) String() string {
	if s.all {
		return "all"
	}
	if s.IsEmpty() {
		return fmt.Sprintf("cursor(%d)", s.Head)
	}
	return fmt.Sprintf("text(%d, %d)", s.Anchor, s.Head)
}

// Near returns a cursor at pos when pos is in inline content, otherwise a
// cursor in the nearest textblock, searching in the direction of bias
// first. It falls back to an all-selection when the document has no
// textblock.
func Near(doc *model.Node, pos, bias int) Selection {
	if doc.Resolve(pos).Parent().InlineContent() {
		return Cursor(pos)
	}
	if bias == 0 {
		bias = 1
	}
	if p, ok := findTextPos(doc, pos, bias); ok {
		return Cursor(p)
	}
	if p, ok := findTextPos(doc, pos, -bias); ok {
		return Cursor(p)
	}
	return AllSelection(doc)
}

// AtStart returns a cursor at the first text position of doc.
func AtStart(doc *model.Node) Selection { return Near(doc, 0, 1) }

// AtEnd returns a cursor at the last text position of doc.
func AtEnd(doc *model.Node) Selection { return Near(doc, doc.Content().Size(), -1) }

func findTextPos(doc *model.Node, pos, dir int) (int, bool) {
	found := -1
	doc.Descendants(func(n *model.Node, p int, _ *model.Node, _ int) bool {
		if dir > 0 && found >= 0 {
			return false
		}
		if !n.IsTextblock() {
			return !n.IsLeaf()
		}
		start, end := p+1, p+1+n.Content().Size()
		switch {
		case dir > 0 && start >= pos:
			found = start
		case dir < 0 && end <= pos:
			found = end
		}
		return false
	})
	return found, found >= 0
}
