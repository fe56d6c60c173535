package lines

import (
	"unicode"

	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/state"
)

// leafRune stands in for an inline leaf node so text offsets stay aligned
// with document positions.
const leafRune = '\uFFFC'

// IsWordRune reports whether r belongs to a word: a letter, a number or
// an underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// inlineRunes returns the content of a textblock with one rune per
// position.
func inlineRunes(block *model.Node) []rune {
	out := make([]rune, 0, block.Content().Size())
	block.ForEach(func(child *model.Node, _, _ int) {
		if child.IsText() {
			out = append(out, []rune(child.Text())...)
			return
		}
		for range child.NodeSize() {
			out = append(out, leafRune)
		}
	})
	return out
}

// wordAt returns the bounds of the word around pos, or false when pos sits
// between two non-word characters or outside inline content.
func wordAt(doc *model.Node, pos int) (from, to int, ok bool) {
	r := doc.Resolve(pos)
	if !r.Parent().InlineContent() {
		return 0, 0, false
	}
	text := inlineRunes(r.Parent())
	start, end := r.ParentOffset, r.ParentOffset
	for start > 0 && IsWordRune(text[start-1]) {
		start--
	}
	for end < len(text) && IsWordRune(text[end]) {
		end++
	}
	if start == end {
		return 0, 0, false
	}
	base := r.Start(r.Depth)
	return base + start, base + end, true
}

// Occurrence is a match of a literal needle in the document.
type Occurrence struct {
	From, To int
}

// FindOccurrences returns every occurrence of needle inside a single
// textblock, in document order. Matching is case-sensitive and
// occurrences may overlap.
func FindOccurrences(doc *model.Node, needle string) []Occurrence {
	pattern := []rune(needle)
	if len(pattern) == 0 {
		return nil
	}
	var out []Occurrence
	doc.Descendants(func(node *model.Node, pos int, _ *model.Node, _ int) bool {
		if !node.InlineContent() {
			return true
		}
		text := inlineRunes(node)
		base := pos + 1
		for i := 0; i+len(pattern) <= len(text); i++ {
			if runesEqual(text[i:i+len(pattern)], pattern) {
				out = append(out, Occurrence{From: base + i, To: base + i + len(pattern)})
			}
		}
		return false
	})
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// selectionText returns the text under a selection, or false when the
// selection crosses a block boundary.
func selectionText(doc *model.Node, sel state.Selection) (string, bool) {
	rFrom, rTo := doc.Resolve(sel.From()), doc.Resolve(sel.To())
	if !rFrom.SameParent(rTo) || !rFrom.Parent().InlineContent() {
		return "", false
	}
	text := inlineRunes(rFrom.Parent())
	return string(text[rFrom.ParentOffset:rTo.ParentOffset]), true
}

// SelectWord selects the word around a collapsed cursor. On a range it
// selects the next occurrence of the selected text, as
// SelectNextOccurrence does.
func SelectWord() state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		if s.Selection.IsEmpty() {
			return selectWordAtCursor(s, dispatch)
		}
		return selectOccurrence(s, dispatch, Down)
	}
}

// SelectNextOccurrence selects the first occurrence of the selected text
// that starts after the selection start, wrapping to the first occurrence
// in the document. On a collapsed cursor it selects the word.
func SelectNextOccurrence() state.Command { return SelectWord() }

// SelectPreviousOccurrence selects the nearest occurrence of the selected
// text that starts before the selection start, wrapping to the last
// occurrence in the document. On a collapsed cursor it selects the word.
func SelectPreviousOccurrence() state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		if s.Selection.IsEmpty() {
			return selectWordAtCursor(s, dispatch)
		}
		return selectOccurrence(s, dispatch, Up)
	}
}

func selectWordAtCursor(s *state.EditorState, dispatch state.Dispatch) bool {
	from, to, ok := wordAt(s.Doc, s.Selection.Head)
	if !ok {
		return false
	}
	if dispatch != nil {
		dispatch(s.Tr().SetSelection(state.NewTextSelection(from, to)))
	}
	return true
}

func selectOccurrence(s *state.EditorState, dispatch state.Dispatch, dir Direction) bool {
	sel := s.Selection
	needle, ok := selectionText(s.Doc, sel)
	if !ok {
		return false
	}
	occ := FindOccurrences(s.Doc, needle)
	if len(occ) == 0 {
		return false
	}

	var pick Occurrence
	if dir == Down {
		pick = occ[0]
		for _, o := range occ {
			if o.From > sel.From() {
				pick = o
				break
			}
		}
	} else {
		pick = occ[len(occ)-1]
		for i := len(occ) - 1; i >= 0; i-- {
			if occ[i].From < sel.From() {
				pick = occ[i]
				break
			}
		}
	}
	if pick.From == sel.From() && pick.To == sel.To() {
		return false
	}
	if dispatch != nil {
		dispatch(s.Tr().SetSelection(state.NewTextSelection(pick.From, pick.To)))
	}
	return true
}
