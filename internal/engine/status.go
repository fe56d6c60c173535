package engine

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/inkwell/internal/engine/lines"
	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/state"
)

// Status describes the selection for status display.
type Status struct {
	// Line is the 1-based index of the top-level block holding the head.
	Line int

	// Column is the 1-based grapheme column of the head within its
	// textblock, or within its line inside a code block.
	Column int

	From, To int
	Empty    bool
}

// String formats the status as "Ln 3, Col 7".
func (s Status) String() string {
	if s.Empty {
		return fmt.Sprintf("Ln %d, Col %d", s.Line, s.Column)
	}
	return fmt.Sprintf("Ln %d, Col %d (%d selected)", s.Line, s.Column, s.To-s.From)
}

// StatusOf computes the status of st.
func StatusOf(st *state.EditorState) Status {
	sel := st.Selection
	doc := st.Doc
	r := doc.Resolve(sel.Head)

	line := r.Index(0)
	if r.Depth == 0 {
		line = min(line, doc.ChildCount()-1)
	}
	col := 1
	if r.Parent().IsTextblock() {
		before := r.Parent().TextBetween(0, r.ParentOffset, "", "\uFFFC")
		// Code blocks hold newlines; count from the start of the code line.
		if i := strings.LastIndexByte(before, '\n'); i >= 0 {
			before = before[i+1:]
		}
		col += uniseg.GraphemeClusterCount(before)
	}
	return Status{
		Line:   max(line, 0) + 1,
		Column: col,
		From:   sel.From(),
		To:     sel.To(),
		Empty:  sel.IsEmpty(),
	}
}

// Stats holds document counts.
type Stats struct {
	Words      int
	Characters int
	Blocks     int
}

// StatsOf counts the words and characters of doc. Characters are grapheme
// clusters; line breaks between blocks are not counted.
func StatsOf(doc *model.Node) Stats {
	st := Stats{Blocks: doc.ChildCount()}
	doc.Descendants(func(n *model.Node, _ int, _ *model.Node, _ int) bool {
		if !n.IsTextblock() {
			return true
		}
		text := n.TextContent()
		st.Characters += uniseg.GraphemeClusterCount(text)
		st.Words += countWords(text)
		return false
	})
	return st
}

// countWords counts word segments holding at least one word character.
func countWords(text string) int {
	n := 0
	seg := -1
	var word string
	for text != "" {
		word, text, seg = uniseg.FirstWordInString(text, seg)
		if strings.IndexFunc(word, lines.IsWordRune) >= 0 {
			n++
		}
	}
	return n
}
