package search

import (
	"slices"
	"unicode"

	"github.com/dshills/inkwell/internal/engine/decoration"
	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/state"
)

// Decoration classes.
const (
	ClassMatch   = "search-match"
	ClassCurrent = "search-match-current"
)

// Key identifies the search plugin and its state.
var Key = state.NewPluginKey("search")

// Match is a matched range.
type Match struct {
	From, To int
}

// State is the search overlay state.
type State struct {
	Query   string
	Matches []Match

	// Current is the index of the current match, or -1 when there is
	// none.
	Current int

	decos *decoration.Set
}

// Empty is the state with no query.
var Empty = &State{Current: -1, decos: decoration.Empty}

// Decorations returns the match highlights.
func (s *State) Decorations() *decoration.Set { return s.decos }

// CurrentMatch returns the current match.
func (s *State) CurrentMatch() (Match, bool) {
	if s.Current < 0 || s.Current >= len(s.Matches) {
		return Match{}, false
	}
	return s.Matches[s.Current], true
}

// Step returns the index delta positions away from the current one,
// wrapping around. It returns -1 when there are no matches.
func (s *State) Step(delta int) int {
	n := len(s.Matches)
	if n == 0 {
		return -1
	}
	return ((s.Current+delta)%n + n) % n
}

func (s *State) withCurrent(i int) *State {
	return newState(s.Query, s.Matches, i)
}

func newState(query string, matches []Match, current int) *State {
	decos := make([]decoration.Decoration, len(matches))
	for i, m := range matches {
		class := ClassMatch
		if i == current {
			class = ClassCurrent
		}
		decos[i] = decoration.Inline(m.From, m.To, class)
	}
	return &State{Query: query, Matches: matches, Current: current, decos: decoration.NewSet(decos...)}
}

// Find returns every case-insensitive occurrence of query in the text
// runs of doc, in document order, including overlapping ones. Each run is
// scanned on its own, so text split across differently marked runs does
// not match.
func Find(doc *model.Node, query string) []Match {
	needle := lower([]rune(query))
	if len(needle) == 0 {
		return nil
	}
	var out []Match
	doc.Descendants(func(node *model.Node, pos int, _ *model.Node, _ int) bool {
		if !node.IsText() {
			return true
		}
		text := lower([]rune(node.Text()))
		for i := 0; i+len(needle) <= len(text); i++ {
			if slices.Equal(text[i:i+len(needle)], needle) {
				out = append(out, Match{From: pos + i, To: pos + i + len(needle)})
			}
		}
		return false
	})
	return out
}

func lower(rs []rune) []rune {
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}

// search builds the state for query against doc. The current match is
// the first one, or -1 when nothing matches.
func search(doc *model.Node, query string) *State {
	if query == "" {
		return Empty
	}
	matches := Find(doc, query)
	current := -1
	if len(matches) > 0 {
		current = 0
	}
	return newState(query, matches, current)
}

// rescan recomputes the matches of s against doc, keeping the current
// index when it is still in range.
func rescan(s *State, doc *model.Node) *State {
	matches := Find(doc, s.Query)
	current := -1
	if n := len(matches); n > 0 {
		current = min(max(s.Current, 0), n-1)
	}
	return newState(s.Query, matches, current)
}
