package search

import (
	"github.com/dshills/inkwell/internal/engine/decoration"
	"github.com/dshills/inkwell/internal/engine/state"
)

// ActionKind is the kind of a search action.
type ActionKind uint8

const (
	// ActionSetQuery replaces the query and rescans.
	ActionSetQuery ActionKind = iota + 1
	// ActionNext moves to the next match.
	ActionNext
	// ActionPrev moves to the previous match.
	ActionPrev
	// ActionClose clears the search.
	ActionClose
)

// String returns the action name.
func (k ActionKind) String() string {
	switch k {
	case ActionSetQuery:
		return "setQuery"
	case ActionNext:
		return "next"
	case ActionPrev:
		return "prev"
	case ActionClose:
		return "close"
	default:
		return "unknown"
	}
}

// Action is the transaction metadata understood by the plugin.
type Action struct {
	Kind  ActionKind
	Query string
}

// Option configures the plugin.
type Option func(*options)

type options struct {
	onRescan func(query string, matches int)
}

// WithRescanHook sets a function called after every full rescan.
func WithRescanHook(fn func(query string, matches int)) Option {
	return func(o *options) {
		o.onRescan = fn
	}
}

// New creates the search plugin.
func New(opts ...Option) *state.Plugin {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	scanned := func(s *State) *State {
		if o.onRescan != nil && s.Query != "" {
			o.onRescan(s.Query, len(s.Matches))
		}
		return s
	}

	return &state.Plugin{
		Key: Key,
		Init: func(*state.EditorState) any {
			return Empty
		},
		Apply: func(tr *state.Transaction, value any, _, next *state.EditorState) any {
			cur := value.(*State)
			if a, ok := tr.Meta(Key).(Action); ok {
				switch a.Kind {
				case ActionSetQuery:
					return scanned(search(next.Doc, a.Query))
				case ActionNext:
					return cur.withCurrent(cur.Step(1))
				case ActionPrev:
					return cur.withCurrent(cur.Step(-1))
				case ActionClose:
					return Empty
				}
			}
			if !tr.DocChanged() {
				return cur
			}
			if cur.Query != "" {
				return scanned(rescan(cur, next.Doc))
			}
			mapped := *cur
			mapped.decos = cur.decos.Map(tr.Mapping())
			return &mapped
		},
		Decorations: func(s *state.EditorState) *decoration.Set {
			return Get(s).decos
		},
	}
}

// Get returns the search state of s, or Empty when the plugin is not
// installed.
func Get(s *state.EditorState) *State {
	if v, ok := Key.Get(s).(*State); ok {
		return v
	}
	return Empty
}

// SetQuery sets the search query. An empty query clears the search.
func SetQuery(query string) state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		if Key.Get(s) == nil {
			return false
		}
		if dispatch != nil {
			dispatch(s.Tr().SetMeta(Key, Action{Kind: ActionSetQuery, Query: query}))
		}
		return true
	}
}

// NextMatch makes the next match current and selects it. It wraps from
// the last match to the first.
func NextMatch() state.Command { return navigate(ActionNext, 1) }

// PrevMatch makes the previous match current and selects it. It wraps
// from the first match to the last.
func PrevMatch() state.Command { return navigate(ActionPrev, -1) }

func navigate(kind ActionKind, delta int) state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		cur := Get(s)
		if len(cur.Matches) == 0 {
			return false
		}
		if dispatch != nil {
			m := cur.Matches[cur.Step(delta)]
			tr := s.Tr().SetSelection(state.NewTextSelection(m.From, m.To))
			dispatch(tr.SetMeta(Key, Action{Kind: kind}))
		}
		return true
	}
}

// Close clears the query, the matches and the highlights.
func Close() state.Command {
	return func(s *state.EditorState, dispatch state.Dispatch) bool {
		if Get(s).Query == "" {
			return false
		}
		if dispatch != nil {
			dispatch(s.Tr().SetMeta(Key, Action{Kind: ActionClose}))
		}
		return true
	}
}
