package history

import (
	"time"

	"github.com/dshills/inkwell/internal/engine/state"
)

// Key identifies the history plugin and its state.
var Key = state.NewPluginKey("history")

// Option configures the history plugin.
type Option func(*config)

type config struct {
	maxEntries int
	groupDelay time.Duration
}

// WithMaxEntries bounds the undo depth.
func WithMaxEntries(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithGroupDelay sets the window within which transactions from the same
// UI event merge. Zero disables time-based grouping.
func WithGroupDelay(d time.Duration) Option {
	return func(c *config) {
		c.groupDelay = d
	}
}

// New creates the history plugin.
func New(opts ...Option) *state.Plugin {
	cfg := config{maxEntries: DefaultMaxEntries, groupDelay: DefaultGroupDelay}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &state.Plugin{
		Key: Key,
		Init: func(*state.EditorState) any {
			return Empty
		},
		Apply: func(tr *state.Transaction, value any, prev, _ *state.EditorState) any {
			cur := value.(*State)
			if next, ok := tr.Meta(Key).(*State); ok {
				return next
			}
			if !tr.DocChanged() {
				return cur
			}
			if add, ok := tr.Meta(state.MetaAddToHistory).(bool); ok && !add {
				return cur.rebase(tr.Mapping())
			}
			event, _ := tr.Meta(state.MetaUIEvent).(string)
			group := tr.Meta(MetaGroup)
			e := newEntry(tr, prev.Selection)
			if canGroup(cur, tr, event, group, cfg.groupDelay) {
				return cur.extend(e, event, group)
			}
			return cur.push(e, cfg.maxEntries, event, group)
		},
	}
}

// Get returns the history state of s, or Empty when the plugin is not
// installed.
func Get(s *state.EditorState) *State {
	if v, ok := Key.Get(s).(*State); ok {
		return v
	}
	return Empty
}
