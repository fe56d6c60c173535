package state

import (
	"fmt"

	"github.com/dshills/inkwell/internal/engine/decoration"
	"github.com/dshills/inkwell/internal/engine/model"
)

// Config configures a new EditorState.
type Config struct {
	// Schema is used to create an empty document when Doc is nil.
	Schema *model.Schema

	// Doc is the initial document.
	Doc *model.Node

	// Selection is the initial selection. Nil places a cursor at the
	// start of the document.
	Selection *Selection

	// StoredMarks are the initial stored marks.
	StoredMarks []*model.Mark

	Plugins []*Plugin
}

// EditorState is an immutable editor snapshot.
type EditorState struct {
	Doc       *model.Node
	Selection Selection

	// StoredMarks are the marks applied to the next typed text. They are
	// nil unless the selection is a cursor and marks were toggled there. A
	// non-nil empty set means typed text gets no marks.
	StoredMarks []*model.Mark

	Schema *model.Schema

	plugins []*Plugin
	values  map[*PluginKey]any
}

// New creates an editor state.
func New(cfg Config) (*EditorState, error) {
	doc := cfg.Doc
	if doc == nil {
		if cfg.Schema == nil {
			return nil, ErrNoDocument
		}
		doc = cfg.Schema.TopNodeType.CreateAndFill(nil, nil, nil)
	}
	s := &EditorState{
		Doc:     doc,
		Schema:  doc.Type().Schema,
		plugins: cfg.Plugins,
		values:  make(map[*PluginKey]any, len(cfg.Plugins)),
	}
	if cfg.Selection != nil {
		cfg.Selection.Check(doc)
		s.Selection = *cfg.Selection
	} else {
		s.Selection = AtStart(doc)
	}
	if s.Selection.IsEmpty() {
		s.StoredMarks = cfg.StoredMarks
	}
	for _, p := range cfg.Plugins {
		if _, dup := s.values[p.Key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlugin, p.Key)
		}
		var v any
		if p.Init != nil {
			v = p.Init(s)
		}
		s.values[p.Key] = v
	}
	return s, nil
}

// Tr starts a transaction from this state.
func (s *EditorState) Tr() *Transaction {
	return newTransaction(s)
}

// Apply applies a transaction, returning the next state.
func (s *EditorState) Apply(tr *Transaction) *EditorState {
	sel := tr.Selection()
	sel.Check(tr.Doc)
	next := &EditorState{
		Doc:       tr.Doc,
		Selection: sel,
		Schema:    s.Schema,
		plugins:   s.plugins,
		values:    make(map[*PluginKey]any, len(s.plugins)),
	}
	if _, ok := sel.CursorPos(); ok {
		next.StoredMarks = tr.StoredMarks()
	}
	for _, p := range s.plugins {
		v := s.values[p.Key]
		if p.Apply != nil {
			v = p.Apply(tr, v, s, next)
		}
		next.values[p.Key] = v
	}
	return next
}

// PluginState returns the value of the plugin with key, or nil.
func (s *EditorState) PluginState(key *PluginKey) any {
	return s.values[key]
}

// Plugins returns the active plugins.
func (s *EditorState) Plugins() []*Plugin {
	return s.plugins
}

// Decorations returns the merged decorations of all plugins.
func (s *EditorState) Decorations() *decoration.Set {
	var sets []*decoration.Set
	for _, p := range s.plugins {
		if p.Decorations != nil {
			sets = append(sets, p.Decorations(s))
		}
	}
	return decoration.Merge(sets...)
}
