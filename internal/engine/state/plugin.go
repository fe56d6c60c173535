package state

import "github.com/dshills/inkwell/internal/engine/decoration"

// PluginKey identifies a plugin and its state slot.
type PluginKey struct {
	name string
}

// NewPluginKey creates a key. Keys are compared by identity.
func NewPluginKey(name string) *PluginKey {
	return &PluginKey{name: name}
}

// Name returns the key name.
func (k *PluginKey) Name() string { return k.name }

// Get returns the plugin value stored in s, or nil.
func (k *PluginKey) Get(s *EditorState) any {
	return s.PluginState(k)
}

func (k *PluginKey) String() string { return k.name }

// Plugin extends the editor state with a value derived from transactions
// and, optionally, decorations.
type Plugin struct {
	Key *PluginKey

	// Init returns the initial value for a new state.
	Init func(s *EditorState) any

	// Apply returns the next value. It runs after the new document and
	// selection are known; plugins earlier in the list are already
	// updated in next.
	Apply func(tr *Transaction, value any, prev, next *EditorState) any

	// Decorations returns the overlays the plugin contributes for s.
	Decorations func(s *EditorState) *decoration.Set
}
