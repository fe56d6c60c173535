package keymap

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Binding sources.
const (
	SourceDefault = "default"
	SourceUser    = "user"
)

// Keymap holds key bindings. It is safe for concurrent use.
type Keymap struct {
	mu       sync.RWMutex
	bindings map[string]Binding
	defaults map[string]Binding
}

// New creates an empty keymap.
func New() *Keymap {
	return &Keymap{
		bindings: make(map[string]Binding),
		defaults: make(map[string]Binding),
	}
}

// Default creates a keymap holding the default bindings.
func Default() *Keymap {
	k := New()
	for spec, cmd := range defaultBindings {
		combo, err := Parse(spec)
		if err != nil {
			panic("invalid default key binding " + spec + ": " + err.Error())
		}
		b := Binding{Keys: combo.String(), Command: cmd, Source: SourceDefault}
		k.defaults[b.Keys] = b
		k.bindings[b.Keys] = b
	}
	return k
}

// Bind binds the key combination to a command, replacing any binding.
func (k *Keymap) Bind(spec, command string) error {
	if command == "" {
		return fmt.Errorf("%w: empty command for %q", ErrInvalidSpec, spec)
	}
	keys, err := Normalize(spec)
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.bindings[keys] = Binding{Keys: keys, Command: command, Source: SourceUser}
	return nil
}

// Unbind removes the binding of the key combination.
func (k *Keymap) Unbind(spec string) error {
	keys, err := Normalize(spec)
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.bindings, keys)
	return nil
}

// Apply resets the keymap to its defaults and applies user overrides.
// An empty command removes the default binding. Every override is
// attempted; the returned error joins the ones that failed to parse.
func (k *Keymap) Apply(overrides map[string]string) error {
	next := maps.Clone(k.defaultsSnapshot())
	var errs []error
	for _, spec := range slices.Sorted(maps.Keys(overrides)) {
		keys, err := Normalize(spec)
		if err != nil {
			errs = append(errs, fmt.Errorf("keymap %q: %w", spec, err))
			continue
		}
		cmd := overrides[spec]
		if cmd == "" {
			delete(next, keys)
			continue
		}
		next[keys] = Binding{Keys: keys, Command: cmd, Source: SourceUser}
	}

	k.mu.Lock()
	k.bindings = next
	k.mu.Unlock()
	return errors.Join(errs...)
}

func (k *Keymap) defaultsSnapshot() map[string]Binding {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.defaults
}

// Lookup returns the command bound to the key combination.
func (k *Keymap) Lookup(spec string) (string, bool) {
	keys, err := Normalize(spec)
	if err != nil {
		return "", false
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	b, ok := k.bindings[keys]
	return b.Command, ok
}

// KeysFor returns the key combinations bound to the command, sorted.
func (k *Keymap) KeysFor(command string) []string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	var keys []string
	for _, b := range k.bindings {
		if b.Command == command {
			keys = append(keys, b.Keys)
		}
	}
	slices.Sort(keys)
	return keys
}

// Bindings returns all bindings sorted by key combination.
func (k *Keymap) Bindings() []Binding {
	k.mu.RLock()
	defer k.mu.RUnlock()

	result := make([]Binding, 0, len(k.bindings))
	for _, keys := range slices.Sorted(maps.Keys(k.bindings)) {
		result = append(result, k.bindings[keys])
	}
	return result
}

// Unknown returns the bindings whose command is not known, sorted by key
// combination.
func (k *Keymap) Unknown(known func(command string) bool) []Binding {
	var unknown []Binding
	for _, b := range k.Bindings() {
		if !known(b.Command) {
			unknown = append(unknown, b)
		}
	}
	return unknown
}
