package keymap

// Binding represents a single key-to-command mapping.
type Binding struct {
	// Keys is the normalized key combination, e.g. "Mod-Shift-k".
	Keys string

	// Command is the editor command identifier.
	Command string

	// Source indicates where the binding was defined: "default" or "user".
	Source string
}
