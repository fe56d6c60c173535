// Package keymap maps key combinations to editor command identifiers.
//
// Key combinations are written as modifier names joined to a key by "-"
// (or "+"), for example "Mod-b", "Alt-ArrowUp" or "Ctrl+Shift+K". "Mod" is
// the platform's primary modifier. Combinations are normalized so that
// modifiers always appear in the order Ctrl, Alt, Shift, Mod, single
// letters are lower case and key names use their canonical spelling:
//
//	Normalize("shift+alt+down") // "Alt-Shift-ArrowDown"
//
// A Keymap starts from the default bindings and accepts overrides from
// configuration; binding a combination to the empty string removes it:
//
//	km := keymap.Default()
//	km.Apply(map[string]string{"Mod-Shift-l": "selectWord", "Mod-d": ""})
//	id, ok := km.Lookup("Cmd-Shift-L") // "selectWord", true
package keymap
