package keymap

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModCtrl indicates the Control key.
	ModCtrl Modifier = 1 << (iota - 1)

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModShift indicates the Shift key.
	ModShift

	// ModMod indicates the platform's primary modifier (Cmd on macOS,
	// Ctrl elsewhere).
	ModMod
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// String returns the modifiers in canonical order, like "Ctrl-Shift".
func (m Modifier) String() string {
	var parts []string
	for _, mod := range modifierOrder {
		if m.Has(mod.mod) {
			parts = append(parts, mod.name)
		}
	}
	return strings.Join(parts, "-")
}

var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModMod, "Mod"},
}

// modifierNameMap maps modifier names (lowercase) to Modifier values.
var modifierNameMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"a":       ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
	"mod":     ModMod,
	"m":       ModMod,
	"meta":    ModMod,
	"cmd":     ModMod,
	"command": ModMod,
}

// keyNames maps accepted key names (lowercase) to their canonical form.
var keyNames = map[string]string{
	"enter":      "Enter",
	"return":     "Enter",
	"cr":         "Enter",
	"escape":     "Escape",
	"esc":        "Escape",
	"tab":        "Tab",
	"backspace":  "Backspace",
	"bs":         "Backspace",
	"delete":     "Delete",
	"del":        "Delete",
	"space":      "Space",
	"arrowup":    "ArrowUp",
	"up":         "ArrowUp",
	"arrowdown":  "ArrowDown",
	"down":       "ArrowDown",
	"arrowleft":  "ArrowLeft",
	"left":       "ArrowLeft",
	"arrowright": "ArrowRight",
	"right":      "ArrowRight",
	"home":       "Home",
	"end":        "End",
	"pageup":     "PageUp",
	"pgup":       "PageUp",
	"pagedown":   "PageDown",
	"pgdn":       "PageDown",
	"bslash":     "\\",
	"minus":      "-",
	"plus":       "+",
}

func init() {
	for i := 1; i <= 12; i++ {
		name := fmt.Sprintf("F%d", i)
		keyNames[strings.ToLower(name)] = name
	}
}

// Combo is a parsed key combination.
type Combo struct {
	Mods Modifier
	Key  string
}

// String returns the normalized form of the combination.
func (c Combo) String() string {
	if c.Mods == ModNone {
		return c.Key
	}
	return c.Mods.String() + "-" + c.Key
}

// Parse parses a key specification like "Mod-Shift-k" or "Ctrl+ArrowUp".
// An upper-case letter implies Shift.
func Parse(spec string) (Combo, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Combo{}, ErrEmptySpec
	}

	parts := splitSpec(spec)
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifierNameMap[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return Combo{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	k, shifted, err := parseKey(parts[len(parts)-1])
	if err != nil {
		return Combo{}, err
	}
	if shifted {
		mods = mods.With(ModShift)
	}
	return Combo{Mods: mods, Key: k}, nil
}

// splitSpec splits on "-" or "+". A trailing doubled separator names the
// separator key itself ("Mod--" is Mod and "-").
func splitSpec(spec string) []string {
	isSep := func(r rune) bool { return r == '-' || r == '+' }
	n := len(spec)
	if n == 1 {
		return []string{spec}
	}
	if isSep(rune(spec[n-1])) && isSep(rune(spec[n-2])) {
		return append(strings.FieldsFunc(spec[:n-2], isSep), spec[n-1:])
	}
	parts := strings.FieldsFunc(spec, isSep)
	if isSep(rune(spec[n-1])) {
		parts = append(parts, "")
	}
	return parts
}

// parseKey returns the canonical key name and whether it implies Shift.
func parseKey(s string) (string, bool, error) {
	if s == "" {
		return "", false, fmt.Errorf("%w: missing key", ErrInvalidSpec)
	}
	if name, ok := keyNames[strings.ToLower(s)]; ok {
		return name, false, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return "", false, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, s)
	}
	if unicode.IsUpper(r) {
		return string(unicode.ToLower(r)), true, nil
	}
	return s, false, nil
}

// Normalize parses spec and returns its canonical form.
func Normalize(spec string) (string, error) {
	c, err := Parse(spec)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}
