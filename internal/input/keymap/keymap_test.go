package keymap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"Mod-b", "Mod-b"},
		{"mod-B", "Shift-Mod-b"},
		{"Shift-Alt-ArrowDown", "Alt-Shift-ArrowDown"},
		{"shift+alt+down", "Alt-Shift-ArrowDown"},
		{"Cmd-Shift-Ctrl-k", "Ctrl-Shift-Mod-k"},
		{"Ctrl+Shift-Up", "Ctrl-Shift-ArrowUp"},
		{"Mod-\\", "Mod-\\"},
		{"Mod--", "Mod--"},
		{"Mod-+", "Mod-+"},
		{"-", "-"},
		{"esc", "Escape"},
		{"Return", "Enter"},
		{"f3", "F3"},
		{" Mod-z ", "Mod-z"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Normalize(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeErrors(t *testing.T) {
	_, err := Normalize("")
	assert.ErrorIs(t, err, ErrEmptySpec)

	for _, spec := range []string{"Hyper-a", "Mod-", "Mod-nope"} {
		_, err := Normalize(spec)
		assert.ErrorIs(t, err, ErrInvalidSpec, spec)
	}
}

func TestDefaultBindings(t *testing.T) {
	km := Default()

	tests := []struct {
		spec string
		want string
	}{
		{"Mod-b", "toggleBold"},
		{"Alt-ArrowUp", "moveLineUp"},
		{"Alt-Shift-ArrowDown", "copyLineDown"},
		{"Mod-Shift-k", "deleteLine"},
		{"Mod-d", "selectWord"},
		{"Mod-Shift-d", "selectPreviousOccurrence"},
		{"Mod-a", "smartSelectAll"},
		{"Enter", "enter"},
		{"Mod-z", "undo"},
		{"Mod-Shift-z", "redo"},
		{"Mod-\\", "clearFormatting"},
	}
	for _, tt := range tests {
		got, ok := km.Lookup(tt.spec)
		assert.True(t, ok, tt.spec)
		assert.Equal(t, tt.want, got, tt.spec)
	}

	_, ok := km.Lookup("Mod-q")
	assert.False(t, ok)
	_, ok = km.Lookup("Hyper-q")
	assert.False(t, ok)
}

func TestApply(t *testing.T) {
	km := Default()
	err := km.Apply(map[string]string{
		"mod+shift+L": "selectWord",
		"Mod-d":       "",
		"Mod-b":       "toggleItalic",
		"Bogus-x":     "undo",
	})
	assert.ErrorIs(t, err, ErrInvalidSpec)

	got, ok := km.Lookup("Mod-Shift-l")
	assert.True(t, ok)
	assert.Equal(t, "selectWord", got)

	_, ok = km.Lookup("Mod-d")
	assert.False(t, ok)

	got, _ = km.Lookup("Mod-b")
	assert.Equal(t, "toggleItalic", got)

	// A second Apply starts over from the defaults.
	require.NoError(t, km.Apply(nil))
	got, _ = km.Lookup("Mod-d")
	assert.Equal(t, "selectWord", got)
	_, ok = km.Lookup("Mod-Shift-l")
	assert.False(t, ok)
}

func TestBindUnbind(t *testing.T) {
	km := New()
	require.NoError(t, km.Bind("Ctrl-k", "deleteLine"))
	assert.Equal(t, []Binding{{Keys: "Ctrl-k", Command: "deleteLine", Source: SourceUser}}, km.Bindings())
	assert.Equal(t, []string{"Ctrl-k"}, km.KeysFor("deleteLine"))

	assert.Error(t, km.Bind("Ctrl-k", ""))
	require.NoError(t, km.Unbind("ctrl+K"))
	assert.Empty(t, km.Bindings())
}

func TestKeysFor(t *testing.T) {
	assert.Equal(t, []string{"Mod-y", "Shift-Mod-z"}, Default().KeysFor("redo"))
}

func TestUnknown(t *testing.T) {
	km := New()
	require.NoError(t, km.Bind("Mod-b", "toggleBold"))
	require.NoError(t, km.Bind("Mod-j", "jump"))

	unknown := km.Unknown(func(id string) bool { return id == "toggleBold" })
	require.Len(t, unknown, 1)
	assert.Equal(t, "jump", unknown[0].Command)
}

func TestLoadReader(t *testing.T) {
	flat, err := LoadReader(strings.NewReader("Mod-b: toggleBold\n\"Alt-Up\": moveLineUp\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Mod-b": "toggleBold", "Alt-Up": "moveLineUp"}, flat)

	list, err := LoadReader(strings.NewReader(`{"bindings": [{"keys": "Mod-d", "command": ""}]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Mod-d": ""}, list)

	empty, err := LoadReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = LoadReader(strings.NewReader("Mod-b: [a, b]"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Mod-k: deleteLine\n"), 0o644))

	m, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "deleteLine", m["Mod-k"])

	_, err = LoadFile(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
