package lua

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestSandboxRemovesUnsafeGlobals(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "io", "os", "debug"} {
		assert.Equal(t, lua.LNil, s.L.GetGlobal(name), name)
	}
	for _, name := range []string{"string", "table", "math", "pairs"} {
		assert.NotEqual(t, lua.LNil, s.L.GetGlobal(name), name)
	}
}

func TestSafeRequire(t *testing.T) {
	s := NewState()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.DoString(ctx, `local s = require("string"); assert(s.upper("a") == "A")`))

	tests := []string{"os", "io", "debug", "socket"}
	for _, mod := range tests {
		t.Run(mod, func(t *testing.T) {
			err := s.DoString(ctx, `require("`+mod+`")`)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "is not available")
		})
	}
}

func TestRequireModule(t *testing.T) {
	rt, _ := newRuntime(t, "<p>x</p>")
	err := rt.LoadString(context.Background(), "req.lua", `
local ink = require("inkwell")
ink.macro("viaRequire", function() end)
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"viaRequire"}, rt.Macros())
}

func TestDoRecoversPanics(t *testing.T) {
	s := NewState()
	defer s.Close()

	err := s.Do(context.Background(), func(*lua.LState) error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestLuaValueRoundTrip(t *testing.T) {
	s := NewState()
	defer s.Close()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"int", 3, int64(3)},
		{"float", 1.5, 1.5},
		{"string", "x", "x"},
		{"list", []any{"a", int64(2)}, []any{"a", int64(2)}},
		{"strings", []string{"a", "b"}, []any{"a", "b"}},
		{"map", map[string]any{"k": "v"}, map[string]any{"k": "v"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fromLua(toLua(s.L, tt.in)))
		})
	}
}

func TestCircularTable(t *testing.T) {
	s := NewState()
	defer s.Close()

	tbl := s.L.NewTable()
	tbl.RawSetString("self", tbl)
	assert.Equal(t, map[string]any{"self": nil}, fromLua(tbl))
}
