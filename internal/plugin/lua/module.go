package lua

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// module builds the inkwell table exposed to scripts.
func (r *Runtime) module(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"macro":    r.luaMacro,
		"run":      r.luaRun,
		"can":      r.luaCan,
		"commands": r.luaCommands,
		"insert":   r.luaInsert,
		"select":   r.luaSelect,
		"search":   r.luaSearch,
		"text":     r.luaText,
		"log":      r.luaLog,
	})
}

// inkwell.macro(name, fn)
func (r *Runtime) luaMacro(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.macros[name]; exists {
		L.RaiseError("%s: %s", ErrDuplicateMacro, name)
		return 0
	}
	r.macros[name] = fn
	r.sources[name] = r.loading
	return 0
}

// inkwell.run(id) -> applied
func (r *Runtime) luaRun(L *lua.LState) int {
	ok, err := r.host.Run(L.CheckString(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

// inkwell.can(id) -> applicable
func (r *Runtime) luaCan(L *lua.LState) int {
	L.Push(lua.LBool(r.host.CanRun(L.CheckString(1))))
	return 1
}

// inkwell.commands() -> {id, ...}
func (r *Runtime) luaCommands(L *lua.LState) int {
	L.Push(toLua(L, r.host.Commands()))
	return 1
}

// inkwell.insert(text) -> applied
func (r *Runtime) luaInsert(L *lua.LState) int {
	ok, err := r.host.InsertText(L.CheckString(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

// inkwell.select(anchor [, head])
func (r *Runtime) luaSelect(L *lua.LState) int {
	anchor := L.CheckInt(1)
	head := L.OptInt(2, anchor)
	if err := r.host.SetSelection(anchor, head); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// inkwell.search(query) -> match count
func (r *Runtime) luaSearch(L *lua.LState) int {
	n, err := r.host.Search(L.CheckString(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(n))
	return 1
}

// inkwell.text() -> document text, blocks separated by newlines
func (r *Runtime) luaText(L *lua.LState) int {
	L.Push(lua.LString(r.host.Text()))
	return 1
}

// inkwell.log(...)
func (r *Runtime) luaLog(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		switch v := L.Get(i + 1).(type) {
		case *lua.LTable:
			parts[i] = fmt.Sprint(fromLua(v))
		default:
			parts[i] = L.ToStringMeta(v).String()
		}
	}
	r.logger.Info("%s", strings.Join(parts, " "))
	return 0
}

