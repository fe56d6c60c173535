package lua

import (
	"fmt"
	"strconv"

	lua "github.com/yuin/gopher-lua"
)

// fromLua converts a script value to Go. Sequences become []any, other
// tables map[string]any. A table reached again through itself becomes nil.
func fromLua(lv lua.LValue) any {
	return convertFromLua(lv, make(map[*lua.LTable]bool))
}

func convertFromLua(lv lua.LValue, seen map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		if f := float64(v); f == float64(int64(f)) {
			return int64(f)
		}
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LUserData:
		return v.Value
	case *lua.LTable:
		if seen[v] {
			return nil
		}
		seen[v] = true
		return tableFromLua(v, seen)
	}
	return nil
}

func tableFromLua(t *lua.LTable, seen map[*lua.LTable]bool) any {
	size := 0
	t.ForEach(func(lua.LValue, lua.LValue) { size++ })

	if n := t.Len(); n > 0 && n == size {
		list := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			list = append(list, convertFromLua(t.RawGetInt(i), seen))
		}
		return list
	}

	fields := make(map[string]any, size)
	t.ForEach(func(k, v lua.LValue) {
		key := k.String()
		if n, ok := k.(lua.LNumber); ok {
			key = strconv.FormatFloat(float64(n), 'g', -1, 64)
		}
		fields[key] = convertFromLua(v, seen)
	})
	return fields
}

// toLua converts a Go value for use by scripts running in L.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		t := L.CreateTable(len(val), 0)
		for _, s := range val {
			t.Append(lua.LString(s))
		}
		return t
	case []any:
		t := L.CreateTable(len(val), 0)
		for _, item := range val {
			t.Append(toLua(L, item))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(val))
		for k, item := range val {
			t.RawSetString(k, toLua(L, item))
		}
		return t
	case fmt.Stringer:
		return lua.LString(val.String())
	}
	ud := L.NewUserData()
	ud.Value = v
	return ud
}
