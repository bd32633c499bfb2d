package script

import (
	"fmt"

	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/enginebus/internal/message"
)

// messageToTable converts the structured form of msg to a Lua table.
func messageToTable(L *lua.LState, msg message.Message) (*lua.LTable, error) {
	data, err := message.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message %s: %w", msg.ID(), err)
	}

	tbl, ok := jsonToLValue(L, gjson.ParseBytes(data)).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("encode message %s: not an object", msg.ID())
	}
	return tbl, nil
}

// jsonToLValue converts a parsed JSON value to a Lua value.
func jsonToLValue(L *lua.LState, r gjson.Result) lua.LValue {
	switch r.Type {
	case gjson.Null:
		return lua.LNil
	case gjson.False:
		return lua.LFalse
	case gjson.True:
		return lua.LTrue
	case gjson.Number:
		return lua.LNumber(r.Num)
	case gjson.String:
		return lua.LString(r.Str)
	}

	tbl := L.NewTable()
	if r.IsArray() {
		for i, item := range r.Array() {
			tbl.RawSetInt(i+1, jsonToLValue(L, item))
		}
		return tbl
	}

	r.ForEach(func(key, value gjson.Result) bool {
		tbl.RawSetString(key.Str, jsonToLValue(L, value))
		return true
	})
	return tbl
}

// tableToMap converts the string keys of a Lua table to Go values.
func tableToMap(tbl *lua.LTable) map[string]any {
	result := make(map[string]any)
	tbl.ForEach(func(key, value lua.LValue) {
		if k, ok := key.(lua.LString); ok {
			result[string(k)] = lvalueToAny(value)
		}
	})
	return result
}

// lvalueToAny converts a Lua value to a Go value. Tables with only
// sequential integer keys become slices.
func lvalueToAny(v lua.LValue) any {
	switch val := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		return string(val)
	case *lua.LTable:
		if n := val.Len(); n > 0 && countKeys(val) == n {
			items := make([]any, n)
			for i := 1; i <= n; i++ {
				items[i-1] = lvalueToAny(val.RawGetInt(i))
			}
			return items
		}
		return tableToMap(val)
	default:
		return v.String()
	}
}

func countKeys(tbl *lua.LTable) int {
	n := 0
	tbl.ForEach(func(_, _ lua.LValue) { n++ })
	return n
}
