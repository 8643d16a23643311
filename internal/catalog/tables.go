package catalog

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// getString returns a string field from a Lua table, or def if missing.
func getString(tbl *lua.LTable, key, def string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return def
}

// getBool returns a bool field from a Lua table, or def if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an int field from a Lua table, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return def
}

// getOptionalInt returns nil when the field is missing.
func getOptionalInt(tbl *lua.LTable, key string) *int {
	n, ok := tbl.RawGetString(key).(lua.LNumber)
	if !ok {
		return nil
	}
	v := int(n)
	return &v
}

// getStrings reads an array of strings; a single string is accepted too.
func getStrings(tbl *lua.LTable, key string) []string {
	switch v := tbl.RawGetString(key).(type) {
	case lua.LString:
		return []string{string(v)}
	case *lua.LTable:
		var out []string
		v.ForEach(func(_, value lua.LValue) {
			if s, ok := value.(lua.LString); ok {
				out = append(out, string(s))
			}
		})
		return out
	default:
		return nil
	}
}

// getEffects reads an array of effect tables built by the effect helpers.
func getEffects(tbl *lua.LTable, key string) ([]Effect, error) {
	list, ok := tbl.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil, nil
	}
	var (
		effects []Effect
		err     error
	)
	list.ForEach(func(_, value lua.LValue) {
		if err != nil {
			return
		}
		entry, ok := value.(*lua.LTable)
		if !ok {
			err = fmt.Errorf("%s: effect must be a table, got %s", key, value.Type())
			return
		}
		effects = append(effects, Effect{
			Op:     Op(getString(entry, "op", "")),
			Amount: getInt(entry, "amount", 0),
		})
	})
	return effects, err
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
