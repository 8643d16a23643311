package catalog

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the constructors and effect helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Hero "id" { ... }
	L.SetGlobal("Hero", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.heroes = append(coll.heroes, rawDef{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Card "id" { ... }
	L.SetGlobal("Card", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.cards = append(coll.cards, rawDef{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	registerEffect(L, "LoseLife", OpLoseLife)
	registerEffect(L, "GainAction", OpGainAction)
	registerEffect(L, "GainResources", OpGainResources)
}

// registerEffect exposes name(amount) returning { op = op, amount = amount }.
func registerEffect(L *lua.LState, name string, op Op) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckInt(1)
		tbl := L.NewTable()
		tbl.RawSetString("op", lua.LString(op))
		tbl.RawSetString("amount", lua.LNumber(amount))
		L.Push(tbl)
		return 1
	}))
}
