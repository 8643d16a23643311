// Package catalog loads hero and card definitions written in Lua.
// The Lua VM only lives for the duration of a load.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

//go:embed default.lua
var defaultSource string

// collector accumulates Lua definitions during file execution.
type collector struct {
	heroes []rawDef
	cards  []rawDef
}

// rawDef holds a definition table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// Load reads all .lua files from dir in name order and compiles them into a
// Catalog.
func Load(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	sort.Strings(luaFiles)

	return run(func(L *lua.LState) error {
		for _, f := range luaFiles {
			if err := L.DoFile(filepath.Join(dir, f)); err != nil {
				return fmt.Errorf("executing %s: %w", f, err)
			}
		}
		return nil
	})
}

// LoadString compiles a single Lua chunk; name is used in error messages.
func LoadString(name, src string) (*Catalog, error) {
	return run(func(L *lua.LState) error {
		if err := L.DoString(src); err != nil {
			return fmt.Errorf("executing %s: %w", name, err)
		}
		return nil
	})
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return LoadString("default.lua", defaultSource)
}

func run(exec func(*lua.LState) error) (*Catalog, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	if err := exec(L); err != nil {
		return nil, err
	}

	cat, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling catalog: %w", err)
	}
	if err := validate(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the catalog.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	} {
		L.SetGlobal(name, lua.LNil)
	}

	// Card stats must not depend on a random seed.
	if mathTbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		mathTbl.RawSetString("random", lua.LNil)
		mathTbl.RawSetString("randomseed", lua.LNil)
	}
}
