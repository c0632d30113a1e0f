package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/rulekit/editor"
	"github.com/nathoo/rulekit/engine/save"
	"github.com/nathoo/rulekit/types"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	script   *lua.LTable
	flags    []rawNamed
	counters []rawNamed
	rules    []rawNamed
	goals    []rawNamed
}

// Open loads a script from path: a directory of .lua files, a single .lua
// file, or a .json document.
func Open(path string) (*types.GameScript, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	switch {
	case info.IsDir():
		return Load(path)
	case strings.HasSuffix(path, ".json"):
		return LoadJSON(path)
	case strings.HasSuffix(path, ".lua"):
		return loadFiles(filepath.Dir(path), []string{filepath.Base(path)})
	default:
		return nil, fmt.Errorf("unsupported script file %s", path)
	}
}

// Load reads all .lua files from dir, compiles them into a GameScript,
// resolves defaults and validates it. The Lua VM is discarded after loading.
func Load(dir string) (*types.GameScript, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading script directory %s: %w", dir, err)
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

	// Sort: script.lua first, rest alphabetical.
	return loadFiles(dir, sortedLuaFiles(luaFiles))
}

// LoadJSON reads a saved GameScript document, resolves defaults and
// validates it.
func LoadJSON(path string) (*types.GameScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	g, err := save.DecodeScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	types.ResolveDefaults(g)
	if err := validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

func loadFiles(dir string, files []string) (*types.GameScript, error) {
	L := newVM()
	defer L.Close()

	coll := &collector{}
	registerAPI(L, coll)

	for _, name := range files {
		if err := L.DoFile(filepath.Join(dir, name)); err != nil {
			return nil, fmt.Errorf("running %s: %w", name, err)
		}
	}

	g, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling script: %w", err)
	}
	if err := validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// validate logs warnings and returns the report when it has errors.
func validate(g *types.GameScript) error {
	report := editor.Check(g)
	for _, w := range report.Warnings {
		slog.Warn("script warning", "warning", w)
	}
	return report.Err()
}

// safeLibs are the only standard libraries a script can see.
var safeLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// blockedGlobals can reach the filesystem or bypass metatables.
var blockedGlobals = []string{
	"dofile", "loadfile", "load", "loadstring", "require",
	"rawset", "rawget", "rawequal", "collectgarbage",
}

// newVM returns a Lua state with no io, os or package access. math.random
// is removed as well: scripts describe rules, they do not roll dice.
func newVM() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range safeLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	if m, ok := L.GetGlobal(lua.MathLibName).(*lua.LTable); ok {
		m.RawSetString("random", lua.LNil)
		m.RawSetString("randomseed", lua.LNil)
	}
	return L
}
