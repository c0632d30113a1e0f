// Package loader loads Lua game scripts into GameScript documents at load
// time. The Lua VM is discarded after loading; nothing runs Lua during play.
package loader

import (
	"encoding/json"
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/rulekit/types"
)

// rawNamed holds a Flag, Counter, Rule or Success table before compilation.
type rawNamed struct {
	id    string
	table *lua.LTable
}

// field reads key from tbl when it holds a value of Lua type T.
func field[T lua.LValue](tbl *lua.LTable, key string) (T, bool) {
	v, ok := tbl.RawGetString(key).(T)
	return v, ok
}

func getString(tbl *lua.LTable, key string) string {
	s, _ := field[lua.LString](tbl, key)
	return string(s)
}

func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := field[lua.LBool](tbl, key); ok {
		return bool(b)
	}
	return def
}

func getNumber(tbl *lua.LTable, key string, def float64) float64 {
	if n, ok := field[lua.LNumber](tbl, key); ok {
		return float64(n)
	}
	return def
}

func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key, 0))
}

// getTable returns nil when key is missing or not a table.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	t, _ := field[*lua.LTable](tbl, key)
	return t
}

// toGoValue converts a Lua value to a Go value recursively. Tables with
// sequential integer keys become slices, an empty table becomes an empty
// slice, and other tables become maps keyed by their string keys.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		if len(m) == 0 {
			return []any{}
		}
		return m
	default:
		return nil
	}
}

// decodeTable converts a Lua table into out through its JSON form, so the
// tagged condition and action codecs apply unchanged.
func decodeTable(tbl *lua.LTable, out any) error {
	data, err := json.Marshal(toGoValue(tbl))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// list returns the array part of a table in order.
func list(tbl *lua.LTable) []*lua.LTable {
	if tbl == nil {
		return nil
	}
	var out []*lua.LTable
	for i := 1; i <= tbl.MaxN(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			out = append(out, t)
		}
	}
	return out
}

// compile converts all collected Lua data into a GameScript.
func compile(coll *collector) (*types.GameScript, error) {
	if coll.script == nil {
		return nil, fmt.Errorf("no Script{} definition found")
	}
	g := &types.GameScript{
		Flags:             []types.Flag{},
		Counters:          []types.Counter{},
		Rules:             []types.Rule{},
		SuccessConditions: []types.SuccessCondition{},
	}
	if err := compileScript(coll.script, g); err != nil {
		return nil, err
	}

	for _, raw := range coll.flags {
		g.Flags = append(g.Flags, types.Flag{
			ID:           raw.id,
			Name:         orDefault(getString(raw.table, "name"), raw.id),
			InitialValue: getBool(raw.table, "initial", false),
		})
	}

	for _, raw := range coll.counters {
		initial := getInt(raw.table, "initial")
		g.Counters = append(g.Counters, types.Counter{
			ID:           orDefault(getString(raw.table, "id"), "counter_"+raw.id),
			Name:         raw.id,
			InitialValue: initial,
			CurrentValue: initial,
		})
	}

	for _, raw := range coll.rules {
		rule, err := compileRule(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling rule %s: %w", raw.id, err)
		}
		g.Rules = append(g.Rules, rule)
	}

	for _, raw := range coll.goals {
		sc, err := compileSuccess(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling success %s: %w", raw.id, err)
		}
		g.SuccessConditions = append(g.SuccessConditions, sc)
	}

	types.ResolveDefaults(g)
	g.Statistics = types.ComputeStatistics(g)
	return g, nil
}

func compileScript(tbl *lua.LTable, g *types.GameScript) error {
	g.Version = orDefault(getString(tbl, "version"), "1.0")

	gs := &g.InitialState.GameState
	gs.Score = getInt(tbl, "score")
	gs.TimeLimit = getNumber(tbl, "time_limit", 0)
	gs.Flags = map[string]bool{}
	if flags := getTable(tbl, "flags"); flags != nil {
		flags.ForEach(func(k, v lua.LValue) {
			ks, kok := k.(lua.LString)
			vb, vok := v.(lua.LBool)
			if kok && vok {
				gs.Flags[string(ks)] = bool(vb)
			}
		})
	}

	layout := types.Layout{
		Objects: []types.ObjectLayout{},
		Texts:   []types.TextLayout{},
		Stage:   types.StageLayout{BackgroundColor: getString(tbl, "background")},
	}
	for _, obj := range list(getTable(tbl, "objects")) {
		id := getString(obj, "__object_id")
		if id == "" {
			return fmt.Errorf("objects entries must be built with Object \"id\" {...}")
		}
		layout.Objects = append(layout.Objects, types.ObjectLayout{
			ObjectID: id,
			Position: types.Point{X: getNumber(obj, "x", 0), Y: getNumber(obj, "y", 0)},
			Scale:    types.Point{X: getNumber(obj, "scale", 1), Y: getNumber(obj, "scale", 1)},
			Rotation: getNumber(obj, "rotation", 0),
			ZIndex:   getInt(obj, "z"),
			InitialState: types.ObjectInitialState{
				Visible:        getBool(obj, "visible", true),
				Animation:      getInt(obj, "animation"),
				AnimationSpeed: getNumber(obj, "animation_speed", 1),
				AutoStart:      getBool(obj, "autostart", false),
			},
		})
	}
	for _, txt := range list(getTable(tbl, "texts")) {
		id := getString(txt, "__text_id")
		if id == "" {
			return fmt.Errorf("texts entries must be built with Text \"id\" {...}")
		}
		layout.Texts = append(layout.Texts, types.TextLayout{
			TextID:   id,
			Position: types.Point{X: getNumber(txt, "x", 0), Y: getNumber(txt, "y", 0)},
			ZIndex:   getInt(txt, "z"),
			Visible:  getBool(txt, "visible", true),
		})
	}
	g.InitialState.Layout = layout
	g.Layout = layout
	return nil
}

func compileRule(raw rawNamed) (types.Rule, error) {
	tbl := raw.table
	rule := types.Rule{
		ID:             raw.id,
		Name:           orDefault(getString(tbl, "name"), raw.id),
		Enabled:        getBool(tbl, "enabled", true),
		Priority:       getInt(tbl, "priority"),
		TargetObjectID: getString(tbl, "target"),
		Triggers: types.TriggerSet{
			Operator:   types.Operator(getString(tbl, "operator")),
			Conditions: []types.TriggerCondition{},
		},
		Actions: []types.GameAction{},
	}

	for i, c := range list(getTable(tbl, "when")) {
		var tc types.TriggerCondition
		if err := decodeTable(c, &tc); err != nil {
			return types.Rule{}, fmt.Errorf("condition %d: %w", i+1, err)
		}
		rule.Triggers.Conditions = append(rule.Triggers.Conditions, tc)
	}

	actions := getTable(tbl, "actions")
	if actions == nil {
		actions = getTable(tbl, "then")
	}
	for i, a := range list(actions) {
		var ga types.GameAction
		if err := decodeTable(a, &ga); err != nil {
			return types.Rule{}, fmt.Errorf("action %d: %w", i+1, err)
		}
		rule.Actions = append(rule.Actions, ga)
	}

	if limit := getTable(tbl, "limit"); limit != nil {
		rule.ExecutionLimit = &types.ExecutionLimit{
			MaxExecutions: getInt(limit, "max"),
			ResetOnEntry:  getBool(limit, "reset_on_entry", false),
		}
	}
	if window := getTable(tbl, "window"); window != nil {
		rule.TimeWindow = &types.TimeWindow{
			Start: getNumber(window, "start", 0),
			End:   getNumber(window, "stop", 0),
		}
	}
	return rule, nil
}

func compileSuccess(raw rawNamed) (types.SuccessCondition, error) {
	tbl := raw.table
	sc := types.SuccessCondition{
		ID:         raw.id,
		Name:       orDefault(getString(tbl, "name"), raw.id),
		Operator:   types.Operator(getString(tbl, "operator")),
		Message:    getString(tbl, "message"),
		Conditions: []types.SuccessItem{},
	}
	for i, item := range list(getTable(tbl, "conditions")) {
		var it types.SuccessItem
		if err := decodeTable(item, &it); err != nil {
			return types.SuccessCondition{}, fmt.Errorf("condition %d: %w", i+1, err)
		}
		sc.Conditions = append(sc.Conditions, it)
	}
	return sc, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// sortedLuaFiles orders script.lua ahead of the other files, which
// follow alphabetically.
func sortedLuaFiles(files []string) []string {
	out := append([]string(nil), files...)
	sort.SliceStable(out, func(i, j int) bool {
		if (out[i] == "script.lua") != (out[j] == "script.lua") {
			return out[i] == "script.lua"
		}
		return out[i] < out[j]
	})
	return out
}
