package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
	registerActionHelpers(L)
	registerSuccessHelpers(L)
}

// tagged builds a table with the given "type" discriminator.
func tagged(L *lua.LState, typ string) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(typ))
	return tbl
}

// optString sets key from argument n when it is a non-empty string.
func optString(L *lua.LState, tbl *lua.LTable, key string, n int) {
	if s := L.OptString(n, ""); s != "" {
		tbl.RawSetString(key, lua.LString(s))
	}
}

// optNumber sets key from argument n when it is present.
func optNumber(L *lua.LState, tbl *lua.LTable, key string, n int) {
	if v, ok := L.Get(n).(lua.LNumber); ok {
		tbl.RawSetString(key, v)
	}
}

// named registers a curried constructor: Name "id" { ... }.
func named(L *lua.LState, name string, add func(id string, tbl *lua.LTable)) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			add(id, L.CheckTable(1))
			return 0
		}))
		return 1
	}))
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Script { version = "...", score = 0, time_limit = 60, objects = {...} }
	L.SetGlobal("Script", L.NewFunction(func(L *lua.LState) int {
		coll.script = L.CheckTable(1)
		return 0
	}))

	named(L, "Flag", func(id string, tbl *lua.LTable) {
		coll.flags = append(coll.flags, rawNamed{id: id, table: tbl})
	})
	named(L, "Counter", func(id string, tbl *lua.LTable) {
		coll.counters = append(coll.counters, rawNamed{id: id, table: tbl})
	})
	named(L, "Rule", func(id string, tbl *lua.LTable) {
		coll.rules = append(coll.rules, rawNamed{id: id, table: tbl})
	})
	named(L, "Success", func(id string, tbl *lua.LTable) {
		coll.goals = append(coll.goals, rawNamed{id: id, table: tbl})
	})

	// Object "hero" { x = 10, y = 20, visible = true } returns a layout table
	// for Script.objects.
	L.SetGlobal("Object", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("__object_id", lua.LString(id))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// Text "title" { x = 0, y = 0 } returns a layout table for Script.texts.
	L.SetGlobal("Text", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("__text_id", lua.LString(id))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// When { cond1, cond2 } and Then { action1, action2 } are pass-through.
	L.SetGlobal("When", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))
	L.SetGlobal("Then", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))
}

func registerConditionHelpers(L *lua.LState) {
	// Touch("self", "down") / Touch("button", "hold", 500)
	L.SetGlobal("Touch", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "touch")
		tbl.RawSetString("target", lua.LString(L.CheckString(1)))
		tbl.RawSetString("touchType", lua.LString(L.OptString(2, "down")))
		optNumber(L, tbl, "holdDuration", 3)
		L.Push(tbl)
		return 1
	}))

	// At(5) fires once when five seconds have elapsed.
	L.SetGlobal("At", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "time")
		tbl.RawSetString("timeType", lua.LString("exact"))
		tbl.RawSetString("seconds", L.CheckNumber(1))
		L.Push(tbl)
		return 1
	}))

	// Between(2, 4)
	L.SetGlobal("Between", L.NewFunction(func(L *lua.LState) int {
		rng := L.NewTable()
		rng.RawSetString("min", L.CheckNumber(1))
		rng.RawSetString("max", L.CheckNumber(2))
		tbl := tagged(L, "time")
		tbl.RawSetString("timeType", lua.LString("range"))
		tbl.RawSetString("range", rng)
		L.Push(tbl)
		return 1
	}))

	// Every(3)
	L.SetGlobal("Every", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "time")
		tbl.RawSetString("timeType", lua.LString("interval"))
		tbl.RawSetString("interval", L.CheckNumber(1))
		L.Push(tbl)
		return 1
	}))

	// Inside / Outside / Crossing("hero", x, y, w, h)
	for name, area := range map[string]string{"Inside": "inside", "Outside": "outside", "Crossing": "crossing"} {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			region := L.NewTable()
			region.RawSetString("x", L.CheckNumber(2))
			region.RawSetString("y", L.CheckNumber(3))
			region.RawSetString("width", L.CheckNumber(4))
			region.RawSetString("height", L.CheckNumber(5))
			tbl := tagged(L, "position")
			tbl.RawSetString("target", lua.LString(L.CheckString(1)))
			tbl.RawSetString("area", lua.LString(area))
			tbl.RawSetString("region", region)
			L.Push(tbl)
			return 1
		}))
	}

	// Collides("wall", "enter", "hitbox")
	L.SetGlobal("Collides", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "collision")
		tbl.RawSetString("target", lua.LString(L.CheckString(1)))
		tbl.RawSetString("collisionType", lua.LString(L.OptString(2, "enter")))
		tbl.RawSetString("checkMethod", lua.LString(L.OptString(3, "hitbox")))
		L.Push(tbl)
		return 1
	}))

	// Animation("hero", "frame", 3, "walk")
	L.SetGlobal("Animation", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "animation")
		tbl.RawSetString("target", lua.LString(L.CheckString(1)))
		tbl.RawSetString("condition", lua.LString(L.CheckString(2)))
		optNumber(L, tbl, "frameNumber", 3)
		optString(L, tbl, "animationName", 4)
		L.Push(tbl)
		return 1
	}))

	// FlagOn("f_door"), FlagOff, FlagChanged, FlagOnToOff, FlagOffToOn
	for name, cond := range map[string]string{
		"FlagOn":      "ON",
		"FlagOff":     "OFF",
		"FlagChanged": "CHANGED",
		"FlagOnToOff": "ON_TO_OFF",
		"FlagOffToOn": "OFF_TO_ON",
	} {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := tagged(L, "flag")
			tbl.RawSetString("flagId", lua.LString(L.CheckString(1)))
			tbl.RawSetString("condition", lua.LString(cond))
			L.Push(tbl)
			return 1
		}))
	}

	// GameState("playing", "equals", "counters['score'] > 3")
	L.SetGlobal("GameState", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "gameState")
		tbl.RawSetString("state", lua.LString(L.CheckString(1)))
		tbl.RawSetString("checkType", lua.LString(L.OptString(2, "equals")))
		optString(L, tbl, "expression", 3)
		L.Push(tbl)
		return 1
	}))

	// CounterIs("score", "greaterOrEqual", 10) / CounterIs("hp", "between", 1, 5)
	L.SetGlobal("CounterIs", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "counter")
		tbl.RawSetString("counterName", lua.LString(L.CheckString(1)))
		tbl.RawSetString("comparison", lua.LString(L.CheckString(2)))
		tbl.RawSetString("value", L.OptNumber(3, 0))
		optNumber(L, tbl, "rangeMax", 4)
		L.Push(tbl)
		return 1
	}))

	// Chance(0.25, 1000, 42): probability, interval ms, seed.
	L.SetGlobal("Chance", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "random")
		tbl.RawSetString("probability", L.CheckNumber(1))
		optNumber(L, tbl, "interval", 2)
		optNumber(L, tbl, "seed", 3)
		L.Push(tbl)
		return 1
	}))
}

func registerActionHelpers(L *lua.LState) {
	// Win("message") / Lose("message")
	for name, typ := range map[string]string{"Win": "success", "Lose": "failure"} {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := tagged(L, typ)
			optString(L, tbl, "message", 1)
			L.Push(tbl)
			return 1
		}))
	}

	// PlaySound("ding", 0.5)
	L.SetGlobal("PlaySound", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "playSound")
		tbl.RawSetString("soundId", lua.LString(L.CheckString(1)))
		optNumber(L, tbl, "volume", 2)
		L.Push(tbl)
		return 1
	}))

	// Move("hero", "teleport", { x = 1, y = 2, speed = 3, duration = 1 })
	L.SetGlobal("Move", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "move")
		optString(L, tbl, "targetId", 1)
		tbl.RawSetString("moveType", lua.LString(L.CheckString(2)))
		if opts := L.OptTable(3, nil); opts != nil {
			if x, y := opts.RawGetString("x"), opts.RawGetString("y"); x != lua.LNil || y != lua.LNil {
				pos := L.NewTable()
				pos.RawSetString("x", numberOr(x))
				pos.RawSetString("y", numberOr(y))
				tbl.RawSetString("targetPosition", pos)
			}
			copyNumber(opts, tbl, "speed", "speed")
			copyNumber(opts, tbl, "duration", "duration")
		}
		L.Push(tbl)
		return 1
	}))

	// Effect("hero", "glow", 1.5, 0.8)
	L.SetGlobal("Effect", L.NewFunction(func(L *lua.LState) int {
		fx := L.NewTable()
		fx.RawSetString("type", lua.LString(L.CheckString(2)))
		fx.RawSetString("duration", L.OptNumber(3, 1))
		fx.RawSetString("intensity", L.OptNumber(4, 1))
		tbl := tagged(L, "effect")
		optString(L, tbl, "targetId", 1)
		tbl.RawSetString("effect", fx)
		L.Push(tbl)
		return 1
	}))

	// Show("coin", true, 0.5) / Hide("coin", true, 0.5)
	for name, fade := range map[string]string{"Show": "fadeIn", "Hide": "fadeOut"} {
		typ := "show"
		if name == "Hide" {
			typ = "hide"
		}
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := tagged(L, typ)
			tbl.RawSetString("targetId", lua.LString(L.OptString(1, "")))
			if L.OptBool(2, false) {
				tbl.RawSetString(fade, lua.LTrue)
			}
			optNumber(L, tbl, "duration", 3)
			L.Push(tbl)
			return 1
		}))
	}

	// SetFlag("f_door", true)
	L.SetGlobal("SetFlag", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "setFlag")
		tbl.RawSetString("flagId", lua.LString(L.CheckString(1)))
		tbl.RawSetString("value", lua.LBool(L.OptBool(2, true)))
		L.Push(tbl)
		return 1
	}))

	// ToggleFlag("f_door")
	L.SetGlobal("ToggleFlag", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "toggleFlag")
		tbl.RawSetString("flagId", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// SwitchAnimation("hero", 2, true, 1.5)
	L.SetGlobal("SwitchAnimation", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "switchAnimation")
		tbl.RawSetString("targetId", lua.LString(L.CheckString(1)))
		tbl.RawSetString("animationIndex", L.CheckNumber(2))
		if L.OptBool(3, false) {
			tbl.RawSetString("autoPlay", lua.LTrue)
		}
		optNumber(L, tbl, "speed", 4)
		L.Push(tbl)
		return 1
	}))

	// Count("score", "add", 5) plus shorthands for the common operations.
	counterOp := func(op string, needsValue bool) lua.LGFunction {
		return func(L *lua.LState) int {
			tbl := tagged(L, "counter")
			tbl.RawSetString("counterName", lua.LString(L.CheckString(1)))
			tbl.RawSetString("operation", lua.LString(op))
			if needsValue {
				tbl.RawSetString("value", L.CheckNumber(2))
			} else {
				optNumber(L, tbl, "value", 2)
			}
			L.Push(tbl)
			return 1
		}
	}
	L.SetGlobal("Count", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "counter")
		tbl.RawSetString("counterName", lua.LString(L.CheckString(1)))
		tbl.RawSetString("operation", lua.LString(L.CheckString(2)))
		optNumber(L, tbl, "value", 3)
		L.Push(tbl)
		return 1
	}))
	L.SetGlobal("Inc", L.NewFunction(counterOp("increment", false)))
	L.SetGlobal("Dec", L.NewFunction(counterOp("decrement", false)))
	L.SetGlobal("ResetCounter", L.NewFunction(counterOp("reset", false)))
	L.SetGlobal("SetCounter", L.NewFunction(counterOp("set", true)))
	L.SetGlobal("AddTo", L.NewFunction(counterOp("add", true)))
	L.SetGlobal("SubtractFrom", L.NewFunction(counterOp("subtract", true)))
	L.SetGlobal("MultiplyBy", L.NewFunction(counterOp("multiply", true)))
	L.SetGlobal("DivideBy", L.NewFunction(counterOp("divide", true)))

	// Weighted(3, action) / Probable(0.2, action) build random entries.
	L.SetGlobal("Weighted", L.NewFunction(func(L *lua.LState) int {
		entry := L.NewTable()
		entry.RawSetString("weight", L.CheckNumber(1))
		entry.RawSetString("action", L.CheckTable(2))
		L.Push(entry)
		return 1
	}))
	L.SetGlobal("Probable", L.NewFunction(func(L *lua.LState) int {
		entry := L.NewTable()
		entry.RawSetString("probability", L.CheckNumber(1))
		entry.RawSetString("action", L.CheckTable(2))
		L.Push(entry)
		return 1
	}))

	// OneOf { mode = "weighted", max = 3, cooldown = 500, Weighted(1, ...), ... }
	// Plain actions in the list become entries of weight 1.
	L.SetGlobal("OneOf", L.NewFunction(func(L *lua.LState) int {
		src := L.CheckTable(1)
		entries := L.NewTable()
		for i := 1; i <= src.MaxN(); i++ {
			item, ok := src.RawGetInt(i).(*lua.LTable)
			if !ok {
				L.ArgError(1, "OneOf entries must be tables")
			}
			if item.RawGetString("action") == lua.LNil {
				wrapped := L.NewTable()
				wrapped.RawSetString("action", item)
				wrapped.RawSetString("weight", lua.LNumber(1))
				item = wrapped
			}
			entries.Append(item)
		}
		tbl := tagged(L, "randomAction")
		tbl.RawSetString("actions", entries)
		if mode, ok := src.RawGetString("mode").(lua.LString); ok {
			tbl.RawSetString("selectionMode", mode)
		}
		maxN, hasMax := src.RawGetString("max").(lua.LNumber)
		cooldown, hasCooldown := src.RawGetString("cooldown").(lua.LNumber)
		if hasMax || hasCooldown {
			limit := L.NewTable()
			if hasMax {
				limit.RawSetString("maxExecutions", maxN)
			}
			if hasCooldown {
				limit.RawSetString("cooldown", cooldown)
			}
			tbl.RawSetString("executionLimit", limit)
		}
		L.Push(tbl)
		return 1
	}))
}

func numberOr(v lua.LValue) lua.LNumber {
	if n, ok := v.(lua.LNumber); ok {
		return n
	}
	return 0
}

func copyNumber(src, dst *lua.LTable, from, to string) {
	if n, ok := src.RawGetString(from).(lua.LNumber); ok {
		dst.RawSetString(to, n)
	}
}

func registerSuccessHelpers(L *lua.LState) {
	// FlagIs("f_door", true)
	L.SetGlobal("FlagIs", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "flag")
		tbl.RawSetString("flagId", lua.LString(L.CheckString(1)))
		tbl.RawSetString("flagValue", lua.LBool(L.OptBool(2, true)))
		L.Push(tbl)
		return 1
	}))

	// ScoreIs(100, "greaterOrEqual")
	L.SetGlobal("ScoreIs", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "score")
		tbl.RawSetString("scoreValue", L.CheckNumber(1))
		optString(L, tbl, "scoreComparison", 2)
		L.Push(tbl)
		return 1
	}))

	// TimeIs(30, "lessOrEqual")
	L.SetGlobal("TimeIs", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "time")
		tbl.RawSetString("timeValue", L.CheckNumber(1))
		optString(L, tbl, "timeComparison", 2)
		L.Push(tbl)
		return 1
	}))

	// ObjectIs("door", "hidden")
	L.SetGlobal("ObjectIs", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "objectState")
		tbl.RawSetString("objectId", lua.LString(L.CheckString(1)))
		optString(L, tbl, "objectCondition", 2)
		L.Push(tbl)
		return 1
	}))

	// CounterReaches("coins", 10, "equals")
	L.SetGlobal("CounterReaches", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "counter")
		tbl.RawSetString("counterName", lua.LString(L.CheckString(1)))
		tbl.RawSetString("counterValue", L.CheckNumber(2))
		optString(L, tbl, "counterComparison", 3)
		L.Push(tbl)
		return 1
	}))
}
