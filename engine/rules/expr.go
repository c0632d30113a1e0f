package rules

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/nathoo/rulekit/engine/state"
)

// ExprCache compiles gameState expressions once and reuses the bytecode.
// Expressions see flags and counters by name, the elapsed time in seconds,
// the current tick, the play state and the score.
type ExprCache struct {
	programs map[string]*vm.Program
	failed   map[string]error
}

// NewExprCache returns an empty cache.
func NewExprCache() *ExprCache {
	return &ExprCache{
		programs: map[string]*vm.Program{},
		failed:   map[string]error{},
	}
}

// exprEnv is the shape every expression is compiled against.
func exprEnv(env *Env) map[string]any {
	flags := map[string]bool{}
	counters := map[string]int{}
	m := map[string]any{
		"flags":    flags,
		"counters": counters,
		"elapsed":  0.0,
		"tick":     0,
		"state":    "",
		"score":    0,
	}
	if env == nil {
		return m
	}
	for _, f := range env.Script.Flags {
		v, _ := state.GetFlag(env.State, f.ID)
		flags[f.Name] = v
	}
	for name, v := range env.State.Counters {
		counters[name] = v
	}
	m["elapsed"] = state.ElapsedSeconds(env.State)
	m["tick"] = env.State.Tick
	m["state"] = string(env.State.GameState)
	m["score"] = state.Score(env.State, env.Script)
	return m
}

// Compile checks that src is a valid boolean expression.
func (c *ExprCache) Compile(src string) error {
	_, err := c.program(src)
	return err
}

func (c *ExprCache) program(src string) (*vm.Program, error) {
	if p, ok := c.programs[src]; ok {
		return p, nil
	}
	if err, ok := c.failed[src]; ok {
		return nil, err
	}
	p, err := expr.Compile(src, expr.Env(exprEnv(nil)), expr.AsBool())
	if err != nil {
		c.failed[src] = err
		return nil, err
	}
	c.programs[src] = p
	return p, nil
}

// Eval runs src against the tick's env. Compile or runtime errors and a nil
// cache evaluate false.
func (c *ExprCache) Eval(src string, env *Env) bool {
	if c == nil {
		return false
	}
	p, err := c.program(src)
	if err != nil {
		slog.Debug("expression compile failed", "expression", src, "error", err)
		return false
	}
	out, err := vm.Run(p, exprEnv(env))
	if err != nil {
		slog.Debug("expression eval failed", "expression", src, "error", err)
		return false
	}
	b, ok := out.(bool)
	return ok && b
}
