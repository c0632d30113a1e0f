package rules

import (
	"sort"

	"github.com/nathoo/rulekit/engine/state"
	"github.com/nathoo/rulekit/types"
)

// Evaluate runs the rule pipeline for one tick and returns the rules that
// fire, highest priority first, ties in declaration order. Neither the
// script's rules nor their conditions and actions are reordered.
func Evaluate(env *Env) []types.Rule {
	// Step 1: Filter to enabled rules inside their window and under their limit.
	// Step 2: Evaluate triggers.
	var firing []types.Rule
	for _, rule := range env.Script.Rules {
		if !Eligible(rule, env.State) {
			continue
		}
		if !EvalTriggers(rule, env) {
			continue
		}
		firing = append(firing, rule)
	}

	// Step 3: Rank by priority, highest first. The stable sort keeps declaration order.
	sort.SliceStable(firing, func(i, j int) bool {
		return firing[i].Priority > firing[j].Priority
	})
	return firing
}

// Eligible reports whether a rule may fire in the current state, before its
// conditions are looked at.
func Eligible(rule types.Rule, s *types.State) bool {
	if !rule.Enabled {
		return false
	}
	if w := rule.TimeWindow; w != nil {
		now := state.ElapsedSeconds(s)
		if now < w.Start {
			return false
		}
		if w.End > 0 && now > w.End {
			return false
		}
	}
	if l := rule.ExecutionLimit; l != nil && l.MaxExecutions > 0 {
		if s.RuleExecutions[rule.ID] >= l.MaxExecutions {
			return false
		}
	}
	return true
}
