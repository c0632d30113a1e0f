package rules

import (
	"testing"

	"github.com/nathoo/rulekit/types"
)

func flagOn(id string) types.TriggerCondition {
	return types.TriggerCondition{Condition: types.FlagCondition{FlagID: id, Condition: types.FlagOn}}
}

func sound(id string) types.GameAction {
	return types.GameAction{Action: types.PlaySoundAction{SoundID: id}}
}

func pipelineEnv(rules ...types.Rule) *Env {
	env := condTestEnv()
	env.Script.Rules = rules
	return env
}

func rule(id string, priority int, conds ...types.TriggerCondition) types.Rule {
	return types.Rule{
		ID:       id,
		Name:     id,
		Enabled:  true,
		Priority: priority,
		Triggers: types.TriggerSet{Operator: types.OperatorAnd, Conditions: conds},
		Actions:  []types.GameAction{sound(id)},
	}
}

func ids(rules []types.Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.ID
	}
	return out
}

func TestEvaluate_PriorityOrder(t *testing.T) {
	env := pipelineEnv(
		rule("low", 1, flagOn("f_key")),
		rule("high", 10, flagOn("f_key")),
		rule("mid_a", 5, flagOn("f_key")),
		rule("mid_b", 5, flagOn("f_key")),
	)
	got := ids(Evaluate(env))
	want := []string{"high", "mid_a", "mid_b", "low"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestEvaluate_LeavesScriptOrder(t *testing.T) {
	env := pipelineEnv(
		rule("a", 1, flagOn("f_key")),
		rule("b", 10, flagOn("f_key")),
	)
	Evaluate(env)
	if env.Script.Rules[0].ID != "a" || env.Script.Rules[1].ID != "b" {
		t.Errorf("script rules reordered: %v", ids(env.Script.Rules))
	}
}

func TestEvaluate_SkipsNonFiring(t *testing.T) {
	env := pipelineEnv(
		rule("fires", 0, flagOn("f_key")),
		rule("blocked", 0, flagOn("f_door")),
		rule("empty", 0),
	)
	got := ids(Evaluate(env))
	if len(got) != 1 || got[0] != "fires" {
		t.Errorf("got %v, want [fires]", got)
	}
}

func TestEligible(t *testing.T) {
	base := rule("r", 0, flagOn("f_key"))

	disabled := base
	disabled.Enabled = false

	windowed := base
	windowed.TimeWindow = &types.TimeWindow{Start: 2, End: 5}

	openEnded := base
	openEnded.TimeWindow = &types.TimeWindow{Start: 1}

	limited := base
	limited.ExecutionLimit = &types.ExecutionLimit{MaxExecutions: 2}

	tests := []struct {
		name      string
		rule      types.Rule
		elapsedMS int64
		execs     int
		want      bool
	}{
		{"enabled", base, 0, 0, true},
		{"disabled", disabled, 0, 0, false},
		{"before window", windowed, 1000, 0, false},
		{"inside window", windowed, 3000, 0, true},
		{"after window", windowed, 6000, 0, false},
		{"open-ended window", openEnded, 100000, 0, true},
		{"under limit", limited, 0, 1, true},
		{"at limit", limited, 0, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := condTestEnv()
			env.State.ElapsedMS = tt.elapsedMS
			env.State.RuleExecutions["r"] = tt.execs
			if got := Eligible(tt.rule, env.State); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExprCache_Compile(t *testing.T) {
	c := NewExprCache()
	if err := c.Compile(`elapsed > 1.5 && state == "playing"`); err != nil {
		t.Errorf("valid expression rejected: %v", err)
	}
	if err := c.Compile(`elapsed >`); err == nil {
		t.Error("invalid expression accepted")
	}
	if err := c.Compile(`tick + 1`); err == nil {
		t.Error("non-boolean expression accepted")
	}
}
