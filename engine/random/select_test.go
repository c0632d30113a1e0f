package random

import (
	"testing"

	"github.com/nathoo/rulekit/types"
)

func entries(weights ...int) []types.RandomEntry {
	out := make([]types.RandomEntry, len(weights))
	for i, w := range weights {
		out[i] = types.RandomEntry{
			Action: types.GameAction{Action: types.PlaySoundAction{SoundID: "s"}},
			Weight: w,
		}
	}
	return out
}

func frequencies(t *testing.T, mode types.SelectionMode, es []types.RandomEntry) []float64 {
	t.Helper()
	rng := NewRNG(2024)
	counts := make([]int, len(es))
	const trials = 10000
	for i := 0; i < trials; i++ {
		idx := Select(rng, mode, es)
		if idx < 0 || idx >= len(es) {
			t.Fatalf("index out of range: %d", idx)
		}
		counts[idx]++
	}
	out := make([]float64, len(es))
	for i, c := range counts {
		out[i] = float64(c) / trials
	}
	return out
}

func within(got, want, tol float64) bool {
	return got >= want-tol && got <= want+tol
}

func TestSelect_Weighted_Distribution(t *testing.T) {
	f := frequencies(t, types.SelectWeighted, entries(3, 1))
	if !within(f[0], 0.75, 0.05) {
		t.Errorf("weight 3 chosen %.3f, want ~0.75", f[0])
	}
	if !within(f[1], 0.25, 0.05) {
		t.Errorf("weight 1 chosen %.3f, want ~0.25", f[1])
	}
}

func TestSelect_Uniform_IgnoresWeights(t *testing.T) {
	f := frequencies(t, types.SelectUniform, entries(10, 1))
	for i, v := range f {
		if !within(v, 0.5, 0.05) {
			t.Errorf("entry %d chosen %.3f, want ~0.5", i, v)
		}
	}
}

func TestSelect_Probability_Renormalizes(t *testing.T) {
	es := entries(1, 1)
	es[0].Probability = 0.2
	es[1].Probability = 0.2
	f := frequencies(t, types.SelectProbability, es)
	if !within(f[0], 0.5, 0.05) {
		t.Errorf("equal probabilities chosen %.3f, want ~0.5", f[0])
	}
}

func TestSelect_Probability_Proportions(t *testing.T) {
	es := entries(1, 1, 1)
	es[0].Probability = 0.6
	es[1].Probability = 0.3
	es[2].Probability = 0.1
	f := frequencies(t, types.SelectProbability, es)
	want := []float64{0.6, 0.3, 0.1}
	for i := range want {
		if !within(f[i], want[i], 0.05) {
			t.Errorf("entry %d chosen %.3f, want ~%.1f", i, f[i], want[i])
		}
	}
}

func TestSelect_Empty(t *testing.T) {
	if idx := Select(NewRNG(1), types.SelectWeighted, nil); idx != -1 {
		t.Errorf("expected -1 for empty entries, got %d", idx)
	}
}

func TestSelect_Deterministic(t *testing.T) {
	a, b := NewRNG(5), NewRNG(5)
	es := entries(5, 2, 1)
	for i := 0; i < 50; i++ {
		if x, y := Select(a, types.SelectWeighted, es), Select(b, types.SelectWeighted, es); x != y {
			t.Fatalf("draw %d: %d != %d from same seed", i, x, y)
		}
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name  string
		limit *types.RandomExecutionLimit
		usage types.RandomUsage
		now   int64
		want  bool
	}{
		{"no limit", nil, types.RandomUsage{Count: 100}, 0, true},
		{"under max", &types.RandomExecutionLimit{MaxExecutions: 2}, types.RandomUsage{Count: 1}, 0, true},
		{"at max", &types.RandomExecutionLimit{MaxExecutions: 2}, types.RandomUsage{Count: 2}, 0, false},
		{"first firing ignores cooldown", &types.RandomExecutionLimit{Cooldown: 1000}, types.RandomUsage{}, 10, true},
		{"inside cooldown", &types.RandomExecutionLimit{Cooldown: 1000}, types.RandomUsage{Count: 1, LastFired: 500}, 1200, false},
		{"cooldown elapsed", &types.RandomExecutionLimit{Cooldown: 1000}, types.RandomUsage{Count: 1, LastFired: 500}, 1500, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.limit, tt.usage, tt.now); got != tt.want {
				t.Errorf("Allowed() = %v, want %v", got, tt.want)
			}
		})
	}
}
