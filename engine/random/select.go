package random

import "github.com/nathoo/rulekit/types"

// Select picks the index of the entry a random action runs, according to
// mode. It returns -1 when there are no entries.
//
// weighted:    P(i) = weight_i / sum(weight)
// uniform:     P(i) = 1/n
// probability: P(i) = probability_i / sum(probability); all-zero is uniform
func Select(rng *RNG, mode types.SelectionMode, entries []types.RandomEntry) int {
	if len(entries) == 0 {
		return -1
	}
	switch mode {
	case types.SelectUniform:
		return rng.intn(len(entries))
	case types.SelectProbability:
		p := make([]float64, len(entries))
		for i, e := range entries {
			p[i] = e.Probability
		}
		return rng.ProportionalSelect(p)
	default:
		w := make([]int, len(entries))
		for i, e := range entries {
			w[i] = e.Weight
		}
		return rng.WeightedSelect(w)
	}
}

// ProbabilitySum returns the sum of the entries' probability fields.
func ProbabilitySum(entries []types.RandomEntry) float64 {
	sum := 0.0
	for _, e := range entries {
		sum += e.Probability
	}
	return sum
}

// Allowed reports whether a random action with the given limit may fire at
// nowMS given its usage so far.
func Allowed(limit *types.RandomExecutionLimit, usage types.RandomUsage, nowMS int64) bool {
	if limit == nil {
		return true
	}
	if limit.MaxExecutions > 0 && usage.Count >= limit.MaxExecutions {
		return false
	}
	if limit.Cooldown > 0 && usage.Count > 0 && nowMS-usage.LastFired < limit.Cooldown {
		return false
	}
	return true
}
