package types

// ComputeStatistics counts a script's rules, conditions, actions, flags and
// counters. Nested random action entries count as actions. The complexity
// score weighs each rule by its conditions and actions, with random actions
// and OR combinations adding extra weight.
func ComputeStatistics(g *GameScript) Statistics {
	st := Statistics{
		TotalRules:    len(g.Rules),
		TotalFlags:    len(g.Flags),
		TotalCounters: len(g.Counters),
	}
	for _, r := range g.Rules {
		conds := len(r.Triggers.Conditions)
		acts := 0
		randoms := 0
		for _, a := range r.Actions {
			n, rn := countActions(a)
			acts += n
			randoms += rn
		}
		st.TotalConditions += conds
		st.TotalActions += acts

		score := 1 + conds + acts + 2*randoms
		if r.Triggers.Operator == OperatorOr && conds > 1 {
			score++
		}
		if r.ExecutionLimit != nil || r.TimeWindow != nil {
			score++
		}
		st.ComplexityScore += score
	}
	return st
}

// countActions returns the number of actions a contains, itself included,
// and how many of them are random actions.
func countActions(a GameAction) (actions, randoms int) {
	ra, ok := a.Action.(RandomAction)
	if !ok {
		return 1, 0
	}
	actions, randoms = 1, 1
	for _, e := range ra.Actions {
		n, rn := countActions(e.Action)
		actions += n
		randoms += rn
	}
	return actions, randoms
}
