package types

// Defaults applied by ResolveDefaults.
const (
	DefaultWeight    = 1
	DefaultVolume    = 0.8
	DefaultMoveSpeed = 300.0
)

// ResolveDefaults fills unset optional fields across the script in place so
// that evaluation never has to coalesce missing values. It is idempotent.
func ResolveDefaults(g *GameScript) {
	if g.InitialState.GameState.Flags == nil {
		g.InitialState.GameState.Flags = map[string]bool{}
	}
	for i := range g.Rules {
		r := &g.Rules[i]
		if r.Triggers.Operator == "" {
			r.Triggers.Operator = OperatorAnd
		}
		for j := range r.Actions {
			r.Actions[j] = ResolveActionDefaults(r.Actions[j])
		}
	}
	for i := range g.SuccessConditions {
		sc := &g.SuccessConditions[i]
		if sc.Operator == "" {
			sc.Operator = OperatorAnd
		}
		for j := range sc.Conditions {
			resolveSuccessItem(&sc.Conditions[j])
		}
	}
}

// resolveSuccessItem fills missing comparisons: scores and counters are
// reached (>=), times are beaten (<=).
func resolveSuccessItem(it *SuccessItem) {
	switch it.Type {
	case SuccessScore:
		if it.ScoreComparison == "" {
			it.ScoreComparison = CompareGreaterOrEqual
		}
	case SuccessCounter:
		if it.CounterComparison == "" {
			it.CounterComparison = CompareGreaterOrEqual
		}
	case SuccessTime:
		if it.TimeComparison == "" {
			it.TimeComparison = CompareLessOrEqual
		}
	case SuccessObjectState:
		if it.ObjectCondition == "" {
			it.ObjectCondition = "visible"
		}
	}
}

// ResolveActionDefaults returns the action with defaults applied.
func ResolveActionDefaults(a GameAction) GameAction {
	switch act := a.Action.(type) {
	case PlaySoundAction:
		if act.Volume == 0 {
			act.Volume = DefaultVolume
		}
		return GameAction{Action: act}
	case MoveAction:
		if act.Speed == 0 && act.MoveType != "teleport" && act.MoveType != "stop" {
			act.Speed = DefaultMoveSpeed
		}
		return GameAction{Action: act}
	case RandomAction:
		if act.SelectionMode == "" {
			act.SelectionMode = SelectWeighted
		}
		entries := make([]RandomEntry, len(act.Actions))
		for i, e := range act.Actions {
			if e.Weight < DefaultWeight {
				e.Weight = DefaultWeight
			}
			e.Action = ResolveActionDefaults(e.Action)
			entries[i] = e
		}
		act.Actions = entries
		return GameAction{Action: act}
	default:
		return a
	}
}
