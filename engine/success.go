package engine

import (
	"github.com/nathoo/rulekit/engine/rules"
	"github.com/nathoo/rulekit/engine/state"
	"github.com/nathoo/rulekit/types"
)

// CheckSuccess returns the first success condition whose items hold.
// A condition with no items never holds.
func CheckSuccess(s *types.State, script *types.GameScript) (types.SuccessCondition, bool) {
	for _, sc := range script.SuccessConditions {
		if successHolds(sc, s, script) {
			return sc, true
		}
	}
	return types.SuccessCondition{}, false
}

func successHolds(sc types.SuccessCondition, s *types.State, script *types.GameScript) bool {
	if len(sc.Conditions) == 0 {
		return false
	}
	or := sc.Operator == types.OperatorOr
	for _, it := range sc.Conditions {
		ok := successItem(it, s, script)
		if or && ok {
			return true
		}
		if !or && !ok {
			return false
		}
	}
	return !or
}

func successItem(it types.SuccessItem, s *types.State, script *types.GameScript) bool {
	switch it.Type {
	case types.SuccessFlag:
		v, ok := state.GetFlag(s, it.FlagID)
		return ok && v == it.FlagValue
	case types.SuccessScore:
		return rules.Compare(it.ScoreComparison, state.Score(s, script), it.ScoreValue, nil)
	case types.SuccessTime:
		return compareFloat(it.TimeComparison, state.ElapsedSeconds(s), it.TimeValue)
	case types.SuccessObjectState:
		visible, ok := state.ObjectVisible(s, it.ObjectID)
		if !ok {
			return false
		}
		return visible == (it.ObjectCondition == "visible")
	case types.SuccessCounter:
		v, ok := state.GetCounter(s, it.CounterName)
		return ok && rules.Compare(it.CounterComparison, v, it.CounterValue, nil)
	default:
		return false
	}
}

func compareFloat(op types.Comparison, cur, value float64) bool {
	switch op {
	case types.CompareEquals:
		return cur == value
	case types.CompareNotEquals:
		return cur != value
	case types.CompareGreater:
		return cur > value
	case types.CompareGreaterOrEqual:
		return cur >= value
	case types.CompareLess:
		return cur < value
	case types.CompareLessOrEqual:
		return cur <= value
	default:
		return false
	}
}
