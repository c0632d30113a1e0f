// Package rules implements condition evaluation and the per-tick rule
// pipeline: filter eligible rules, evaluate their triggers, rank by priority.
package rules

import (
	"math"
	"strconv"

	"github.com/nathoo/rulekit/engine/state"
	"github.com/nathoo/rulekit/types"
)

// Roller is a source of uniform numbers in [0, 1).
type Roller interface {
	Float64() float64
}

// Streams hands out the random stream for a random condition. A non-nil
// seed selects a reproducible stream private to key.
type Streams interface {
	Stream(key string, seed *int64) Roller
}

// Env is everything a condition is evaluated against during one tick.
type Env struct {
	State   *types.State
	Script  *types.GameScript
	Signals types.Signals
	Streams Streams
	Exprs   *ExprCache
}

// Scope identifies where a condition sits: the rule's object (what "self"
// resolves to) and a key unique to the condition within the script.
type Scope struct {
	ObjectID string
	Key      string
}

// ConditionKey builds the Scope key of a rule's i-th condition.
func ConditionKey(ruleID string, i int) string {
	return ruleID + "#" + strconv.Itoa(i)
}

// EvalCondition evaluates a single condition. Conditions that reference
// missing flags, counters or objects evaluate false.
func EvalCondition(c types.Condition, scope Scope, env *Env) bool {
	switch cond := c.(type) {
	case types.TouchCondition:
		return evalTouch(cond, scope, env)
	case types.TimeCondition:
		return evalTime(cond, env.State)
	case types.PositionCondition:
		return evalPosition(cond, scope, env.State)
	case types.CollisionCondition:
		return evalCollision(cond, scope, env)
	case types.AnimationCondition:
		return evalAnimation(cond, scope, env)
	case types.FlagCondition:
		return evalFlag(cond, env.State)
	case types.GameStateCondition:
		return evalGameState(cond, env)
	case types.CounterCondition:
		return evalCounter(cond, env.State)
	case types.RandomCondition:
		return evalRandom(cond, scope, env)
	default:
		return false
	}
}

// EvalTriggers combines a rule's conditions with its operator. An empty
// condition list never fires.
func EvalTriggers(rule types.Rule, env *Env) bool {
	conds := rule.Triggers.Conditions
	if len(conds) == 0 {
		return false
	}
	or := rule.Triggers.Operator == types.OperatorOr
	for i, c := range conds {
		scope := Scope{ObjectID: rule.TargetObjectID, Key: ConditionKey(rule.ID, i)}
		ok := EvalCondition(c.Condition, scope, env)
		if or && ok {
			return true
		}
		if !or && !ok {
			return false
		}
	}
	return !or
}

// resolveTarget maps "self" to the rule's object.
func resolveTarget(target string, scope Scope) string {
	if target == types.TargetSelf || target == "" {
		return scope.ObjectID
	}
	return target
}

func evalTouch(c types.TouchCondition, scope Scope, env *Env) bool {
	stage := c.Target == types.TargetStage
	target := resolveTarget(c.Target, scope)
	for _, t := range env.Signals.Touches {
		if stage {
			if t.ObjectID != "" && t.ObjectID != types.TargetStage {
				continue
			}
		} else if t.ObjectID != target {
			continue
		}
		if c.TouchType != "" && t.Type != c.TouchType {
			continue
		}
		if c.TouchType == "hold" && t.DurationMS < int64(c.HoldDuration) {
			continue
		}
		return true
	}
	return false
}

func evalTime(c types.TimeCondition, s *types.State) bool {
	now := state.ElapsedSeconds(s)
	prev := float64(s.PrevElapsed) / 1000
	switch c.TimeType {
	case "exact":
		// Nothing precedes zero, so At(0) fires on the first tick.
		if c.Seconds <= 0 {
			return s.Tick == 1
		}
		return prev < c.Seconds && c.Seconds <= now
	case "range":
		if c.Range == nil {
			return false
		}
		return now >= c.Range.Min && now <= c.Range.Max
	case "interval":
		if c.Interval <= 0 {
			return false
		}
		return math.Floor(prev/c.Interval) < math.Floor(now/c.Interval)
	default:
		return false
	}
}

func evalPosition(c types.PositionCondition, scope Scope, s *types.State) bool {
	target := resolveTarget(c.Target, scope)
	pos, ok := s.Positions[target]
	if !ok {
		return false
	}
	switch c.Area {
	case "inside":
		return c.Region.Contains(pos)
	case "outside":
		return !c.Region.Contains(pos)
	case "crossing":
		prev, ok := s.PrevPositions[target]
		if !ok {
			return false
		}
		return c.Region.Contains(prev) != c.Region.Contains(pos)
	default:
		return false
	}
}

func evalCollision(c types.CollisionCondition, scope Scope, env *Env) bool {
	self := scope.ObjectID
	other := c.Target
	if other == types.TargetSelf {
		other = self
	}
	for _, col := range env.Signals.Collisions {
		var partner string
		switch self {
		case col.ObjectA:
			partner = col.ObjectB
		case col.ObjectB:
			partner = col.ObjectA
		default:
			continue
		}
		if other != "" && partner != other {
			continue
		}
		if c.CollisionType != "" && col.Phase != c.CollisionType {
			continue
		}
		if c.CheckMethod != "" && col.Method != "" && col.Method != c.CheckMethod {
			continue
		}
		return true
	}
	return false
}

func evalAnimation(c types.AnimationCondition, scope Scope, env *Env) bool {
	target := resolveTarget(c.Target, scope)
	for _, a := range env.Signals.Animations {
		if a.ObjectID != target || a.Event != c.Condition {
			continue
		}
		if c.Condition == "frame" && a.Frame != c.FrameNumber {
			continue
		}
		if c.AnimationName != "" && a.Name != c.AnimationName {
			continue
		}
		return true
	}
	return false
}

func evalFlag(c types.FlagCondition, s *types.State) bool {
	cur, ok := state.GetFlag(s, c.FlagID)
	if !ok {
		return false
	}
	prev, _ := state.PrevFlag(s, c.FlagID)
	switch c.Condition {
	case types.FlagOn:
		return cur
	case types.FlagOff:
		return !cur
	case types.FlagChanged:
		return prev != cur
	case types.FlagOnToOff:
		return prev && !cur
	case types.FlagOffToOn:
		return !prev && cur
	default:
		return false
	}
}

func evalGameState(c types.GameStateCondition, env *Env) bool {
	cur, prev := env.State.GameState, env.State.PrevGameState
	var ok bool
	switch c.CheckType {
	case "", "equals":
		ok = c.State == "" || cur == c.State
	case "not_equals":
		ok = cur != c.State
	case "became":
		ok = cur == c.State && prev != c.State
	}
	if !ok {
		return false
	}
	if c.Expression == "" {
		return true
	}
	return env.Exprs.Eval(c.Expression, env)
}

func evalCounter(c types.CounterCondition, s *types.State) bool {
	cur, ok := state.GetCounter(s, c.CounterName)
	if !ok {
		return false
	}
	if c.Comparison == types.CompareChanged {
		prev, _ := state.PrevCounter(s, c.CounterName)
		return prev != cur
	}
	return Compare(c.Comparison, cur, c.Value, c.RangeMax)
}

// Compare applies a comparison operator. Range comparisons are inclusive
// and false when rangeMax is nil.
func Compare(op types.Comparison, cur, value int, rangeMax *int) bool {
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
	case types.CompareBetween:
		return rangeMax != nil && cur >= value && cur <= *rangeMax
	case types.CompareNotBetween:
		return rangeMax != nil && (cur < value || cur > *rangeMax)
	default:
		return false
	}
}

func evalRandom(c types.RandomCondition, scope Scope, env *Env) bool {
	s := env.State
	if c.Interval > 0 {
		if last, tried := s.RandomAttempts[scope.Key]; tried && s.ElapsedMS-last < c.Interval {
			return false
		}
	}
	s.RandomAttempts[scope.Key] = s.ElapsedMS
	if env.Streams == nil {
		return false
	}
	return env.Streams.Stream(scope.Key, c.Seed).Float64() < c.Probability
}
