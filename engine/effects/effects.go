// Package effects applies game actions to the runtime state. Each action is
// one atomic operation producing at most one event for the game runtime;
// a random action additionally emits the selection it made.
package effects

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nathoo/rulekit/engine/random"
	"github.com/nathoo/rulekit/engine/state"
	"github.com/nathoo/rulekit/types"
)

// ErrDivisionByZero is returned when a counter is divided by zero. The
// counter keeps its value.
var ErrDivisionByZero = errors.New("division by zero")

// Event types emitted by Apply.
const (
	EventSuccess           = "success"
	EventFailure           = "failure"
	EventPlaySound         = "play_sound"
	EventMove              = "move"
	EventEffect            = "effect"
	EventShow              = "show"
	EventHide              = "hide"
	EventFlagChanged       = "flag_changed"
	EventAnimationSwitched = "animation_switched"
	EventCounterChanged    = "counter_changed"
	EventRandomSelected    = "random_selected"
)

// Context carries the firing rule's identity and the tick's clock and RNG.
type Context struct {
	RuleID   string
	ObjectID string // the rule's target object; default for actions without one
	NowMS    int64
	RNG      *random.RNG
}

// Apply applies a rule's actions in order, mutating the state. It returns
// the events emitted. An error stops the remaining actions; events emitted
// before it are still returned.
func Apply(s *types.State, script *types.GameScript, actions []types.GameAction, ctx Context) ([]types.Event, error) {
	var events []types.Event
	for i, a := range actions {
		evs, err := apply(s, script, a.Action, ctx, ctx.RuleID+"/"+strconv.Itoa(i))
		events = append(events, evs...)
		if err != nil {
			return events, err
		}
	}
	return events, nil
}

// apply applies one action. path identifies the action within the script
// and keys random action usage.
func apply(s *types.State, script *types.GameScript, action types.Action, ctx Context, path string) ([]types.Event, error) {
	ev := func(typ, target string, data map[string]any) []types.Event {
		return []types.Event{{Type: typ, RuleID: ctx.RuleID, TargetID: target, Data: data}}
	}

	switch act := action.(type) {
	case types.SuccessAction:
		s.GameState = types.GameSuccess
		return ev(EventSuccess, "", messageData(act.Message)), nil

	case types.FailureAction:
		s.GameState = types.GameFailure
		return ev(EventFailure, "", messageData(act.Message)), nil

	case types.PlaySoundAction:
		return ev(EventPlaySound, "", map[string]any{"soundId": act.SoundID, "volume": act.Volume}), nil

	case types.MoveAction:
		target := ctx.target(act.TargetID)
		data := map[string]any{"moveType": act.MoveType, "speed": act.Speed, "duration": act.Duration}
		if act.TargetPosition != nil {
			data["targetPosition"] = *act.TargetPosition
			if act.MoveType == "teleport" {
				s.Positions[target] = *act.TargetPosition
			}
		}
		return ev(EventMove, target, data), nil

	case types.EffectAction:
		target := ctx.target(act.TargetID)
		return ev(EventEffect, target, map[string]any{
			"effect":    act.Effect.Type,
			"duration":  act.Effect.Duration,
			"intensity": act.Effect.Intensity,
		}), nil

	case types.ShowAction:
		target := ctx.target(act.TargetID)
		state.SetVisible(s, target, true)
		return ev(EventShow, target, map[string]any{"fadeIn": act.FadeIn, "duration": act.Duration}), nil

	case types.HideAction:
		target := ctx.target(act.TargetID)
		state.SetVisible(s, target, false)
		return ev(EventHide, target, map[string]any{"fadeOut": act.FadeOut, "duration": act.Duration}), nil

	case types.SetFlagAction:
		if !state.SetFlag(s, act.FlagID, act.Value) {
			return nil, nil
		}
		return ev(EventFlagChanged, "", map[string]any{"flagId": act.FlagID, "value": act.Value}), nil

	case types.ToggleFlagAction:
		cur, ok := state.GetFlag(s, act.FlagID)
		if !ok {
			return nil, nil
		}
		state.SetFlag(s, act.FlagID, !cur)
		return ev(EventFlagChanged, "", map[string]any{"flagId": act.FlagID, "value": !cur}), nil

	case types.SwitchAnimationAction:
		target := ctx.target(act.TargetID)
		state.SetAnimation(s, target, act.AnimationIndex)
		return ev(EventAnimationSwitched, target, map[string]any{
			"animationIndex": act.AnimationIndex,
			"autoPlay":       act.AutoPlay,
			"speed":          act.Speed,
		}), nil

	case types.CounterAction:
		prev, next, ok, err := ApplyCounter(s, script, act)
		if err != nil || !ok {
			return nil, err
		}
		return ev(EventCounterChanged, "", map[string]any{
			"counterName": act.CounterName,
			"operation":   string(act.Operation),
			"previous":    prev,
			"value":       next,
		}), nil

	case types.RandomAction:
		usage := s.RandomUsage[path]
		if !random.Allowed(act.ExecutionLimit, usage, ctx.NowMS) {
			return nil, nil
		}
		idx := random.Select(ctx.RNG, act.SelectionMode, act.Actions)
		if idx < 0 {
			return nil, nil
		}
		usage.Count++
		usage.LastFired = ctx.NowMS
		s.RandomUsage[path] = usage

		events := ev(EventRandomSelected, "", map[string]any{"index": idx, "mode": string(act.SelectionMode)})
		chosen, err := apply(s, script, act.Actions[idx].Action.Action, ctx, path+"/"+strconv.Itoa(idx))
		return append(events, chosen...), err

	default:
		// Unknown action type: ignore.
		return nil, nil
	}
}

// ApplyCounter performs a counter operation. ok is false when the counter
// does not exist or the operation is unknown; the state is then untouched.
func ApplyCounter(s *types.State, script *types.GameScript, act types.CounterAction) (prev, next int, ok bool, err error) {
	prev, ok = state.GetCounter(s, act.CounterName)
	if !ok {
		return 0, 0, false, nil
	}
	initial := 0
	if c, found := script.FindCounter(act.CounterName); found {
		initial = c.InitialValue
	}
	next, ok, err = CounterOp(act.Operation, prev, initial, act.Value)
	if err != nil {
		return prev, prev, false, fmt.Errorf("counter %q: %w", act.CounterName, err)
	}
	if !ok {
		return prev, prev, false, nil
	}
	state.SetCounter(s, act.CounterName, next)
	return prev, next, true, nil
}

// CounterOp computes the result of op on cur. Division truncates toward
// zero.
func CounterOp(op types.CounterOperation, cur, initial, value int) (int, bool, error) {
	switch op {
	case types.CounterIncrement, types.CounterAdd:
		return cur + value, true, nil
	case types.CounterDecrement, types.CounterSubtract:
		return cur - value, true, nil
	case types.CounterSet:
		return value, true, nil
	case types.CounterReset:
		return initial, true, nil
	case types.CounterMultiply:
		return cur * value, true, nil
	case types.CounterDivide:
		if value == 0 {
			return cur, false, ErrDivisionByZero
		}
		return cur / value, true, nil
	default:
		return cur, false, nil
	}
}

// target resolves an action's target; empty and "self" mean the rule's object.
func (c Context) target(id string) string {
	if id == "" || id == types.TargetSelf {
		return c.ObjectID
	}
	return id
}

func messageData(msg string) map[string]any {
	if msg == "" {
		return nil
	}
	return map[string]any{"message": msg}
}
