// Package events renders the events emitted by a tick as short text lines
// for the simulator front ends.
package events

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/rulekit/engine"
	"github.com/nathoo/rulekit/engine/effects"
	"github.com/nathoo/rulekit/types"
)

// Describe returns a one-line description of an event.
func Describe(e types.Event) string {
	switch e.Type {
	case effects.EventSuccess:
		return withMessage("SUCCESS", e)
	case effects.EventFailure:
		return withMessage("FAILURE", e)
	case engine.EventTimeUp:
		return "Time is up."
	case effects.EventPlaySound:
		return fmt.Sprintf("play sound %v (volume %v)", e.Data["soundId"], e.Data["volume"])
	case effects.EventMove:
		if p, ok := e.Data["targetPosition"].(types.Point); ok {
			return fmt.Sprintf("move %s %v to (%g, %g)", e.TargetID, e.Data["moveType"], p.X, p.Y)
		}
		return fmt.Sprintf("move %s %v", e.TargetID, e.Data["moveType"])
	case effects.EventEffect:
		return fmt.Sprintf("effect %v on %s", e.Data["effect"], e.TargetID)
	case effects.EventShow:
		return fmt.Sprintf("show %s", e.TargetID)
	case effects.EventHide:
		return fmt.Sprintf("hide %s", e.TargetID)
	case effects.EventFlagChanged:
		return fmt.Sprintf("flag %v = %v", e.Data["flagId"], e.Data["value"])
	case effects.EventAnimationSwitched:
		return fmt.Sprintf("animation of %s -> %v", e.TargetID, e.Data["animationIndex"])
	case effects.EventCounterChanged:
		return fmt.Sprintf("counter %v: %v -> %v", e.Data["counterName"], e.Data["previous"], e.Data["value"])
	case effects.EventRandomSelected:
		return fmt.Sprintf("random pick #%v (%v)", e.Data["index"], e.Data["mode"])
	default:
		return genericLine(e)
	}
}

// Lines describes every event of a tick result, in order.
func Lines(r types.Result) []string {
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, Describe(e))
	}
	return out
}

// Count tallies events by type.
func Count(evs []types.Event) map[string]int {
	counts := map[string]int{}
	for _, e := range evs {
		counts[e.Type]++
	}
	return counts
}

func withMessage(label string, e types.Event) string {
	if msg, ok := e.Data["message"].(string); ok && msg != "" {
		return label + ": " + msg
	}
	return label
}

func genericLine(e types.Event) string {
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := []string{e.Type}
	if e.TargetID != "" {
		parts = append(parts, e.TargetID)
	}
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Data[k]))
	}
	return strings.Join(parts, " ")
}
