package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/rulekit/engine/random"
	"github.com/nathoo/rulekit/engine/rules"
	"github.com/nathoo/rulekit/types"
)

// Errors returned by editor operations.
var (
	ErrCounterExists   = errors.New("counter already exists")
	ErrCounterNotFound = errors.New("counter not found")
	ErrFlagExists      = errors.New("flag already exists")
	ErrFlagNotFound    = errors.New("flag not found")
	ErrRuleNotFound    = errors.New("rule not found")
	ErrUnknownPreset   = errors.New("unknown counter preset")
	ErrEmptyName       = errors.New("name is required")
	ErrNotValid        = errors.New("rule is not valid")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ValidationError collects all validation errors and warnings. Only Errors
// block a save.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Err returns e if it holds any errors, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// ruleProblems returns the three save-blocking problems a rule can have.
func ruleProblems(r types.Rule) []string {
	var out []string
	if strings.TrimSpace(r.Name) == "" {
		out = append(out, "rule name is required")
	}
	if len(r.Triggers.Conditions) == 0 {
		out = append(out, "rule needs at least one condition")
	}
	if len(r.Actions) == 0 {
		out = append(out, "rule needs at least one action")
	}
	return out
}

// ValidateRule checks that a rule may be saved: it has a name, at least one
// condition and at least one action.
func ValidateRule(r types.Rule) error {
	ve := &ValidationError{Errors: ruleProblems(r)}
	return ve.Err()
}

// Check validates a whole script and returns the report; it is never nil.
// Errors: rules that could not be saved, duplicate rule ids, flag ids or
// counter names. Warnings: references to missing flags or counters, unknown
// condition or action types, probabilities summing past 1, expressions that
// do not compile.
func Check(g *types.GameScript) *ValidationError {
	ve := &ValidationError{}

	flagIDs := map[string]bool{}
	for _, f := range g.Flags {
		if flagIDs[f.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate flag ID %q", f.ID))
		}
		flagIDs[f.ID] = true
	}
	counterNames := map[string]bool{}
	for _, c := range g.Counters {
		if counterNames[c.Name] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate counter name %q", c.Name))
		}
		counterNames[c.Name] = true
	}

	ruleIDs := map[string]bool{}
	exprs := rules.NewExprCache()
	for _, r := range g.Rules {
		if ruleIDs[r.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate rule ID %q", r.ID))
		}
		ruleIDs[r.ID] = true

		for _, p := range ruleProblems(r) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("rule %q: %s", r.ID, p))
		}
		for _, c := range r.Triggers.Conditions {
			checkCondition(r.ID, c.Condition, flagIDs, counterNames, exprs, ve)
		}
		for _, a := range r.Actions {
			checkAction(r.ID, a.Action, flagIDs, counterNames, ve)
		}
	}

	for _, sc := range g.SuccessConditions {
		for _, it := range sc.Conditions {
			switch it.Type {
			case types.SuccessFlag:
				if !flagIDs[it.FlagID] {
					ve.Warnings = append(ve.Warnings, fmt.Sprintf(
						"success condition %q references undefined flag %q", sc.ID, it.FlagID))
				}
			case types.SuccessCounter:
				if !counterNames[it.CounterName] {
					ve.Warnings = append(ve.Warnings, fmt.Sprintf(
						"success condition %q references undefined counter %q", sc.ID, it.CounterName))
				}
			}
		}
	}

	return ve
}

// Validate is Check reduced to an error: nil unless the script has errors.
func Validate(g *types.GameScript) error {
	return Check(g).Err()
}

func checkCondition(ruleID string, c types.Condition, flags, counters map[string]bool, exprs *rules.ExprCache, ve *ValidationError) {
	switch cond := c.(type) {
	case types.FlagCondition:
		if !flags[cond.FlagID] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"rule %q condition references undefined flag %q", ruleID, cond.FlagID))
		}
	case types.CounterCondition:
		if !counters[cond.CounterName] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"rule %q condition references undefined counter %q", ruleID, cond.CounterName))
		}
		if (cond.Comparison == types.CompareBetween || cond.Comparison == types.CompareNotBetween) && cond.RangeMax == nil {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"rule %q counter condition %q has no rangeMax", ruleID, cond.Comparison))
		}
	case types.RandomCondition:
		if cond.Probability <= 0 || cond.Probability >= 1 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"rule %q random condition probability %v is outside (0, 1)", ruleID, cond.Probability))
		}
	case types.GameStateCondition:
		if cond.Expression != "" {
			if err := exprs.Compile(cond.Expression); err != nil {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"rule %q expression %q does not compile: %v", ruleID, cond.Expression, err))
			}
		}
	case types.UnknownCondition:
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"rule %q uses unknown condition type %q", ruleID, cond.Type))
	}
}

func checkAction(ruleID string, a types.Action, flags, counters map[string]bool, ve *ValidationError) {
	switch act := a.(type) {
	case types.SetFlagAction:
		if !flags[act.FlagID] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"rule %q action references undefined flag %q", ruleID, act.FlagID))
		}
	case types.ToggleFlagAction:
		if !flags[act.FlagID] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"rule %q action references undefined flag %q", ruleID, act.FlagID))
		}
	case types.CounterAction:
		if !counters[act.CounterName] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"rule %q action references undefined counter %q", ruleID, act.CounterName))
		}
	case types.RandomAction:
		if len(act.Actions) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"rule %q random action has no entries", ruleID))
		}
		if act.SelectionMode == types.SelectProbability {
			if sum := random.ProbabilitySum(act.Actions); sum > 1 {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"rule %q random action probabilities sum to %.2f; they will be renormalized", ruleID, sum))
			}
		}
		for _, e := range act.Actions {
			checkAction(ruleID, e.Action.Action, flags, counters, ve)
		}
	case types.UnknownAction:
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"rule %q uses unknown action type %q", ruleID, act.Type))
	}
}
