// Package editor implements the editing side of a game script: the rule
// draft lifecycle, flag and counter management, validation, and a session
// that holds a working copy until it is committed.
package editor

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/nathoo/rulekit/types"
)

// Status is where a rule draft is in its lifecycle.
type Status int

const (
	// Draft rules are being edited and may be incomplete.
	Draft Status = iota
	// Valid rules passed validation since their last edit.
	Valid
	// Saved rules have been written to the session's working copy.
	Saved
)

func (s Status) String() string {
	switch s {
	case Draft:
		return "draft"
	case Valid:
		return "valid"
	case Saved:
		return "saved"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// RuleDraft is a rule being edited. Every edit returns it to Draft; it must
// be validated again before it can be saved.
type RuleDraft struct {
	rule   types.Rule
	status Status
}

// NewRule starts a draft for a new, enabled AND rule. An empty id is
// replaced by a generated one.
func NewRule(id, name string) *RuleDraft {
	if id == "" {
		id = "rule_" + uuid.NewString()
	}
	return &RuleDraft{rule: types.Rule{
		ID:       id,
		Name:     name,
		Enabled:  true,
		Triggers: types.TriggerSet{Operator: types.OperatorAnd},
	}}
}

// EditRule starts a draft from an existing rule. The draft owns its own
// condition and action lists.
func EditRule(r types.Rule) *RuleDraft {
	return &RuleDraft{rule: copyRule(r)}
}

func copyRule(r types.Rule) types.Rule {
	r.Triggers.Conditions = slices.Clone(r.Triggers.Conditions)
	r.Actions = slices.Clone(r.Actions)
	if r.ExecutionLimit != nil {
		l := *r.ExecutionLimit
		r.ExecutionLimit = &l
	}
	if r.TimeWindow != nil {
		w := *r.TimeWindow
		r.TimeWindow = &w
	}
	return r
}

// Rule returns a copy of the rule as currently drafted.
func (d *RuleDraft) Rule() types.Rule { return copyRule(d.rule) }

// ID returns the rule's id.
func (d *RuleDraft) ID() string { return d.rule.ID }

// Status returns the draft's lifecycle state.
func (d *RuleDraft) Status() Status { return d.status }

func (d *RuleDraft) touch() { d.status = Draft }

func (d *RuleDraft) SetName(name string) {
	d.rule.Name = name
	d.touch()
}

func (d *RuleDraft) SetEnabled(enabled bool) {
	d.rule.Enabled = enabled
	d.touch()
}

func (d *RuleDraft) SetPriority(p int) {
	d.rule.Priority = p
	d.touch()
}

func (d *RuleDraft) SetTarget(objectID string) {
	d.rule.TargetObjectID = objectID
	d.touch()
}

func (d *RuleDraft) SetOperator(op types.Operator) {
	d.rule.Triggers.Operator = op
	d.touch()
}

// SetExecutionLimit caps how often the rule fires; nil removes the cap.
func (d *RuleDraft) SetExecutionLimit(l *types.ExecutionLimit) {
	d.rule.ExecutionLimit = l
	d.touch()
}

// SetTimeWindow restricts the rule to a span of elapsed seconds; nil
// removes the restriction.
func (d *RuleDraft) SetTimeWindow(w *types.TimeWindow) {
	d.rule.TimeWindow = w
	d.touch()
}

// AddCondition appends a condition.
func (d *RuleDraft) AddCondition(c types.Condition) {
	d.rule.Triggers.Conditions = append(d.rule.Triggers.Conditions, types.TriggerCondition{Condition: c})
	d.touch()
}

// UpdateCondition replaces the i-th condition.
func (d *RuleDraft) UpdateCondition(i int, c types.Condition) error {
	if i < 0 || i >= len(d.rule.Triggers.Conditions) {
		return fmt.Errorf("condition %d: %w", i, ErrIndexOutOfRange)
	}
	d.rule.Triggers.Conditions[i] = types.TriggerCondition{Condition: c}
	d.touch()
	return nil
}

// RemoveCondition deletes the i-th condition.
func (d *RuleDraft) RemoveCondition(i int) error {
	if i < 0 || i >= len(d.rule.Triggers.Conditions) {
		return fmt.Errorf("condition %d: %w", i, ErrIndexOutOfRange)
	}
	d.rule.Triggers.Conditions = slices.Delete(d.rule.Triggers.Conditions, i, i+1)
	d.touch()
	return nil
}

// AddAction appends an action with its defaults resolved.
func (d *RuleDraft) AddAction(a types.Action) {
	d.rule.Actions = append(d.rule.Actions, types.ResolveActionDefaults(types.GameAction{Action: a}))
	d.touch()
}

// UpdateAction replaces the i-th action.
func (d *RuleDraft) UpdateAction(i int, a types.Action) error {
	if i < 0 || i >= len(d.rule.Actions) {
		return fmt.Errorf("action %d: %w", i, ErrIndexOutOfRange)
	}
	d.rule.Actions[i] = types.ResolveActionDefaults(types.GameAction{Action: a})
	d.touch()
	return nil
}

// RemoveAction deletes the i-th action.
func (d *RuleDraft) RemoveAction(i int) error {
	if i < 0 || i >= len(d.rule.Actions) {
		return fmt.Errorf("action %d: %w", i, ErrIndexOutOfRange)
	}
	d.rule.Actions = slices.Delete(d.rule.Actions, i, i+1)
	d.touch()
	return nil
}

// MoveAction moves the action at from to index to, shifting the others.
func (d *RuleDraft) MoveAction(from, to int) error {
	n := len(d.rule.Actions)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d to %d: %w", from, to, ErrIndexOutOfRange)
	}
	a := d.rule.Actions[from]
	d.rule.Actions = slices.Insert(slices.Delete(d.rule.Actions, from, from+1), to, a)
	d.touch()
	return nil
}

// Validate checks the draft and moves it to Valid on success. On failure
// it stays a Draft and the error is a *ValidationError listing every
// problem.
func (d *RuleDraft) Validate() error {
	if err := ValidateRule(d.rule); err != nil {
		d.status = Draft
		return err
	}
	d.status = Valid
	return nil
}
