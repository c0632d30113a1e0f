package editor

import (
	"fmt"
	"time"

	"github.com/nathoo/rulekit/types"
)

// Session edits a working copy of a script. Nothing reaches the committed
// script until Commit succeeds.
type Session struct {
	committed *types.GameScript
	working   *types.GameScript
	dirty     bool

	// Now stamps lastModified fields.
	Now func() time.Time
}

// NewSession starts editing g. g itself is never modified.
func NewSession(g *types.GameScript) (*Session, error) {
	committed, err := g.Clone()
	if err != nil {
		return nil, fmt.Errorf("copying script: %w", err)
	}
	types.ResolveDefaults(committed)
	working, err := committed.Clone()
	if err != nil {
		return nil, fmt.Errorf("copying script: %w", err)
	}
	return &Session{committed: committed, working: working, Now: time.Now}, nil
}

// Script returns the working copy. Callers must not modify it.
func (s *Session) Script() *types.GameScript { return s.working }

// Dirty reports whether the working copy has uncommitted changes.
func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) stamp() string {
	return s.Now().UTC().Format(time.RFC3339)
}

// Rule opens a draft of the rule with the given id.
func (s *Session) Rule(id string) (*RuleDraft, error) {
	for _, r := range s.working.Rules {
		if r.ID == id {
			return EditRule(r), nil
		}
	}
	return nil, fmt.Errorf("rule %q: %w", id, ErrRuleNotFound)
}

// SaveRule writes a validated draft into the working copy, replacing the
// rule with the same id or appending a new one. A draft that is not Valid
// is rejected and nothing changes.
func (s *Session) SaveRule(d *RuleDraft) error {
	if d.status != Valid {
		return fmt.Errorf("saving rule %q (%s): %w", d.rule.ID, d.status, ErrNotValid)
	}
	r := d.Rule()
	if r.Triggers.Operator == "" {
		r.Triggers.Operator = types.OperatorAnd
	}
	replaced := false
	for i := range s.working.Rules {
		if s.working.Rules[i].ID == r.ID {
			s.working.Rules[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		s.working.Rules = append(s.working.Rules, r)
	}
	d.status = Saved
	s.dirty = true
	return nil
}

// RemoveRule deletes a rule from the working copy.
func (s *Session) RemoveRule(id string) error {
	for i, r := range s.working.Rules {
		if r.ID == id {
			s.working.Rules = append(s.working.Rules[:i:i], s.working.Rules[i+1:]...)
			s.dirty = true
			return nil
		}
	}
	return fmt.Errorf("rule %q: %w", id, ErrRuleNotFound)
}

// Check validates the working copy.
func (s *Session) Check() *ValidationError {
	return Check(s.working)
}

// Commit validates the working copy and, if it has no errors, makes it the
// committed script with fresh statistics and a new lastModified stamp. The
// returned script is a copy the caller owns. Warnings never block a commit.
func (s *Session) Commit() (*types.GameScript, *ValidationError, error) {
	report := Check(s.working)
	if err := report.Err(); err != nil {
		return nil, report, err
	}
	s.working.Statistics = types.ComputeStatistics(s.working)
	s.working.LastModified = s.stamp()

	committed, err := s.working.Clone()
	if err != nil {
		return nil, report, fmt.Errorf("copying script: %w", err)
	}
	s.committed = committed
	s.dirty = false

	out, err := committed.Clone()
	if err != nil {
		return nil, report, fmt.Errorf("copying script: %w", err)
	}
	return out, report, nil
}

// Discard throws away uncommitted changes.
func (s *Session) Discard() error {
	working, err := s.committed.Clone()
	if err != nil {
		return fmt.Errorf("copying script: %w", err)
	}
	s.working = working
	s.dirty = false
	return nil
}
