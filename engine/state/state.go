// Package state manages the mutable runtime state of a script and the
// lookups conditions and actions make against it. Lookups of unknown flags
// or counters report ok=false so callers can treat them as inert.
package state

import (
	"maps"

	"github.com/nathoo/rulekit/types"
)

// ScoreCounter is the counter name success conditions read as the score.
const ScoreCounter = "score"

// NewState creates a fresh runtime state from a script's initial values.
func NewState(script *types.GameScript) *types.State {
	s := &types.State{
		GameState:       types.GamePlaying,
		PrevGameState:   types.GamePlaying,
		Flags:           map[string]bool{},
		Counters:        map[string]int{},
		Objects:         map[string]types.ObjectState{},
		Positions:       map[string]types.Point{},
		RuleExecutions:  map[string]int{},
		RandomUsage:     map[string]types.RandomUsage{},
		RandomAttempts:  map[string]int64{},
		StreamPositions: map[string]int64{},
	}

	for _, f := range script.Flags {
		s.Flags[f.ID] = f.InitialValue
	}
	// Initial game state may override declared initial values.
	for id, v := range script.InitialState.GameState.Flags {
		if _, ok := s.Flags[id]; ok {
			s.Flags[id] = v
		}
	}
	for _, c := range script.Counters {
		s.Counters[c.Name] = c.InitialValue
	}
	for _, r := range script.Rules {
		if l := r.ExecutionLimit; l != nil && l.CurrentExecutions > 0 {
			s.RuleExecutions[r.ID] = l.CurrentExecutions
		}
	}

	layout := script.InitialState.Layout
	if len(layout.Objects) == 0 {
		layout = script.Layout
	}
	for _, o := range layout.Objects {
		s.Objects[o.ObjectID] = types.ObjectState{
			Visible:   o.InitialState.Visible,
			Animation: o.InitialState.Animation,
		}
		s.Positions[o.ObjectID] = o.Position
	}

	Snapshot(s)
	return s
}

// Snapshot records the current values as the "previous" values that
// transition conditions compare against on the next tick.
func Snapshot(s *types.State) {
	s.PrevFlags = maps.Clone(s.Flags)
	s.PrevCounters = maps.Clone(s.Counters)
	s.PrevPositions = maps.Clone(s.Positions)
	s.PrevElapsed = s.ElapsedMS
	s.PrevGameState = s.GameState
}

// GetFlag returns a flag's current value.
func GetFlag(s *types.State, id string) (bool, bool) {
	v, ok := s.Flags[id]
	return v, ok
}

// PrevFlag returns a flag's value at the previous snapshot. A flag created
// since then reports its current value.
func PrevFlag(s *types.State, id string) (bool, bool) {
	if v, ok := s.PrevFlags[id]; ok {
		return v, true
	}
	return GetFlag(s, id)
}

// SetFlag assigns a known flag. Returns false if the flag does not exist.
func SetFlag(s *types.State, id string, value bool) bool {
	if _, ok := s.Flags[id]; !ok {
		return false
	}
	s.Flags[id] = value
	return true
}

// GetCounter returns a counter's current value by name.
func GetCounter(s *types.State, name string) (int, bool) {
	v, ok := s.Counters[name]
	return v, ok
}

// PrevCounter returns a counter's value at the previous snapshot.
func PrevCounter(s *types.State, name string) (int, bool) {
	if v, ok := s.PrevCounters[name]; ok {
		return v, true
	}
	return GetCounter(s, name)
}

// SetCounter assigns a known counter. Returns false if it does not exist.
func SetCounter(s *types.State, name string, value int) bool {
	if _, ok := s.Counters[name]; !ok {
		return false
	}
	s.Counters[name] = value
	return true
}

// Score returns the "score" counter, or the script's initial score when no
// such counter is declared.
func Score(s *types.State, script *types.GameScript) int {
	if v, ok := GetCounter(s, ScoreCounter); ok {
		return v
	}
	return script.InitialState.GameState.Score
}

// SetVisible records an object's visibility.
func SetVisible(s *types.State, objectID string, visible bool) {
	o := s.Objects[objectID]
	o.Visible = visible
	s.Objects[objectID] = o
}

// SetAnimation records an object's active animation.
func SetAnimation(s *types.State, objectID string, index int) {
	o := s.Objects[objectID]
	o.Animation = index
	s.Objects[objectID] = o
}

// ObjectVisible reports whether an object is currently visible.
func ObjectVisible(s *types.State, objectID string) (bool, bool) {
	o, ok := s.Objects[objectID]
	return o.Visible, ok
}

// ElapsedSeconds returns the current elapsed time in seconds.
func ElapsedSeconds(s *types.State) float64 {
	return float64(s.ElapsedMS) / 1000
}

// SyncCounters copies runtime counter values into the script document's
// currentValue fields, stamping lastModified on the ones that changed.
// It returns the number of counters updated.
func SyncCounters(script *types.GameScript, s *types.State, stamp string) int {
	updated := 0
	for i := range script.Counters {
		c := &script.Counters[i]
		v, ok := s.Counters[c.Name]
		if !ok || v == c.CurrentValue {
			continue
		}
		c.CurrentValue = v
		c.LastModified = stamp
		updated++
	}
	return updated
}

// SyncExecutions writes each limited rule's execution count back to its
// document as currentExecutions.
func SyncExecutions(script *types.GameScript, s *types.State) {
	for i := range script.Rules {
		if l := script.Rules[i].ExecutionLimit; l != nil {
			l.CurrentExecutions = s.RuleExecutions[script.Rules[i].ID]
		}
	}
}
