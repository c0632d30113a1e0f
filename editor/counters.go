package editor

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nathoo/rulekit/types"
)

// Preset names a ready-made counter.
type Preset string

const (
	PresetScore   Preset = "score"
	PresetLives   Preset = "lives"
	PresetTime    Preset = "time"
	PresetItems   Preset = "items"
	PresetEnemies Preset = "enemies"
	PresetCombo   Preset = "combo"
)

var presetInitial = map[Preset]int{
	PresetScore:   0,
	PresetLives:   3,
	PresetTime:    60,
	PresetItems:   0,
	PresetEnemies: 0,
	PresetCombo:   0,
}

// Presets lists the available counter presets in display order.
func Presets() []Preset {
	return []Preset{PresetScore, PresetLives, PresetTime, PresetItems, PresetEnemies, PresetCombo}
}

// AddPresetCounter adds the counter for preset p. If a counter with the
// preset's name already exists the list is left unchanged and
// ErrCounterExists is returned.
func (s *Session) AddPresetCounter(p Preset) (types.Counter, error) {
	initial, ok := presetInitial[p]
	if !ok {
		return types.Counter{}, fmt.Errorf("preset %q: %w", p, ErrUnknownPreset)
	}
	return s.AddCustomCounter(string(p), initial)
}

// AddCustomCounter adds a counter with the given name and initial value.
// Names are matched exactly; a duplicate returns ErrCounterExists.
func (s *Session) AddCustomCounter(name string, initial int) (types.Counter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Counter{}, fmt.Errorf("counter: %w", ErrEmptyName)
	}
	if _, ok := s.working.FindCounter(name); ok {
		return types.Counter{}, fmt.Errorf("counter %q: %w", name, ErrCounterExists)
	}
	c := types.Counter{
		ID:           "counter_" + uuid.NewString(),
		Name:         name,
		InitialValue: initial,
		CurrentValue: initial,
		LastModified: s.stamp(),
	}
	s.working.Counters = append(s.working.Counters, c)
	s.dirty = true
	return c, nil
}

func (s *Session) counterIndex(name string) (int, error) {
	for i, c := range s.working.Counters {
		if c.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("counter %q: %w", name, ErrCounterNotFound)
}

// UpdateCounter sets a counter's initial value. The current value follows.
func (s *Session) UpdateCounter(name string, initial int) error {
	i, err := s.counterIndex(name)
	if err != nil {
		return err
	}
	c := &s.working.Counters[i]
	c.InitialValue = initial
	c.CurrentValue = initial
	c.LastModified = s.stamp()
	s.dirty = true
	return nil
}

// RenameCounter renames a counter and every condition, action and success
// item that refers to it by name.
func (s *Session) RenameCounter(from, to string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return fmt.Errorf("counter: %w", ErrEmptyName)
	}
	i, err := s.counterIndex(from)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}
	if _, ok := s.working.FindCounter(to); ok {
		return fmt.Errorf("counter %q: %w", to, ErrCounterExists)
	}
	s.working.Counters[i].Name = to
	s.working.Counters[i].LastModified = s.stamp()
	renameCounterRefs(s.working, from, to)
	s.dirty = true
	return nil
}

// RemoveCounter deletes a counter. Rules that still refer to it become
// inert and are reported as warnings by Check.
func (s *Session) RemoveCounter(name string) error {
	i, err := s.counterIndex(name)
	if err != nil {
		return err
	}
	s.working.Counters = append(s.working.Counters[:i:i], s.working.Counters[i+1:]...)
	s.dirty = true
	return nil
}

func renameCounterRefs(g *types.GameScript, from, to string) {
	for i := range g.Rules {
		r := &g.Rules[i]
		for j, c := range r.Triggers.Conditions {
			if cc, ok := c.Condition.(types.CounterCondition); ok && cc.CounterName == from {
				cc.CounterName = to
				r.Triggers.Conditions[j] = types.TriggerCondition{Condition: cc}
			}
		}
		for j := range r.Actions {
			r.Actions[j] = renameCounterAction(r.Actions[j], from, to)
		}
	}
	for i := range g.SuccessConditions {
		items := g.SuccessConditions[i].Conditions
		for j := range items {
			if items[j].Type == types.SuccessCounter && items[j].CounterName == from {
				items[j].CounterName = to
			}
		}
	}
}

func renameCounterAction(a types.GameAction, from, to string) types.GameAction {
	switch act := a.Action.(type) {
	case types.CounterAction:
		if act.CounterName == from {
			act.CounterName = to
		}
		return types.GameAction{Action: act}
	case types.RandomAction:
		entries := make([]types.RandomEntry, len(act.Actions))
		for i, e := range act.Actions {
			e.Action = renameCounterAction(e.Action, from, to)
			entries[i] = e
		}
		act.Actions = entries
		return types.GameAction{Action: act}
	default:
		return a
	}
}
