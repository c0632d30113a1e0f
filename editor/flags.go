package editor

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nathoo/rulekit/types"
)

// AddFlag adds a flag with a generated id. Flag names must be unique.
func (s *Session) AddFlag(name string, initial bool) (types.Flag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Flag{}, fmt.Errorf("flag: %w", ErrEmptyName)
	}
	if s.flagNameTaken(name) {
		return types.Flag{}, fmt.Errorf("flag %q: %w", name, ErrFlagExists)
	}
	f := types.Flag{ID: "flag_" + uuid.NewString(), Name: name, InitialValue: initial}
	s.working.Flags = append(s.working.Flags, f)
	s.dirty = true
	return f, nil
}

func (s *Session) flagNameTaken(name string) bool {
	for _, f := range s.working.Flags {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (s *Session) flagIndex(id string) (int, error) {
	for i, f := range s.working.Flags {
		if f.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("flag %q: %w", id, ErrFlagNotFound)
}

// RenameFlag changes a flag's display name. References use the id and are
// unaffected.
func (s *Session) RenameFlag(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("flag: %w", ErrEmptyName)
	}
	i, err := s.flagIndex(id)
	if err != nil {
		return err
	}
	if s.working.Flags[i].Name == name {
		return nil
	}
	if s.flagNameTaken(name) {
		return fmt.Errorf("flag %q: %w", name, ErrFlagExists)
	}
	s.working.Flags[i].Name = name
	s.dirty = true
	return nil
}

// ToggleFlag inverts a flag's initial value.
func (s *Session) ToggleFlag(id string) error {
	i, err := s.flagIndex(id)
	if err != nil {
		return err
	}
	s.working.Flags[i].InitialValue = !s.working.Flags[i].InitialValue
	s.dirty = true
	return nil
}

// RemoveFlag deletes a flag. References to it become inert.
func (s *Session) RemoveFlag(id string) error {
	i, err := s.flagIndex(id)
	if err != nil {
		return err
	}
	s.working.Flags = append(s.working.Flags[:i:i], s.working.Flags[i+1:]...)
	delete(s.working.InitialState.GameState.Flags, id)
	s.dirty = true
	return nil
}
