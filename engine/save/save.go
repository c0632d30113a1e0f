// Package save implements JSON serialization of game scripts and of
// runtime snapshots.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/rulekit/types"
)

// EncodeScript serializes a script in the persisted document shape.
func EncodeScript(g *types.GameScript) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// DecodeScript parses a persisted script document. Defaults are not
// resolved, so a decoded script re-encodes to the same document.
func DecodeScript(data []byte) (*types.GameScript, error) {
	var g types.GameScript
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	return &g, nil
}

// SaveData is the JSON-serializable runtime snapshot format.
type SaveData struct {
	Version string `json:"version"`

	Tick          int                 `json:"tick"`
	ElapsedMS     int64               `json:"elapsed_ms"`
	PrevElapsedMS int64               `json:"prev_elapsed_ms"`
	GameState     types.GameStateName `json:"game_state"`
	PrevGameState types.GameStateName `json:"prev_game_state"`

	Flags        map[string]bool `json:"flags"`
	PrevFlags    map[string]bool `json:"prev_flags"`
	Counters     map[string]int  `json:"counters"`
	PrevCounters map[string]int  `json:"prev_counters"`

	Objects       map[string]types.ObjectState `json:"objects"`
	Positions     map[string]types.Point       `json:"positions"`
	PrevPositions map[string]types.Point       `json:"prev_positions"`

	RuleExecutions map[string]int               `json:"rule_executions"`
	RandomUsage    map[string]types.RandomUsage `json:"random_usage"`
	RandomAttempts map[string]int64             `json:"random_attempts"`

	RNGSeed         int64            `json:"rng_seed"`
	RNGPosition     int64            `json:"rng_position"`
	StreamPositions map[string]int64 `json:"stream_positions"`
}

// Save serializes runtime state to JSON bytes.
func Save(s *types.State, script *types.GameScript) ([]byte, error) {
	data := SaveData{
		Version:         script.Version,
		Tick:            s.Tick,
		ElapsedMS:       s.ElapsedMS,
		PrevElapsedMS:   s.PrevElapsed,
		GameState:       s.GameState,
		PrevGameState:   s.PrevGameState,
		Flags:           s.Flags,
		PrevFlags:       s.PrevFlags,
		Counters:        s.Counters,
		PrevCounters:    s.PrevCounters,
		Objects:         s.Objects,
		Positions:       s.Positions,
		PrevPositions:   s.PrevPositions,
		RuleExecutions:  s.RuleExecutions,
		RandomUsage:     s.RandomUsage,
		RandomAttempts:  s.RandomAttempts,
		RNGSeed:         s.RNGSeed,
		RNGPosition:     s.RNGPosition,
		StreamPositions: s.StreamPositions,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure maps are never nil after load.
	if sd.Flags == nil {
		sd.Flags = map[string]bool{}
	}
	if sd.PrevFlags == nil {
		sd.PrevFlags = map[string]bool{}
	}
	if sd.Counters == nil {
		sd.Counters = map[string]int{}
	}
	if sd.PrevCounters == nil {
		sd.PrevCounters = map[string]int{}
	}
	if sd.Objects == nil {
		sd.Objects = map[string]types.ObjectState{}
	}
	if sd.Positions == nil {
		sd.Positions = map[string]types.Point{}
	}
	if sd.PrevPositions == nil {
		sd.PrevPositions = map[string]types.Point{}
	}
	if sd.RuleExecutions == nil {
		sd.RuleExecutions = map[string]int{}
	}
	if sd.RandomUsage == nil {
		sd.RandomUsage = map[string]types.RandomUsage{}
	}
	if sd.RandomAttempts == nil {
		sd.RandomAttempts = map[string]int64{}
	}
	if sd.StreamPositions == nil {
		sd.StreamPositions = map[string]int64{}
	}
	if sd.GameState == "" {
		sd.GameState = types.GamePlaying
	}
	if sd.PrevGameState == "" {
		sd.PrevGameState = sd.GameState
	}
	return &sd, nil
}

// ApplySave applies loaded save data onto a state.
func ApplySave(s *types.State, sd *SaveData) {
	s.Tick = sd.Tick
	s.ElapsedMS = sd.ElapsedMS
	s.PrevElapsed = sd.PrevElapsedMS
	s.GameState = sd.GameState
	s.PrevGameState = sd.PrevGameState
	s.Flags = sd.Flags
	s.PrevFlags = sd.PrevFlags
	s.Counters = sd.Counters
	s.PrevCounters = sd.PrevCounters
	s.Objects = sd.Objects
	s.Positions = sd.Positions
	s.PrevPositions = sd.PrevPositions
	s.RuleExecutions = sd.RuleExecutions
	s.RandomUsage = sd.RandomUsage
	s.RandomAttempts = sd.RandomAttempts
	s.RNGSeed = sd.RNGSeed
	s.RNGPosition = sd.RNGPosition
	s.StreamPositions = sd.StreamPositions
}
