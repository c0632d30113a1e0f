// Package types defines the shared data structures for rulekit: the game
// script document, its condition/action unions, and the runtime state the
// engine evaluates against. Aside from JSON codecs and default resolution,
// this package holds no logic.
package types

import "encoding/json"

// Operator combines the conditions of a rule or success condition.
type Operator string

const (
	OperatorAnd Operator = "AND"
	OperatorOr  Operator = "OR"
)

// GameStateName is the coarse play state of a running game.
type GameStateName string

const (
	GamePlaying GameStateName = "playing"
	GameSuccess GameStateName = "success"
	GameFailure GameStateName = "failure"
	GamePaused  GameStateName = "paused"
)

// Point is a 2D coordinate or scale pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Region is an axis-aligned rectangle in stage coordinates.
type Region struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies inside the region (edges inclusive).
func (r Region) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Flag is a named boolean.
type Flag struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	InitialValue bool   `json:"initialValue"`
}

// Counter is a named integer. Name is unique within a script.
type Counter struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	InitialValue int    `json:"initialValue"`
	CurrentValue int    `json:"currentValue"`
	LastModified string `json:"lastModified,omitempty"`
}

// TriggerSet is the condition half of a rule.
type TriggerSet struct {
	Operator   Operator           `json:"operator"`
	Conditions []TriggerCondition `json:"conditions"`
}

// ExecutionLimit caps how many times a rule may fire.
// MaxExecutions of 0 means unlimited.
type ExecutionLimit struct {
	MaxExecutions     int  `json:"maxExecutions"`
	ResetOnEntry      bool `json:"resetOnEntry"`
	CurrentExecutions int  `json:"currentExecutions"`
}

// TimeWindow restricts a rule to an elapsed-time range, in seconds.
// End of 0 means open-ended.
type TimeWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Rule maps a combination of conditions to an ordered list of actions.
type Rule struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Enabled        bool            `json:"enabled"`
	Priority       int             `json:"priority"`
	TargetObjectID string          `json:"targetObjectId"`
	Triggers       TriggerSet      `json:"triggers"`
	Actions        []GameAction    `json:"actions"`
	ExecutionLimit *ExecutionLimit `json:"executionLimit,omitempty"`
	TimeWindow     *TimeWindow     `json:"timeWindow,omitempty"`
}

// SuccessItemType selects which field group of a SuccessItem applies.
type SuccessItemType string

const (
	SuccessFlag        SuccessItemType = "flag"
	SuccessScore       SuccessItemType = "score"
	SuccessTime        SuccessItemType = "time"
	SuccessObjectState SuccessItemType = "objectState"
	SuccessCounter     SuccessItemType = "counter"
)

// SuccessItem is one clause of a success condition. Only the fields for its
// Type are meaningful.
type SuccessItem struct {
	Type SuccessItemType `json:"type"`

	FlagID    string `json:"flagId,omitempty"`
	FlagValue bool   `json:"flagValue,omitempty"`

	ScoreValue      int        `json:"scoreValue,omitempty"`
	ScoreComparison Comparison `json:"scoreComparison,omitempty"`

	TimeValue      float64    `json:"timeValue,omitempty"`
	TimeComparison Comparison `json:"timeComparison,omitempty"`

	ObjectID        string `json:"objectId,omitempty"`
	ObjectCondition string `json:"objectCondition,omitempty"` // "visible" or "hidden"

	CounterName       string     `json:"counterName,omitempty"`
	CounterComparison Comparison `json:"counterComparison,omitempty"`
	CounterValue      int        `json:"counterValue,omitempty"`
}

// SuccessCondition ends the game with success when its items hold.
type SuccessCondition struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Operator   Operator      `json:"operator"`
	Conditions []SuccessItem `json:"conditions"`
	Message    string        `json:"message,omitempty"`
}

// Statistics summarizes a script for the editor.
type Statistics struct {
	TotalRules      int `json:"totalRules"`
	TotalConditions int `json:"totalConditions"`
	TotalActions    int `json:"totalActions"`
	TotalFlags      int `json:"totalFlags"`
	TotalCounters   int `json:"totalCounters"`
	ComplexityScore int `json:"complexityScore"`
}

// BackgroundLayout is the initial configuration of the stage background.
type BackgroundLayout struct {
	Visible          bool    `json:"visible"`
	InitialAnimation int     `json:"initialAnimation"`
	AnimationSpeed   float64 `json:"animationSpeed"`
	AutoStart        bool    `json:"autoStart"`
}

// ObjectInitialState is the state of a placed object at game start.
type ObjectInitialState struct {
	Visible        bool    `json:"visible"`
	Animation      int     `json:"animation"`
	AnimationSpeed float64 `json:"animationSpeed"`
	AutoStart      bool    `json:"autoStart"`
}

// ObjectLayout places one project object on the stage.
type ObjectLayout struct {
	ObjectID     string             `json:"objectId"`
	Position     Point              `json:"position"`
	Scale        Point              `json:"scale"`
	Rotation     float64            `json:"rotation"`
	ZIndex       int                `json:"zIndex"`
	InitialState ObjectInitialState `json:"initialState"`
}

// TextLayout places one text element on the stage.
type TextLayout struct {
	TextID   string `json:"textId"`
	Position Point  `json:"position"`
	ZIndex   int    `json:"zIndex"`
	Visible  bool   `json:"visible"`
}

// StageLayout holds stage-wide settings.
type StageLayout struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// Layout is the arrangement of objects and texts on the stage.
type Layout struct {
	Background *BackgroundLayout `json:"background,omitempty"`
	Objects    []ObjectLayout    `json:"objects"`
	Texts      []TextLayout      `json:"texts"`
	Stage      StageLayout       `json:"stage"`
}

// InitialGameState seeds runtime values at game start.
type InitialGameState struct {
	Flags     map[string]bool `json:"flags"`
	Score     int             `json:"score,omitempty"`
	TimeLimit float64         `json:"timeLimit,omitempty"`
}

// InitialState is the snapshot a game starts from.
type InitialState struct {
	Layout    Layout           `json:"layout"`
	GameState InitialGameState `json:"gameState"`
}

// GameScript is the persisted rule document of one game. Field names match
// saved projects exactly.
type GameScript struct {
	InitialState      InitialState       `json:"initialState"`
	Layout            Layout             `json:"layout"`
	Flags             []Flag             `json:"flags"`
	Counters          []Counter          `json:"counters"`
	Rules             []Rule             `json:"rules"`
	SuccessConditions []SuccessCondition `json:"successConditions"`
	Statistics        Statistics         `json:"statistics"`
	Version           string             `json:"version"`
	LastModified      string             `json:"lastModified"`
}

// FindFlag returns the flag with the given id.
func (g *GameScript) FindFlag(id string) (Flag, bool) {
	for _, f := range g.Flags {
		if f.ID == id {
			return f, true
		}
	}
	return Flag{}, false
}

// FindCounter returns the counter with the given name.
func (g *GameScript) FindCounter(name string) (Counter, bool) {
	for _, c := range g.Counters {
		if c.Name == name {
			return c, true
		}
	}
	return Counter{}, false
}

// Clone returns a deep copy of the script.
func (g *GameScript) Clone() (*GameScript, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	var out GameScript
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
