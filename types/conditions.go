package types

// ConditionType is the discriminator of a TriggerCondition.
type ConditionType string

const (
	ConditionTouch     ConditionType = "touch"
	ConditionTime      ConditionType = "time"
	ConditionPosition  ConditionType = "position"
	ConditionCollision ConditionType = "collision"
	ConditionAnimation ConditionType = "animation"
	ConditionFlag      ConditionType = "flag"
	ConditionGameState ConditionType = "gameState"
	ConditionCounter   ConditionType = "counter"
	ConditionRandom    ConditionType = "random"
)

// Condition is implemented by every trigger condition variant.
type Condition interface {
	ConditionType() ConditionType
}

// TriggerCondition is the JSON envelope of a Condition, keyed by "type".
type TriggerCondition struct {
	Condition
}

// Touch targets with special meaning.
const (
	TargetSelf  = "self"
	TargetStage = "stage"
)

// TouchCondition fires on a touch of the target.
type TouchCondition struct {
	Target       string `json:"target"`
	TouchType    string `json:"touchType"` // "down", "up", "hold"
	HoldDuration int    `json:"holdDuration,omitempty"`
}

// TimeRange is an inclusive range of elapsed seconds.
type TimeRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TimeCondition fires on elapsed game time.
type TimeCondition struct {
	TimeType string     `json:"timeType"` // "exact", "range", "interval"
	Seconds  float64    `json:"seconds,omitempty"`
	Range    *TimeRange `json:"range,omitempty"`
	Interval float64    `json:"interval,omitempty"`
}

// PositionCondition fires on the target's position relative to a region.
type PositionCondition struct {
	Target string `json:"target"`
	Area   string `json:"area"` // "inside", "outside", "crossing"
	Region Region `json:"region"`
}

// CollisionCondition fires when the rule's object collides with the target.
type CollisionCondition struct {
	Target        string `json:"target"`
	CollisionType string `json:"collisionType"` // "enter", "stay", "exit"
	CheckMethod   string `json:"checkMethod"`   // "hitbox", "pixel"
}

// AnimationCondition fires on animation playback events of the target.
type AnimationCondition struct {
	Target        string `json:"target"`
	Condition     string `json:"condition"` // "start", "end", "frame", "loop"
	FrameNumber   int    `json:"frameNumber,omitempty"`
	AnimationName string `json:"animationName,omitempty"`
}

// FlagTransition selects how a flag condition compares values.
type FlagTransition string

const (
	FlagOn      FlagTransition = "ON"
	FlagOff     FlagTransition = "OFF"
	FlagChanged FlagTransition = "CHANGED"
	FlagOnToOff FlagTransition = "ON_TO_OFF"
	FlagOffToOn FlagTransition = "OFF_TO_ON"
)

// FlagCondition fires on a flag's value or transition.
type FlagCondition struct {
	FlagID    string         `json:"flagId"`
	Condition FlagTransition `json:"condition"`
}

// GameStateCondition fires on the game's play state. Expression, when set,
// must also evaluate true.
type GameStateCondition struct {
	State      GameStateName `json:"state"`
	CheckType  string        `json:"checkType"` // "equals", "not_equals", "became"
	Expression string        `json:"expression,omitempty"`
}

// Comparison is a counter comparison operator.
type Comparison string

const (
	CompareEquals         Comparison = "equals"
	CompareNotEquals      Comparison = "notEquals"
	CompareGreater        Comparison = "greater"
	CompareGreaterOrEqual Comparison = "greaterOrEqual"
	CompareLess           Comparison = "less"
	CompareLessOrEqual    Comparison = "lessOrEqual"
	CompareBetween        Comparison = "between"
	CompareNotBetween     Comparison = "notBetween"
	CompareChanged        Comparison = "changed"
)

// CounterCondition compares a counter's value.
type CounterCondition struct {
	CounterName string     `json:"counterName"`
	Comparison  Comparison `json:"comparison"`
	Value       int        `json:"value"`
	RangeMax    *int       `json:"rangeMax,omitempty"`
}

// RandomCondition fires with the given probability per attempt.
// Interval is in milliseconds.
type RandomCondition struct {
	Probability float64 `json:"probability"`
	Interval    int64   `json:"interval,omitempty"`
	Seed        *int64  `json:"seed,omitempty"`
}

// UnknownCondition preserves a condition whose type this build does not
// recognize. It never fires.
type UnknownCondition struct {
	Type string
	Raw  []byte
}

func (TouchCondition) ConditionType() ConditionType { return ConditionTouch }
func (TimeCondition) ConditionType() ConditionType { return ConditionTime }
func (PositionCondition) ConditionType() ConditionType { return ConditionPosition }
func (CollisionCondition) ConditionType() ConditionType { return ConditionCollision }
func (AnimationCondition) ConditionType() ConditionType { return ConditionAnimation }
func (FlagCondition) ConditionType() ConditionType { return ConditionFlag }
func (GameStateCondition) ConditionType() ConditionType { return ConditionGameState }
func (CounterCondition) ConditionType() ConditionType { return ConditionCounter }
func (RandomCondition) ConditionType() ConditionType { return ConditionRandom }
func (u UnknownCondition) ConditionType() ConditionType { return ConditionType(u.Type) }
