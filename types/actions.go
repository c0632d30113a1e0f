package types

// ActionType is the discriminator of a GameAction.
type ActionType string

const (
	ActionSuccess         ActionType = "success"
	ActionFailure         ActionType = "failure"
	ActionPlaySound       ActionType = "playSound"
	ActionMove            ActionType = "move"
	ActionEffect          ActionType = "effect"
	ActionShow            ActionType = "show"
	ActionHide            ActionType = "hide"
	ActionSetFlag         ActionType = "setFlag"
	ActionToggleFlag      ActionType = "toggleFlag"
	ActionSwitchAnimation ActionType = "switchAnimation"
	ActionCounter         ActionType = "counter"
	ActionRandom          ActionType = "randomAction"
)

// Action is implemented by every game action variant.
type Action interface {
	ActionType() ActionType
}

// GameAction is the JSON envelope of an Action, keyed by "type".
type GameAction struct {
	Action
}

// SuccessAction ends the game with success.
type SuccessAction struct {
	Message string `json:"message,omitempty"`
}

// FailureAction ends the game with failure.
type FailureAction struct {
	Message string `json:"message,omitempty"`
}

// PlaySoundAction asks the audio engine to play a sound.
type PlaySoundAction struct {
	SoundID string  `json:"soundId"`
	Volume  float64 `json:"volume,omitempty"`
}

// MoveAction asks the movement engine to move an object.
type MoveAction struct {
	TargetID       string  `json:"targetId,omitempty"`
	MoveType       string  `json:"moveType"` // "straight", "teleport", "wander", "stop"
	TargetPosition *Point  `json:"targetPosition,omitempty"`
	Speed          float64 `json:"speed,omitempty"`
	Duration       float64 `json:"duration,omitempty"`
}

// EffectSpec describes a visual effect.
type EffectSpec struct {
	Type      string  `json:"type"` // "glow", "scale", "rotate", "shake", "flash"
	Duration  float64 `json:"duration"`
	Intensity float64 `json:"intensity"`
}

// EffectAction asks the renderer to play a visual effect on an object.
type EffectAction struct {
	TargetID string     `json:"targetId,omitempty"`
	Effect   EffectSpec `json:"effect"`
}

// ShowAction makes an object visible.
type ShowAction struct {
	TargetID string  `json:"targetId"`
	FadeIn   bool    `json:"fadeIn,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// HideAction hides an object.
type HideAction struct {
	TargetID string  `json:"targetId"`
	FadeOut  bool    `json:"fadeOut,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// SetFlagAction assigns a flag.
type SetFlagAction struct {
	FlagID string `json:"flagId"`
	Value  bool   `json:"value"`
}

// ToggleFlagAction inverts a flag.
type ToggleFlagAction struct {
	FlagID string `json:"flagId"`
}

// SwitchAnimationAction changes an object's active animation.
type SwitchAnimationAction struct {
	TargetID       string  `json:"targetId"`
	AnimationIndex int     `json:"animationIndex"`
	AutoPlay       bool    `json:"autoPlay,omitempty"`
	Speed          float64 `json:"speed,omitempty"`
}

// CounterOperation is an arithmetic operation on a counter.
type CounterOperation string

const (
	CounterIncrement CounterOperation = "increment"
	CounterDecrement CounterOperation = "decrement"
	CounterSet       CounterOperation = "set"
	CounterReset     CounterOperation = "reset"
	CounterAdd       CounterOperation = "add"
	CounterSubtract  CounterOperation = "subtract"
	CounterMultiply  CounterOperation = "multiply"
	CounterDivide    CounterOperation = "divide"
)

// CounterAction mutates a counter. Value is ignored by reset.
type CounterAction struct {
	CounterName string           `json:"counterName"`
	Operation   CounterOperation `json:"operation"`
	Value       int              `json:"value,omitempty"`
}

// SelectionMode controls how a RandomAction picks its entry.
type SelectionMode string

const (
	SelectWeighted    SelectionMode = "weighted"
	SelectUniform     SelectionMode = "uniform"
	SelectProbability SelectionMode = "probability"
)

// RandomEntry is one candidate of a RandomAction.
type RandomEntry struct {
	Action      GameAction `json:"action"`
	Weight      int        `json:"weight,omitempty"`
	Probability float64    `json:"probability,omitempty"`
}

// RandomExecutionLimit caps a RandomAction's firings. Cooldown is in
// milliseconds. Zero values mean unlimited.
type RandomExecutionLimit struct {
	MaxExecutions int   `json:"maxExecutions,omitempty"`
	Cooldown      int64 `json:"cooldown,omitempty"`
}

// RandomAction runs exactly one of its entries per firing.
type RandomAction struct {
	Actions        []RandomEntry         `json:"actions"`
	SelectionMode  SelectionMode         `json:"selectionMode,omitempty"`
	ExecutionLimit *RandomExecutionLimit `json:"executionLimit,omitempty"`
}

// UnknownAction preserves an action whose type this build does not
// recognize. Applying it does nothing.
type UnknownAction struct {
	Type string
	Raw  []byte
}

func (SuccessAction) ActionType() ActionType { return ActionSuccess }
func (FailureAction) ActionType() ActionType { return ActionFailure }
func (PlaySoundAction) ActionType() ActionType { return ActionPlaySound }
func (MoveAction) ActionType() ActionType { return ActionMove }
func (EffectAction) ActionType() ActionType { return ActionEffect }
func (ShowAction) ActionType() ActionType { return ActionShow }
func (HideAction) ActionType() ActionType { return ActionHide }
func (SetFlagAction) ActionType() ActionType { return ActionSetFlag }
func (ToggleFlagAction) ActionType() ActionType { return ActionToggleFlag }
func (SwitchAnimationAction) ActionType() ActionType { return ActionSwitchAnimation }
func (CounterAction) ActionType() ActionType { return ActionCounter }
func (RandomAction) ActionType() ActionType { return ActionRandom }
func (u UnknownAction) ActionType() ActionType { return ActionType(u.Type) }
