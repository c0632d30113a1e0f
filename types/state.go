package types

// TouchSignal reports one touch on an object, or on the stage when ObjectID
// is empty or "stage".
type TouchSignal struct {
	ObjectID   string `json:"objectId"`
	Type       string `json:"type"` // "down", "up", "hold"
	DurationMS int64  `json:"durationMs,omitempty"`
}

// CollisionSignal reports a collision between two objects.
type CollisionSignal struct {
	ObjectA string `json:"objectA"`
	ObjectB string `json:"objectB"`
	Phase   string `json:"phase"` // "enter", "stay", "exit"
	Method  string `json:"method,omitempty"`
}

// AnimationSignal reports an animation playback event of an object.
type AnimationSignal struct {
	ObjectID string `json:"objectId"`
	Event    string `json:"event"` // "start", "end", "frame", "loop"
	Frame    int    `json:"frame,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Signals is what the game runtime observed since the previous tick.
type Signals struct {
	DeltaMS    int64             `json:"deltaMs"`
	Touches    []TouchSignal     `json:"touches,omitempty"`
	Positions  map[string]Point  `json:"positions,omitempty"`
	Collisions []CollisionSignal `json:"collisions,omitempty"`
	Animations []AnimationSignal `json:"animations,omitempty"`
	GameState  GameStateName     `json:"gameState,omitempty"`
}

// Event is a side effect produced by an action, handed to the runtime's
// renderer, audio or movement engine.
type Event struct {
	Type     string         `json:"type"`
	RuleID   string         `json:"ruleId,omitempty"`
	TargetID string         `json:"targetId,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Result is the output of a single tick.
type Result struct {
	Tick      int           `json:"tick"`
	ElapsedMS int64         `json:"elapsedMs"`
	Fired     []string      `json:"fired"`
	Events    []Event       `json:"events"`
	Outcome   GameStateName `json:"outcome"`
}

// ObjectState is the runtime view of a placed object.
type ObjectState struct {
	Visible   bool `json:"visible"`
	Animation int  `json:"animation"`
}

// RandomUsage tracks firings of one random action.
type RandomUsage struct {
	Count     int   `json:"count"`
	LastFired int64 `json:"lastFired"`
}

// State is the complete mutable runtime state of a running script.
// Prev* fields hold the values observed at the previous tick's evaluation.
type State struct {
	Tick        int   `json:"tick"`
	ElapsedMS   int64 `json:"elapsedMs"`
	PrevElapsed int64 `json:"prevElapsedMs"`

	GameState     GameStateName `json:"gameState"`
	PrevGameState GameStateName `json:"prevGameState"`

	Flags        map[string]bool `json:"flags"`
	PrevFlags    map[string]bool `json:"prevFlags"`
	Counters     map[string]int  `json:"counters"`
	PrevCounters map[string]int  `json:"prevCounters"`

	Objects       map[string]ObjectState `json:"objects"`
	Positions     map[string]Point       `json:"positions"`
	PrevPositions map[string]Point       `json:"prevPositions"`

	RuleExecutions map[string]int         `json:"ruleExecutions"`
	RandomUsage    map[string]RandomUsage `json:"randomUsage"`
	RandomAttempts map[string]int64       `json:"randomAttempts"`

	RNGSeed         int64            `json:"rngSeed"`
	RNGPosition     int64            `json:"rngPosition"`
	StreamPositions map[string]int64 `json:"streamPositions,omitempty"`
}
