// Package engine provides the Tick() orchestrator that wires together
// condition evaluation, rule ranking, action dispatch and success checks
// into a single step of a running script.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nathoo/rulekit/engine/effects"
	"github.com/nathoo/rulekit/engine/random"
	"github.com/nathoo/rulekit/engine/rules"
	"github.com/nathoo/rulekit/engine/state"
	"github.com/nathoo/rulekit/types"
)

// EventTimeUp is emitted when the script's time limit runs out.
const EventTimeUp = "time_up"

// Engine holds a script and its mutable runtime state. It is not safe for
// concurrent use.
type Engine struct {
	Script *types.GameScript
	State  *types.State
	RNG    *random.RNG
	Logger *slog.Logger

	// Now stamps counters' lastModified when a tick changes them.
	Now func() time.Time

	streams map[string]*random.RNG
	exprs   *rules.ExprCache
}

// New creates an engine for script, seeded from the wall clock. Defaults
// are resolved on the script in place.
func New(script *types.GameScript) *Engine {
	return NewSeeded(script, time.Now().UnixNano())
}

// NewSeeded creates an engine whose random draws are reproducible from seed.
func NewSeeded(script *types.GameScript, seed int64) *Engine {
	types.ResolveDefaults(script)
	s := state.NewState(script)
	s.RNGSeed = seed
	return &Engine{
		Script:  script,
		State:   s,
		RNG:     random.NewRNG(seed),
		Logger:  slog.Default(),
		Now:     time.Now,
		streams: map[string]*random.RNG{},
		exprs:   rules.NewExprCache(),
	}
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
// Seeded condition streams are rebuilt lazily from the state.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.RNG = random.RestoreRNG(seed, position)
	e.streams = map[string]*random.RNG{}
}

// Stream returns the random stream for a random condition. Unseeded
// conditions share the engine RNG.
func (e *Engine) Stream(key string, seed *int64) rules.Roller {
	if seed == nil {
		return e.RNG
	}
	if r, ok := e.streams[key]; ok {
		return r
	}
	r := random.RestoreRNG(*seed, e.State.StreamPositions[key])
	e.streams[key] = r
	return r
}

// Over reports whether the game has ended.
func (e *Engine) Over() bool {
	return e.State.GameState == types.GameSuccess || e.State.GameState == types.GameFailure
}

// Tick advances the script by one step of the game loop and returns what
// happened. Errors raised by actions are joined and returned alongside the
// partial result; the tick itself always completes.
func (e *Engine) Tick(sig types.Signals) (types.Result, error) {
	s := e.State

	// 0. Game over: nothing fires until Reset.
	if e.Over() {
		return types.Result{Tick: s.Tick, ElapsedMS: s.ElapsedMS, Outcome: s.GameState}, nil
	}

	// 1. Advance time and take in runtime signals.
	s.Tick++
	if sig.GameState != "" {
		s.GameState = sig.GameState
	}
	if sig.DeltaMS > 0 && s.GameState != types.GamePaused {
		s.ElapsedMS += sig.DeltaMS
	}
	for id, p := range sig.Positions {
		s.Positions[id] = p
	}

	result := types.Result{Tick: s.Tick, ElapsedMS: s.ElapsedMS}

	// 2. Evaluate every rule against the state as it stood at tick start.
	env := &rules.Env{
		State:   s,
		Script:  e.Script,
		Signals: sig,
		Streams: e,
		Exprs:   e.exprs,
	}
	firing := rules.Evaluate(env)

	// The values just evaluated become the next tick's previous values, so
	// changes made by this tick's actions surface as transitions next tick.
	state.Snapshot(s)

	// 3. Apply actions, highest priority first. A rule that ends the game
	// stops the rest.
	var errs []error
	for _, rule := range firing {
		if e.Over() {
			break
		}
		ctx := effects.Context{
			RuleID:   rule.ID,
			ObjectID: rule.TargetObjectID,
			NowMS:    s.ElapsedMS,
			RNG:      e.RNG,
		}
		evts, err := effects.Apply(s, e.Script, rule.Actions, ctx)
		s.RuleExecutions[rule.ID]++
		result.Fired = append(result.Fired, rule.ID)
		result.Events = append(result.Events, evts...)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %q: %w", rule.ID, err))
			e.Logger.Warn("rule action failed", "rule", rule.ID, "tick", s.Tick, "error", err)
		}
		e.Logger.Debug("rule fired", "rule", rule.ID, "tick", s.Tick, "events", len(evts))
	}

	// 4. Success conditions and the time limit.
	if s.GameState == types.GamePlaying {
		if sc, ok := CheckSuccess(s, e.Script); ok {
			s.GameState = types.GameSuccess
			result.Events = append(result.Events, types.Event{
				Type: effects.EventSuccess,
				Data: map[string]any{"condition": sc.ID, "message": sc.Message},
			})
		} else if limit := e.Script.InitialState.GameState.TimeLimit; limit > 0 && state.ElapsedSeconds(s) >= limit {
			s.GameState = types.GameFailure
			result.Events = append(result.Events, types.Event{Type: EventTimeUp})
		}
	}
	result.Outcome = s.GameState

	// 5. Bookkeeping: document counters and execution counts, RNG positions.
	state.SyncCounters(e.Script, s, e.Now().UTC().Format(time.RFC3339))
	state.SyncExecutions(e.Script, s)
	e.syncRNG()

	return result, errors.Join(errs...)
}

// syncRNG records RNG positions in the state so a save can restore them.
func (e *Engine) syncRNG() {
	e.State.RNGSeed = e.RNG.Seed()
	e.State.RNGPosition = e.RNG.Position()
	if e.State.StreamPositions == nil {
		e.State.StreamPositions = map[string]int64{}
	}
	for key, r := range e.streams {
		e.State.StreamPositions[key] = r.Position()
	}
}

// Reset restarts the script from its initial values. Execution counts and
// random action usage survive the reset except for rules marked
// resetOnEntry.
func (e *Engine) Reset() {
	old := e.State
	s := state.NewState(e.Script)
	for _, r := range e.Script.Rules {
		if r.ExecutionLimit != nil && r.ExecutionLimit.ResetOnEntry {
			delete(s.RuleExecutions, r.ID)
			continue
		}
		if n, ok := old.RuleExecutions[r.ID]; ok {
			s.RuleExecutions[r.ID] = n
		}
		// Usage is keyed by action path, which starts with the rule ID.
		for path, u := range old.RandomUsage {
			if strings.HasPrefix(path, r.ID+"/") {
				s.RandomUsage[path] = u
			}
		}
	}
	state.SyncExecutions(e.Script, s)
	e.State = s
	e.streams = map[string]*random.RNG{}
	e.syncRNG()
}

// Load replaces the runtime state, e.g. from a snapshot, and rebuilds the
// RNG at the recorded position.
func (e *Engine) Load(s *types.State) {
	e.State = s
	e.RestoreRNG(s.RNGSeed, s.RNGPosition)
}

// SetFlag assigns a flag from outside the rule pipeline, e.g. from a
// debugging front end. Returns false for unknown flags.
func (e *Engine) SetFlag(id string, value bool) bool {
	return state.SetFlag(e.State, id, value)
}

// SetCounter assigns a counter from outside the rule pipeline.
func (e *Engine) SetCounter(name string, value int) bool {
	return state.SetCounter(e.State, name, value)
}
