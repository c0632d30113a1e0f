// Package parser converts simulator command strings into Commands.
// Intentionally dumb: no grammar, just positional words.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/rulekit/types"
)

// DefaultTickMS is the frame length used by "tick" without an argument.
const DefaultTickMS = 100

// ErrUsage is wrapped by every parse error.
var ErrUsage = errors.New("usage")

var verbAliases = map[string]string{
	"t":       "tick",
	"step":    "tick",
	"wait":    "tick",
	"tap":     "touch",
	"press":   "touch",
	"click":   "touch",
	"hit":     "collide",
	"bump":    "collide",
	"animate": "anim",
	"move":    "pos",
	"at":      "pos",
	"set":     "counter",
	"restart": "reset",
}

var touchTypes = map[string]bool{"down": true, "up": true, "hold": true}

var collisionPhases = map[string]bool{"enter": true, "stay": true, "exit": true}

var animationEvents = map[string]bool{"start": true, "end": true, "frame": true, "loop": true}

var gameStates = map[string]types.GameStateName{
	"playing": types.GamePlaying,
	"play":    types.GamePlaying,
	"paused":  types.GamePaused,
	"pause":   types.GamePaused,
	"success": types.GameSuccess,
	"failure": types.GameFailure,
}

// Command is one parsed simulator command. Signal commands (touch, collide,
// anim, pos, state) are queued into the next frame by the front end; tick
// sends the frame.
type Command struct {
	Verb string

	// tick / run
	DeltaMS int64
	Repeat  int

	Touch     *types.TouchSignal
	Collision *types.CollisionSignal
	Animation *types.AnimationSignal

	// pos
	ObjectID string
	Position types.Point

	// state
	GameState types.GameStateName

	// flag / counter
	Name      string
	FlagValue bool
	Value     int
}

// IsSignal reports whether the command contributes to the next frame
// rather than acting immediately.
func (c Command) IsSignal() bool {
	switch c.Verb {
	case "touch", "collide", "anim", "pos", "state":
		return true
	}
	return false
}

// AddTo merges a signal command into a pending frame.
func (c Command) AddTo(sig *types.Signals) {
	switch c.Verb {
	case "touch":
		sig.Touches = append(sig.Touches, *c.Touch)
	case "collide":
		sig.Collisions = append(sig.Collisions, *c.Collision)
	case "anim":
		sig.Animations = append(sig.Animations, *c.Animation)
	case "pos":
		if sig.Positions == nil {
			sig.Positions = map[string]types.Point{}
		}
		sig.Positions[c.ObjectID] = c.Position
	case "state":
		sig.GameState = c.GameState
	}
}

// Parse converts a raw command string into a Command.
func Parse(input string) (Command, error) {
	words := strings.Fields(strings.TrimSpace(input))
	if len(words) == 0 {
		return Command{}, nil
	}

	verb := strings.ToLower(words[0])
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}
	args := words[1:]
	cmd := Command{Verb: verb}

	switch verb {
	case "tick":
		cmd.DeltaMS = DefaultTickMS
		cmd.Repeat = 1
		if len(args) > 0 {
			ms, err := parseInt(args[0], "tick [ms]")
			if err != nil {
				return Command{}, err
			}
			cmd.DeltaMS = int64(ms)
		}

	case "run":
		if len(args) < 1 {
			return Command{}, usage("run <ticks> [ms]")
		}
		n, err := parseInt(args[0], "run <ticks> [ms]")
		if err != nil || n < 1 {
			return Command{}, usage("run <ticks> [ms]")
		}
		cmd.Repeat = n
		cmd.DeltaMS = DefaultTickMS
		if len(args) > 1 {
			ms, err := parseInt(args[1], "run <ticks> [ms]")
			if err != nil {
				return Command{}, err
			}
			cmd.DeltaMS = int64(ms)
		}

	case "touch":
		if len(args) < 1 {
			return Command{}, usage("touch <object> [down|up|hold <ms>]")
		}
		sig := types.TouchSignal{ObjectID: args[0], Type: "down"}
		if len(args) > 1 {
			sig.Type = strings.ToLower(args[1])
			if !touchTypes[sig.Type] {
				return Command{}, usage("touch <object> [down|up|hold <ms>]")
			}
		}
		if sig.Type == "hold" && len(args) > 2 {
			ms, err := parseInt(args[2], "touch <object> hold <ms>")
			if err != nil {
				return Command{}, err
			}
			sig.DurationMS = int64(ms)
		}
		cmd.Touch = &sig

	case "collide":
		if len(args) < 2 {
			return Command{}, usage("collide <a> <b> [enter|stay|exit] [hitbox|pixel]")
		}
		sig := types.CollisionSignal{ObjectA: args[0], ObjectB: args[1], Phase: "enter"}
		if len(args) > 2 {
			sig.Phase = strings.ToLower(args[2])
			if !collisionPhases[sig.Phase] {
				return Command{}, usage("collide <a> <b> [enter|stay|exit] [hitbox|pixel]")
			}
		}
		if len(args) > 3 {
			sig.Method = strings.ToLower(args[3])
		}
		cmd.Collision = &sig

	case "anim":
		if len(args) < 2 || !animationEvents[strings.ToLower(args[1])] {
			return Command{}, usage("anim <object> <start|end|loop|frame> [n] [name]")
		}
		sig := types.AnimationSignal{ObjectID: args[0], Event: strings.ToLower(args[1])}
		rest := args[2:]
		if sig.Event == "frame" && len(rest) > 0 {
			n, err := parseInt(rest[0], "anim <object> frame <n>")
			if err != nil {
				return Command{}, err
			}
			sig.Frame = n
			rest = rest[1:]
		}
		if len(rest) > 0 {
			sig.Name = rest[0]
		}
		cmd.Animation = &sig

	case "pos":
		if len(args) < 3 {
			return Command{}, usage("pos <object> <x> <y>")
		}
		x, errX := strconv.ParseFloat(args[1], 64)
		y, errY := strconv.ParseFloat(args[2], 64)
		if errX != nil || errY != nil {
			return Command{}, usage("pos <object> <x> <y>")
		}
		cmd.ObjectID = args[0]
		cmd.Position = types.Point{X: x, Y: y}

	case "flag":
		if len(args) < 2 {
			return Command{}, usage("flag <id> on|off")
		}
		switch strings.ToLower(args[1]) {
		case "on", "true", "1":
			cmd.FlagValue = true
		case "off", "false", "0":
			cmd.FlagValue = false
		default:
			return Command{}, usage("flag <id> on|off")
		}
		cmd.Name = args[0]

	case "counter":
		if len(args) < 2 {
			return Command{}, usage("counter <name> <value>")
		}
		v, err := parseInt(args[1], "counter <name> <value>")
		if err != nil {
			return Command{}, err
		}
		cmd.Name = args[0]
		cmd.Value = v

	case "state":
		if len(args) < 1 {
			return Command{}, usage("state playing|paused|success|failure")
		}
		gs, ok := gameStates[strings.ToLower(args[0])]
		if !ok {
			return Command{}, usage("state playing|paused|success|failure")
		}
		cmd.GameState = gs

	case "reset":

	default:
		return Command{}, fmt.Errorf("unknown command %q", words[0])
	}

	return cmd, nil
}

func usage(form string) error {
	return fmt.Errorf("%w: %s", ErrUsage, form)
}

func parseInt(s, form string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, usage(form)
	}
	return n, nil
}
