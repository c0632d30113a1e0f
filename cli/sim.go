package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nathoo/rulekit/engine"
	"github.com/nathoo/rulekit/engine/events"
	"github.com/nathoo/rulekit/engine/parser"
	"github.com/nathoo/rulekit/engine/resolve"
	"github.com/nathoo/rulekit/engine/save"
	"github.com/nathoo/rulekit/types"
)

// LineKind classifies an output line for styling.
type LineKind int

const (
	KindEvent LineKind = iota
	KindSystem
	KindError
	KindTrace
	KindOutcome
)

// Line is one line of simulator output.
type Line struct {
	Text string
	Kind LineKind
}

// Sim executes simulator commands against an engine. Signal commands are
// queued into a pending frame that the next tick sends. Both the plain CLI
// and the TUI drive a Sim.
type Sim struct {
	Engine  *engine.Engine
	SaveDir string
	Trace   bool

	pending types.Signals
	queued  int
	lastCmd string
}

// NewSim creates a simulator for eng saving under ~/.rulekit/saves.
func NewSim(eng *engine.Engine) *Sim {
	home, _ := os.UserHomeDir()
	return &Sim{
		Engine:  eng,
		SaveDir: filepath.Join(home, ".rulekit", "saves"),
	}
}

// Queued returns the number of signals waiting for the next tick.
func (s *Sim) Queued() int { return s.queued }

// Exec runs one input line. quit is true after /quit.
func (s *Sim) Exec(input string) (out []Line, quit bool) {
	input = strings.TrimSpace(input)
	if input == "" || strings.HasPrefix(input, "#") {
		return nil, false
	}

	// Meta-commands start with '/'.
	if strings.HasPrefix(input, "/") {
		return s.handleMeta(input)
	}

	// "again" / "g" repeats the last command.
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if s.lastCmd == "" {
			return []Line{system("Nothing to repeat.")}, false
		}
		input = s.lastCmd
	} else {
		s.lastCmd = input
	}

	cmd, err := parser.Parse(input)
	if err != nil {
		return []Line{errorLine(err.Error())}, false
	}
	if err := resolve.Command(s.Engine.Script, &cmd); err != nil {
		return []Line{errorLine(err.Error())}, false
	}

	if cmd.IsSignal() {
		cmd.AddTo(&s.pending)
		s.queued++
		return []Line{system(fmt.Sprintf("Queued %s for the next tick.", cmd.Verb))}, false
	}

	switch cmd.Verb {
	case "tick", "run":
		return s.tick(cmd.DeltaMS, cmd.Repeat), false

	case "flag":
		if !s.Engine.SetFlag(cmd.Name, cmd.FlagValue) {
			return []Line{errorLine(fmt.Sprintf("Unknown flag %q.", cmd.Name))}, false
		}
		return []Line{system(fmt.Sprintf("Flag %s set to %v.", cmd.Name, cmd.FlagValue))}, false

	case "counter":
		if !s.Engine.SetCounter(cmd.Name, cmd.Value) {
			return []Line{errorLine(fmt.Sprintf("Unknown counter %q.", cmd.Name))}, false
		}
		return []Line{system(fmt.Sprintf("Counter %s set to %d.", cmd.Name, cmd.Value))}, false

	case "reset":
		s.Engine.Reset()
		s.clearPending()
		return []Line{system("Game reset.")}, false
	}
	return nil, false
}

func (s *Sim) clearPending() {
	s.pending = types.Signals{}
	s.queued = 0
}

// tick sends the pending frame, then n-1 empty frames of the same length.
func (s *Sim) tick(deltaMS int64, n int) []Line {
	if s.Engine.Over() {
		return []Line{system("The game is over. Type reset to play again.")}
	}
	var out []Line
	for i := 0; i < n; i++ {
		sig := s.pending
		sig.DeltaMS = deltaMS
		s.clearPending()

		res, err := s.Engine.Tick(sig)
		out = append(out, s.describe(res)...)
		if err != nil {
			for _, msg := range strings.Split(err.Error(), "\n") {
				out = append(out, errorLine(msg))
			}
		}
		if s.Engine.Over() {
			out = append(out, Line{Text: fmt.Sprintf("Game over: %s.", res.Outcome), Kind: KindOutcome})
			break
		}
	}
	if len(out) == 0 {
		out = append(out, system(fmt.Sprintf("Tick %d: nothing happened.", s.Engine.State.Tick)))
	}
	return out
}

func (s *Sim) describe(res types.Result) []Line {
	var out []Line
	for _, text := range events.Lines(res) {
		out = append(out, Line{Text: text, Kind: KindEvent})
	}
	if s.Trace {
		out = append(out, Line{
			Text: fmt.Sprintf("[trace] tick %d at %dms: fired %v", res.Tick, res.ElapsedMS, res.Fired),
			Kind: KindTrace,
		})
		counts := events.Count(res.Events)
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, Line{Text: fmt.Sprintf("[trace]   %s x%d", k, counts[k]), Kind: KindTrace})
		}
	}
	return out
}

// handleMeta dispatches meta-commands. Returns true if the session should end.
func (s *Sim) handleMeta(input string) ([]Line, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []Line{system("Goodbye.")}, true

	case "/save":
		return s.cmdSave(arg), false

	case "/load":
		return s.cmdLoad(arg), false

	case "/help":
		return s.cmdHelp(), false

	case "/state":
		return s.cmdState(), false

	case "/rules":
		return s.cmdRules(), false

	case "/trace":
		s.Trace = !s.Trace
		if s.Trace {
			return []Line{system("Trace output enabled.")}, false
		}
		return []Line{system("Trace output disabled.")}, false

	default:
		return []Line{system(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))}, false
	}
}

// savePath maps a slot name to its file in SaveDir. Names are plain file
// names; anything that could leave the directory is refused.
func (s *Sim) savePath(name string) (string, error) {
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid save name %q", name)
	}
	return filepath.Join(s.SaveDir, name+".json"), nil
}

func (s *Sim) cmdSave(name string) []Line {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Save(s.Engine.State, s.Engine.Script)
	if err != nil {
		return []Line{errorLine(fmt.Sprintf("Save failed: %v", err))}
	}
	path, err := s.savePath(name)
	if err != nil {
		return []Line{errorLine(fmt.Sprintf("Save failed: %v", err))}
	}
	if err := os.MkdirAll(s.SaveDir, 0o755); err != nil {
		return []Line{errorLine(fmt.Sprintf("Save failed: %v", err))}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []Line{errorLine(fmt.Sprintf("Save failed: %v", err))}
	}
	return []Line{system(fmt.Sprintf("Game saved to %s.", name))}
}

func (s *Sim) cmdLoad(name string) []Line {
	if name == "" {
		name = "quicksave"
	}

	path, err := s.savePath(name)
	if err != nil {
		return []Line{errorLine(fmt.Sprintf("Load failed: %v", err))}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return []Line{errorLine(fmt.Sprintf("Load failed: %v", err))}
	}
	sd, err := save.Load(data)
	if err != nil {
		return []Line{errorLine(fmt.Sprintf("Load failed: %v", err))}
	}

	st := s.Engine.State
	save.ApplySave(st, sd)
	s.Engine.Load(st)
	s.clearPending()
	return []Line{system(fmt.Sprintf("Game loaded from %s (tick %d).", name, sd.Tick))}
}

func (s *Sim) cmdHelp() []Line {
	help := []string{
		"System:",
		"  /save [name]  Save state (default: quicksave)",
		"  /load [name]  Load state (default: quicksave)",
		"  /quit         Exit",
		"  /help         Show this help",
		"  /state        Dump flags, counters and objects",
		"  /rules        List rules and how often they fired",
		"  /trace        Toggle trace output",
		"",
		"Signals (queued until the next tick):",
		"  touch <obj> [down|up|hold <ms>]",
		"  collide <a> <b> [enter|stay|exit] [hitbox|pixel]",
		"  anim <obj> <start|end|loop|frame> [n] [name]",
		"  pos <obj> <x> <y>",
		"  state <playing|paused|success|failure>",
		"",
		"Control:",
		"  tick [ms] (t)          Advance one frame (default 100ms)",
		"  run <ticks> [ms]       Advance several frames",
		"  flag <id> on|off       Set a flag directly",
		"  counter <name> <n>     Set a counter directly",
		"  reset                  Restart from the initial state",
		"  again (g)              Repeat the last command",
	}
	out := make([]Line, 0, len(help))
	for _, h := range help {
		out = append(out, Line{Text: h, Kind: KindEvent})
	}
	return out
}

func (s *Sim) cmdState() []Line {
	st := s.Engine.State
	out := []Line{
		system(fmt.Sprintf("Tick: %d", st.Tick)),
		system(fmt.Sprintf("Elapsed: %.2fs", float64(st.ElapsedMS)/1000)),
		system(fmt.Sprintf("Game state: %s", st.GameState)),
	}
	if len(st.Flags) > 0 {
		out = append(out, system(fmt.Sprintf("Flags: %v", st.Flags)))
	}
	if len(st.Counters) > 0 {
		out = append(out, system(fmt.Sprintf("Counters: %v", st.Counters)))
	}
	ids := make([]string, 0, len(st.Objects))
	for id := range st.Objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		o := st.Objects[id]
		p := st.Positions[id]
		out = append(out, system(fmt.Sprintf("Object %s: visible=%v animation=%d at (%g, %g)",
			id, o.Visible, o.Animation, p.X, p.Y)))
	}
	if s.queued > 0 {
		out = append(out, system(fmt.Sprintf("Pending signals: %d", s.queued)))
	}
	return out
}

func (s *Sim) cmdRules() []Line {
	var out []Line
	for _, r := range s.Engine.Script.Rules {
		status := "on"
		if !r.Enabled {
			status = "off"
		}
		limit := ""
		if r.ExecutionLimit != nil && r.ExecutionLimit.MaxExecutions > 0 {
			limit = fmt.Sprintf("/%d", r.ExecutionLimit.MaxExecutions)
		}
		out = append(out, system(fmt.Sprintf("%s (%s) p%d %s fired %d%s",
			r.ID, r.Name, r.Priority, status, s.Engine.State.RuleExecutions[r.ID], limit)))
	}
	if len(out) == 0 {
		out = append(out, system("No rules."))
	}
	return out
}

func system(text string) Line    { return Line{Text: text, Kind: KindSystem} }
func errorLine(text string) Line { return Line{Text: text, Kind: KindError} }
