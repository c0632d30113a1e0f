package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nathoo/rulekit/engine"
	"github.com/nathoo/rulekit/types"
)

// testScript returns a small script for CLI testing: touching the hero
// toggles the lamp and scores 5; the coin is collected on collision.
func testScript() *types.GameScript {
	return &types.GameScript{
		InitialState: types.InitialState{
			Layout: types.Layout{Objects: []types.ObjectLayout{
				{ObjectID: "hero", InitialState: types.ObjectInitialState{Visible: true}},
				{ObjectID: "coin", Position: types.Point{X: 5, Y: 5}, InitialState: types.ObjectInitialState{Visible: true}},
			}},
		},
		Flags:    []types.Flag{{ID: "f_lamp", Name: "lamp_on"}},
		Counters: []types.Counter{{ID: "c_score", Name: "score"}},
		Rules: []types.Rule{
			{
				ID: "lamp", Name: "Lamp", Enabled: true, TargetObjectID: "hero",
				Triggers: types.TriggerSet{Conditions: []types.TriggerCondition{
					{Condition: types.TouchCondition{Target: "self", TouchType: "down"}},
				}},
				Actions: []types.GameAction{
					{Action: types.ToggleFlagAction{FlagID: "f_lamp"}},
					{Action: types.CounterAction{CounterName: "score", Operation: types.CounterAdd, Value: 5}},
				},
			},
			{
				ID: "coin", Name: "Coin", Enabled: true, TargetObjectID: "coin",
				Triggers: types.TriggerSet{Conditions: []types.TriggerCondition{
					{Condition: types.CollisionCondition{Target: "hero", CollisionType: "enter"}},
				}},
				Actions: []types.GameAction{
					{Action: types.HideAction{TargetID: "self"}},
				},
			},
		},
		SuccessConditions: []types.SuccessCondition{{
			ID: "win", Message: "Bright enough",
			Conditions: []types.SuccessItem{{Type: types.SuccessCounter, CounterName: "score", CounterValue: 10}},
		}},
		Version: "1.0",
	}
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	eng := engine.NewSeeded(testScript(), 7)
	eng.Now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	var out bytes.Buffer
	sim := NewSim(eng)
	sim.SaveDir = t.TempDir()
	c := &CLI{
		Sim: sim,
		In:  strings.NewReader(input),
		Out: &out,
	}
	return c, &out
}

func TestCLI_Banner(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "rulekit script v1.0: 2 rules, 1 flags, 1 counters") {
		t.Errorf("expected script summary, got:\n%s", output)
	}
	if !strings.Contains(output, "[Goodbye.]") {
		t.Error("expected goodbye on /quit")
	}
}

func TestCLI_TouchAndTick(t *testing.T) {
	c, out := newTestCLI(t, "touch hero\ntick\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "[Queued touch for the next tick.]") {
		t.Error("expected touch to be queued")
	}
	if !strings.Contains(output, "flag f_lamp = true") {
		t.Errorf("expected lamp toggle, got:\n%s", output)
	}
	if !strings.Contains(output, "counter score: 0 -> 5") {
		t.Errorf("expected score change, got:\n%s", output)
	}
}

func TestCLI_SignalsClearedAfterTick(t *testing.T) {
	c, out := newTestCLI(t, "touch hero\ntick\ntick\n/quit\n")
	c.Run()

	if n := strings.Count(out.String(), "flag f_lamp"); n != 1 {
		t.Errorf("lamp toggled %d times, want 1", n)
	}
	if c.Sim.Queued() != 0 {
		t.Errorf("queued = %d, want 0", c.Sim.Queued())
	}
}

func TestCLI_CollisionHidesSelf(t *testing.T) {
	c, out := newTestCLI(t, "collide hero coin\ntick\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "hide coin") {
		t.Errorf("expected coin hidden, got:\n%s", out.String())
	}
	if c.Sim.Engine.State.Objects["coin"].Visible {
		t.Error("coin should be hidden")
	}
}

func TestCLI_SuccessEndsGame(t *testing.T) {
	c, out := newTestCLI(t, "touch hero\ntick\ntouch hero\ntick\ntick\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "SUCCESS: Bright enough") {
		t.Errorf("expected success message, got:\n%s", output)
	}
	if !strings.Contains(output, "Game over: success.") {
		t.Error("expected game over line")
	}
	if !strings.Contains(output, "The game is over") {
		t.Error("expected tick after game over to be refused")
	}
}

func TestCLI_FlagAndCounterCommands(t *testing.T) {
	c, out := newTestCLI(t, "flag f_lamp on\ncounter score 3\nflag f_ghost on\ncounter gems 1\n/quit\n")
	c.Run()

	output := out.String()
	if !c.Sim.Engine.State.Flags["f_lamp"] {
		t.Error("flag command should set f_lamp")
	}
	if c.Sim.Engine.State.Counters["score"] != 3 {
		t.Errorf("score = %d, want 3", c.Sim.Engine.State.Counters["score"])
	}
	if !strings.Contains(output, `unknown flag "f_ghost"`) {
		t.Error("expected unknown flag message")
	}
	if !strings.Contains(output, `unknown counter "gems"`) {
		t.Error("expected unknown counter message")
	}
}

func TestCLI_ParseError(t *testing.T) {
	c, out := newTestCLI(t, "touch\ndance\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "usage: touch <object>") {
		t.Errorf("expected usage message, got:\n%s", output)
	}
	if !strings.Contains(output, `unknown command "dance"`) {
		t.Error("expected unknown command message")
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{"/save", "/load", "/quit", "touch <obj>", "tick [ms]"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	c, out := newTestCLI(t, "touch hero\ntick\n/save test\nreset\n/load test\n/state\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Game saved to test.") {
		t.Error("expected save confirmation")
	}
	if !strings.Contains(output, "Game loaded from test (tick 1).") {
		t.Errorf("expected load confirmation, got:\n%s", output)
	}
	if c.Sim.Engine.State.Counters["score"] != 5 {
		t.Errorf("score after load = %d, want 5", c.Sim.Engine.State.Counters["score"])
	}
	if !strings.Contains(output, "Counters: map[score:5]") {
		t.Error("expected restored counters in state output")
	}
}

func TestCLI_LoadNonexistent(t *testing.T) {
	c, out := newTestCLI(t, "/load nonexistent\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Load failed") {
		t.Error("expected load failure message")
	}
}

func TestCLI_Reset(t *testing.T) {
	c, out := newTestCLI(t, "touch hero\ntick\nreset\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "[Game reset.]") {
		t.Error("expected reset confirmation")
	}
	if c.Sim.Engine.State.Counters["score"] != 0 || c.Sim.Engine.State.Tick != 0 {
		t.Errorf("state after reset = tick %d score %d", c.Sim.Engine.State.Tick, c.Sim.Engine.State.Counters["score"])
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\ntouch hero\ntick\n/trace\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "[trace] tick 1 at 100ms: fired [lamp]") {
		t.Errorf("expected trace line, got:\n%s", output)
	}
	if !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace disabled message")
	}
}

func TestCLI_Rules(t *testing.T) {
	c, out := newTestCLI(t, "touch hero\ntick\n/rules\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "lamp (Lamp) p0 on fired 1") {
		t.Errorf("expected rule listing, got:\n%s", out.String())
	}
}

func TestCLI_EmptyAndCommentInput(t *testing.T) {
	c, out := newTestCLI(t, "\n# a comment\n\n/quit\n")
	c.Run()

	if strings.Contains(out.String(), "unknown command") {
		t.Error("empty and comment lines should be skipped")
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, out := newTestCLI(t, "touch hero\ntick\nagain\ng\n/quit\n")
	c.Run()

	// tick, again and g each tick once; only the first carries the touch.
	if c.Sim.Engine.State.Tick != 3 {
		t.Errorf("tick = %d, want 3", c.Sim.Engine.State.Tick)
	}
	if n := strings.Count(out.String(), "flag f_lamp"); n != 1 {
		t.Errorf("lamp toggled %d times, want 1", n)
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}

func TestCLI_RunStopsAtGameOver(t *testing.T) {
	c, _ := newTestCLI(t, "counter score 10\nrun 5\n/quit\n")
	c.Run()

	if c.Sim.Engine.State.Tick != 1 {
		t.Errorf("tick = %d, want 1 (run stops when the game ends)", c.Sim.Engine.State.Tick)
	}
}

func TestCLI_ResolvesReferences(t *testing.T) {
	c, out := newTestCLI(t, "touch HERO\ntick\nflag lamp_on off\ncounter c_score 7\ntouch dragon\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "counter score: 0 -> 5") {
		t.Errorf("touch HERO should resolve to hero, got:\n%s", output)
	}
	if c.Sim.Engine.State.Flags["f_lamp"] {
		t.Error("flag by name should resolve to f_lamp and turn it off")
	}
	if c.Sim.Engine.State.Counters["score"] != 7 {
		t.Errorf("score = %d, want 7", c.Sim.Engine.State.Counters["score"])
	}
	if !strings.Contains(output, `unknown object "dragon"`) {
		t.Error("expected unknown object message")
	}
}

func TestCLI_SaveNameStaysInSaveDir(t *testing.T) {
	c, out := newTestCLI(t, "/save ../escape\n/load ../../etc/passwd\n/save sub\\slot\n/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{
		`Save failed: invalid save name "../escape"`,
		`Load failed: invalid save name "../../etc/passwd"`,
		`Save failed: invalid save name "sub\\slot"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in:\n%s", want, output)
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(c.Sim.SaveDir), "escape.json")); !os.IsNotExist(err) {
		t.Errorf("save escaped its directory: %v", err)
	}
}
