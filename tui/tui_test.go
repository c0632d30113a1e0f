package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/rulekit/cli"
	"github.com/nathoo/rulekit/engine"
	"github.com/nathoo/rulekit/types"
)

// testScript returns a one-rule script: touching the lamp adds 5 to score.
func testScript() *types.GameScript {
	return &types.GameScript{
		InitialState: types.InitialState{
			Layout: types.Layout{Objects: []types.ObjectLayout{
				{ObjectID: "lamp", InitialState: types.ObjectInitialState{Visible: true}},
			}},
			GameState: types.InitialGameState{TimeLimit: 30},
		},
		Counters: []types.Counter{{ID: "c_score", Name: "score"}},
		Rules: []types.Rule{{
			ID: "lamp", Name: "Lamp", Enabled: true, TargetObjectID: "lamp",
			Triggers: types.TriggerSet{Conditions: []types.TriggerCondition{
				{Condition: types.TouchCondition{Target: "self", TouchType: "down"}},
			}},
			Actions: []types.GameAction{
				{Action: types.CounterAction{CounterName: "score", Operation: types.CounterAdd, Value: 5}},
			},
		}},
		Version: "1.0",
	}
}

// newTestModel returns a sized model so the viewport is ready.
func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(engine.NewSeeded(testScript(), 1))
	m.sim.SaveDir = t.TempDir()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

// submit types a line into the input and presses enter.
func submit(m Model, line string) (Model, tea.Cmd) {
	m.input.SetValue(line)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"counter score: 10 -> 15 after the lamp rule fired twice", 24,
			"counter score: 10 -> 15\nafter the lamp rule\nfired twice"},
		{"", 80, ""},
		{"one", 80, "one"},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("touch lamp")
	h.Push("tick")
	h.Push("run 10")

	for _, want := range []string{"run 10", "tick", "touch lamp", "touch lamp"} {
		prev, ok := h.Prev()
		if !ok || prev != want {
			t.Errorf("expected %q, got %q (ok=%v)", want, prev, ok)
		}
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("touch lamp")
	h.Push("tick")

	h.Prev() // "tick"
	h.Prev() // "touch lamp"

	next, ok := h.Next()
	if !ok || next != "tick" {
		t.Errorf("expected 'tick', got %q (ok=%v)", next, ok)
	}

	if _, ok = h.Next(); ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	for _, want := range []string{"c", "b", "b"} {
		if prev, _ := h.Prev(); prev != want {
			t.Errorf("expected %q, got %q", want, prev)
		}
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("tick")
	h.Push("tick")
	h.Push("tick")

	if len(h.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(h.entries))
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("touch lamp")
	h.Push("tick")

	h.Prev()
	h.ResetCursor()

	prev, ok := h.Prev()
	if !ok || prev != "tick" {
		t.Errorf("expected 'tick' after reset, got %q", prev)
	}
}

func TestStatusCounters(t *testing.T) {
	got := statusCounters(map[string]int{"score": 5, "lives": 3})
	if got != "lives=3 score=5" {
		t.Errorf("statusCounters = %q", got)
	}
	if got := statusCounters(nil); got != "" {
		t.Errorf("statusCounters(nil) = %q, want empty", got)
	}
}

func TestModel_NotReadyView(t *testing.T) {
	m := New(engine.NewSeeded(testScript(), 1))
	if m.View() != "Loading..." {
		t.Errorf("View before sizing = %q", m.View())
	}
}

func TestModel_TouchAndTick(t *testing.T) {
	m := newTestModel(t)

	m, _ = submit(m, "touch lamp")
	if m.sim.Queued() != 1 {
		t.Fatalf("queued = %d, want 1", m.sim.Queued())
	}
	if bar := m.renderStatusBar(); !strings.Contains(bar, "queued: 1") {
		t.Errorf("status bar should show queued signals: %q", bar)
	}

	m, _ = submit(m, "tick")
	if got := m.sim.Engine.State.Counters["score"]; got != 5 {
		t.Errorf("score = %d, want 5", got)
	}

	bar := m.renderStatusBar()
	for _, want := range []string{"playing", "0.1s/30s", "score=5", "T:1"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar missing %q: %q", want, bar)
		}
	}
}

func TestModel_OutputKinds(t *testing.T) {
	m := newTestModel(t)
	m, _ = submit(m, "touch lamp")
	m, _ = submit(m, "tick")
	m, _ = submit(m, "dance")

	var inputs, events, errs int
	for _, rl := range m.rawLines {
		switch {
		case rl.isInput:
			inputs++
		case rl.text == "":
		case rl.kind == cli.KindEvent:
			events++
		case rl.kind == cli.KindError:
			errs++
		}
	}
	if inputs != 3 {
		t.Errorf("echoed inputs = %d, want 3", inputs)
	}
	if events == 0 {
		t.Error("expected event lines from the tick")
	}
	if errs != 1 {
		t.Errorf("error lines = %d, want 1", errs)
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := newTestModel(t)
	m, _ = submit(m, "touch lamp")
	m, _ = submit(m, "tick")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	if m.input.Value() != "tick" {
		t.Errorf("after up: input = %q, want 'tick'", m.input.Value())
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	if m.input.Value() != "" {
		t.Errorf("after down: input = %q, want empty", m.input.Value())
	}
}

func TestModel_EmptyEnterIgnored(t *testing.T) {
	m := newTestModel(t)
	m, _ = submit(m, "   ")
	if len(m.rawLines) != 0 {
		t.Errorf("blank input produced %d lines", len(m.rawLines))
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)
	m, cmd := submit(m, "/quit")
	if !m.quitting {
		t.Error("expected quitting after /quit")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("view should be empty once quitting")
	}
}

func TestModel_SaveThroughSim(t *testing.T) {
	m := newTestModel(t)
	m, _ = submit(m, "/save slot1")

	var found bool
	for _, rl := range m.rawLines {
		if strings.Contains(rl.text, "Game saved to slot1.") {
			found = true
		}
	}
	if !found {
		t.Error("expected save confirmation in output")
	}
}

func TestModel_BannerOnInit(t *testing.T) {
	m := newTestModel(t)
	msg := m.initialOutput()()
	updated, _ := m.Update(msg)
	m = updated.(Model)

	if len(m.rawLines) == 0 || !strings.Contains(m.rawLines[0].text, "rulekit script v1.0: 1 rules") {
		t.Errorf("expected banner as first line, got %+v", m.rawLines)
	}
	if m.rawLines[0].kind != cli.KindSystem {
		t.Error("banner should be a system line")
	}
}

func TestRenderLine_SystemBrackets(t *testing.T) {
	got := renderLine("Game reset.", cli.KindSystem)
	if !strings.Contains(got, "[Game reset.]") {
		t.Errorf("renderLine system = %q", got)
	}
}

func TestHistory_SkipsRepeatCommands(t *testing.T) {
	h := NewHistory(5)
	h.Push("touch lamp")
	h.Push("again")
	h.Push("G")
	h.Push("")

	if len(h.entries) != 1 {
		t.Fatalf("entries = %v, want only the touch", h.entries)
	}
	if prev, _ := h.Prev(); prev != "touch lamp" {
		t.Errorf("Prev = %q", prev)
	}
}
