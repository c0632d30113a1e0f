package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/rulekit/editor"
	"github.com/nathoo/rulekit/types"
)

func TestLoad_MinimalScript(t *testing.T) {
	g, err := Load("testdata/minimal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if g.Version != "1.0" {
		t.Errorf("Version = %q, want 1.0", g.Version)
	}
	if len(g.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(g.Rules))
	}
	r := g.Rules[0]
	if r.ID != "tap" || r.Name != "Tap to win" || !r.Enabled {
		t.Errorf("rule = %+v", r)
	}
	if _, ok := r.Actions[0].Action.(types.SuccessAction); !ok {
		t.Errorf("action = %T, want SuccessAction", r.Actions[0].Action)
	}
}

func TestLoad_FullScript(t *testing.T) {
	g, err := Load("testdata/full")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if g.InitialState.GameState.TimeLimit != 20 {
		t.Errorf("TimeLimit = %v", g.InitialState.GameState.TimeLimit)
	}
	if len(g.InitialState.Layout.Objects) != 3 {
		t.Errorf("expected 3 objects, got %d", len(g.InitialState.Layout.Objects))
	}
	if len(g.Flags) != 2 || len(g.Counters) != 2 {
		t.Errorf("flags = %d, counters = %d", len(g.Flags), len(g.Counters))
	}

	// script.lua runs first, then rules.lua.
	wantOrder := []string{"collect_coin", "pick_key", "open_door", "bonus"}
	if len(g.Rules) != len(wantOrder) {
		t.Fatalf("expected %d rules, got %d", len(wantOrder), len(g.Rules))
	}
	for i, id := range wantOrder {
		if g.Rules[i].ID != id {
			t.Errorf("rule %d = %q, want %q", i, g.Rules[i].ID, id)
		}
	}

	bonus := g.Rules[3].Actions[0].Action.(types.RandomAction)
	if bonus.SelectionMode != types.SelectWeighted {
		t.Errorf("bonus mode = %q, want weighted default", bonus.SelectionMode)
	}
	if len(g.SuccessConditions) != 1 || g.SuccessConditions[0].Message != "You escaped!" {
		t.Errorf("success conditions = %+v", g.SuccessConditions)
	}
	if g.Statistics.TotalRules != 4 {
		t.Errorf("statistics = %+v", g.Statistics)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	_, err := Load("testdata/invalid")
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve *editor.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %T, want *editor.ValidationError", err)
	}
	joined := strings.Join(ve.Errors, "\n")
	if !strings.Contains(joined, `duplicate counter name "score"`) {
		t.Errorf("missing duplicate counter error in %v", ve.Errors)
	}
	if !strings.Contains(joined, "rule needs at least one action") {
		t.Errorf("missing empty action error in %v", ve.Errors)
	}
}

func TestLoad_SyntaxError(t *testing.T) {
	_, err := Load("testdata/syntax")
	if err == nil || !strings.Contains(err.Error(), "running script.lua") {
		t.Errorf("err = %v, want execution error", err)
	}
}

func TestLoad_MissingDir(t *testing.T) {
	if _, err := Load("testdata/nope"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLoad_NoLuaFiles(t *testing.T) {
	_, err := Load("testdata/json")
	if err == nil || !strings.Contains(err.Error(), "no .lua files") {
		t.Errorf("err = %v, want no .lua files", err)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		path  string
		rules int
	}{
		{"testdata/minimal", 1},
		{"testdata/minimal/script.lua", 1},
		{"testdata/json/game.json", 1},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			g, err := Open(tt.path)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if len(g.Rules) != tt.rules {
				t.Errorf("rules = %d, want %d", len(g.Rules), tt.rules)
			}
		})
	}
}

func TestLoadJSON_ResolvesDefaults(t *testing.T) {
	g, err := LoadJSON("testdata/json/game.json")
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	r := g.Rules[0]
	if r.Triggers.Operator != types.OperatorAnd {
		t.Errorf("operator = %q, want AND", r.Triggers.Operator)
	}
	snd, ok := r.Actions[1].Action.(types.PlaySoundAction)
	if !ok || snd.Volume != types.DefaultVolume {
		t.Errorf("sound = %+v", r.Actions[1].Action)
	}
	if g.LastModified != "2026-01-01T00:00:00Z" {
		t.Errorf("LastModified = %q", g.LastModified)
	}
}

func TestOpen_Unsupported(t *testing.T) {
	if _, err := Open("loader.go"); err == nil {
		t.Error("expected error for unsupported file")
	}
}
