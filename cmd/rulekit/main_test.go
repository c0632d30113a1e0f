package main

import (
	"errors"
	"testing"
)

func TestParseArgs(t *testing.T) {
	o, err := parseArgs([]string{"--trace", "--seed", "42", "scripts/lamp", "--plain", "--script", "cmds.txt"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if o.path != "scripts/lamp" || o.commandFile != "cmds.txt" || !o.trace || !o.plain {
		t.Errorf("options = %+v", o)
	}
	if o.seed == nil || *o.seed != 42 {
		t.Errorf("seed = %v, want 42", o.seed)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--seed"}, "--seed needs a value"},
		{[]string{"--script"}, "--script needs a value"},
		{[]string{"--seed", "x", "dir"}, `invalid --seed "x"`},
	}
	for _, tt := range tests {
		_, err := parseArgs(tt.args)
		if err == nil || err.Error() != tt.want {
			t.Errorf("parseArgs(%v) error = %v, want %q", tt.args, err, tt.want)
		}
	}

	if _, err := parseArgs(nil); !errors.Is(err, errUsage) {
		t.Errorf("no script: error = %v, want usage", err)
	}
	if o, err := parseArgs([]string{"--version"}); err != nil || !o.version {
		t.Errorf("--version alone: %+v, %v", o, err)
	}
}
