// rulekit steps a game script tick by tick from the terminal.
// Usage: rulekit [--version] [--plain] [--script <file>] [--trace] [--seed <n>] <script_dir|script.lua|script.json>
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"

	"github.com/nathoo/rulekit/cli"
	"github.com/nathoo/rulekit/engine"
	"github.com/nathoo/rulekit/internal/config"
	"github.com/nathoo/rulekit/internal/logger"
	"github.com/nathoo/rulekit/loader"
	"github.com/nathoo/rulekit/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: rulekit [--version] [--plain] [--script <file>] [--trace] [--seed <n>] <script_dir|script.lua|script.json>"

var errUsage = errors.New(usage)

type options struct {
	path        string
	commandFile string
	plain       bool
	trace       bool
	version     bool
	seed        *int64
}

// parseArgs reads flags in any order; the first bare argument is the script.
func parseArgs(args []string) (options, error) {
	var o options
	value := func(i int, flag string) (string, error) {
		if i >= len(args) {
			return "", fmt.Errorf("%s needs a value", flag)
		}
		return args[i], nil
	}

	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--version":
			o.version = true
		case "--plain":
			o.plain = true
		case "--trace":
			o.trace = true
		case "--script":
			i++
			v, err := value(i, arg)
			if err != nil {
				return o, err
			}
			o.commandFile = v
		case "--seed":
			i++
			v, err := value(i, arg)
			if err != nil {
				return o, err
			}
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return o, fmt.Errorf("invalid --seed %q", v)
			}
			o.seed = &n
		default:
			if o.path == "" {
				o.path = arg
			}
		}
	}
	if o.path == "" && !o.version {
		return o, errUsage
	}
	return o, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if opts.version {
		fmt.Printf("rulekit %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// stdout belongs to the simulator.
	slog.SetDefault(logger.New(os.Stderr, config.Load()))

	script, err := loader.Open(opts.path)
	if err != nil {
		return fmt.Errorf("loading script: %w", err)
	}

	var eng *engine.Engine
	if opts.seed != nil {
		eng = engine.NewSeeded(script, *opts.seed)
	} else {
		eng = engine.New(script)
	}

	switch {
	case opts.commandFile != "":
		f, err := os.Open(opts.commandFile)
		if err != nil {
			return fmt.Errorf("opening command file: %w", err)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Sim.Trace = opts.trace
		c.Run()
		return nil

	case opts.plain || !isatty.IsTerminal(os.Stdout.Fd()):
		c := cli.New(eng)
		c.Sim.Trace = opts.trace
		c.Run()
		return nil
	}
	return tui.Run(eng)
}
