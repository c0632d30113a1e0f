// Package cli provides the line-oriented simulator for rulekit scripts:
// terminal I/O, output formatting, and meta-command dispatch.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/nathoo/rulekit/engine"
)

// CLI handles plain terminal interaction.
type CLI struct {
	Sim       *Sim
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Sim: NewSim(eng),
		In:  os.Stdin,
		Out: os.Stdout,
	}
}

// Run prints the script summary, then loops: prompt → input → execute → output.
func (c *CLI) Run() {
	for _, line := range Banner(c.Sim.Engine) {
		c.printLine(line)
	}
	c.printLine("")

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()
		if c.EchoInput {
			c.printLine(input)
		}

		out, quit := c.Sim.Exec(input)
		for _, l := range out {
			c.printOutput(l)
		}
		if quit {
			return
		}
	}
}

// Banner summarizes the loaded script.
func Banner(eng *engine.Engine) []string {
	g := eng.Script
	lines := []string{
		fmt.Sprintf("rulekit script v%s: %d rules, %d flags, %d counters",
			g.Version, len(g.Rules), len(g.Flags), len(g.Counters)),
	}
	if limit := g.InitialState.GameState.TimeLimit; limit > 0 {
		lines = append(lines, fmt.Sprintf("Time limit: %gs", limit))
	}
	lines = append(lines, "Type /help for commands.")
	return lines
}

func (c *CLI) printOutput(l Line) {
	switch l.Kind {
	case KindSystem, KindError:
		c.printSystem(l.Text)
	default:
		c.printLine(l.Text)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
