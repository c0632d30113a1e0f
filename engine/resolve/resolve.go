// Package resolve maps object, flag and counter references typed at the
// simulator prompt to the ids a script uses.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/rulekit/engine/parser"
	"github.com/nathoo/rulekit/types"
)

// AmbiguityError indicates multiple script entries matched a reference.
type AmbiguityError struct {
	Kind       string
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("which %s %q? (%s)", e.Kind, e.Name, strings.Join(e.Candidates, ", "))
}

// NotFoundError indicates nothing in the script matched a reference.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// candidate is one addressable entry: the id we resolve to plus the
// other spellings it answers to.
type candidate struct {
	id    string
	names []string
}

// Command rewrites the references in cmd to canonical ids in place.
func Command(g *types.GameScript, cmd *parser.Command) error {
	var err error
	switch cmd.Verb {
	case "touch":
		cmd.Touch.ObjectID, err = Object(g, cmd.Touch.ObjectID)
	case "collide":
		if cmd.Collision.ObjectA, err = Object(g, cmd.Collision.ObjectA); err != nil {
			return err
		}
		cmd.Collision.ObjectB, err = Object(g, cmd.Collision.ObjectB)
	case "anim":
		cmd.Animation.ObjectID, err = Object(g, cmd.Animation.ObjectID)
	case "pos":
		cmd.ObjectID, err = Object(g, cmd.ObjectID)
	case "flag":
		cmd.Name, err = Flag(g, cmd.Name)
	case "counter":
		cmd.Name, err = Counter(g, cmd.Name)
	}
	return err
}

// Object resolves a placed object or text id. "stage" passes through.
func Object(g *types.GameScript, name string) (string, error) {
	if name == types.TargetStage {
		return name, nil
	}
	var cands []candidate
	for _, o := range g.InitialState.Layout.Objects {
		cands = append(cands, candidate{id: o.ObjectID})
	}
	for _, t := range g.InitialState.Layout.Texts {
		cands = append(cands, candidate{id: t.TextID})
	}
	return match("object", name, cands)
}

// Flag resolves a flag by id or display name to its id.
func Flag(g *types.GameScript, name string) (string, error) {
	cands := make([]candidate, 0, len(g.Flags))
	for _, f := range g.Flags {
		cands = append(cands, candidate{id: f.ID, names: []string{f.Name}})
	}
	return match("flag", name, cands)
}

// Counter resolves a counter by name or id to its name, which is how
// runtime state keys counters.
func Counter(g *types.GameScript, name string) (string, error) {
	cands := make([]candidate, 0, len(g.Counters))
	for _, c := range g.Counters {
		cands = append(cands, candidate{id: c.Name, names: []string{c.ID}})
	}
	return match("counter", name, cands)
}

// match tries an exact id, then a case-insensitive spelling, then a
// single word of a multi-word name ("lamp" finds "lamp_on").
func match(kind, name string, cands []candidate) (string, error) {
	for _, c := range cands {
		if c.id == name {
			return c.id, nil
		}
	}

	query := normalize(name)
	matches := collect(cands, func(spelling string) bool {
		return normalize(spelling) == query
	})
	if len(matches) == 0 {
		matches = collect(cands, func(spelling string) bool {
			for _, word := range strings.Split(normalize(spelling), "_") {
				if word == query {
					return true
				}
			}
			return false
		})
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Kind: kind, Name: name}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguityError{Kind: kind, Name: name, Candidates: matches}
	}
}

// collect returns the ids of candidates with any spelling accepted by ok.
func collect(cands []candidate, ok func(string) bool) []string {
	var out []string
	for _, c := range cands {
		if ok(c.id) {
			out = append(out, c.id)
			continue
		}
		for _, n := range c.names {
			if n != "" && ok(n) {
				out = append(out, c.id)
				break
			}
		}
	}
	return out
}

// normalize lower-cases and treats '-' and ' ' like '_'.
func normalize(s string) string {
	return strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(s))
}
