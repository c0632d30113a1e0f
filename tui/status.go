package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// statusCounters renders counters as "name=value" sorted by name.
func statusCounters(counters map[string]int) string {
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, counters[name]))
	}
	return strings.Join(parts, " ")
}

// renderStatusBar produces a full-width inverted status line showing
// play state, elapsed time and tick, plus counters when they fit.
func (m Model) renderStatusBar() string {
	s := m.sim.Engine.State

	left := fmt.Sprintf(" %s | %.1fs", styledOutcome(s.GameState), float64(s.ElapsedMS)/1000)
	if limit := m.sim.Engine.Script.InitialState.GameState.TimeLimit; limit > 0 {
		left += fmt.Sprintf("/%gs", limit)
	}
	if q := m.sim.Queued(); q > 0 {
		left += fmt.Sprintf(" | queued: %d", q)
	}
	right := fmt.Sprintf("T:%d ", s.Tick)

	if len(s.Counters) > 0 {
		candidate := fmt.Sprintf("%s | T:%d ", statusCounters(s.Counters), s.Tick)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
