// Package tui provides a Bubble Tea terminal UI for the rulekit simulator.
package tui

import "strings"

// History keeps recently submitted commands for up/down recall.
// Repeat commands ("again", "g") are not recorded: recalling the command
// they repeated is more useful than recalling the alias.
type History struct {
	entries []string
	limit   int
	back    int // 0 = editing fresh input, n = n entries back from newest
}

// NewHistory creates a history that keeps at most limit entries.
func NewHistory(limit int) *History {
	return &History{entries: make([]string, 0, limit), limit: limit}
}

// Push records a command. Repeats and consecutive duplicates are skipped.
func (h *History) Push(cmd string) {
	switch strings.ToLower(strings.TrimSpace(cmd)) {
	case "", "again", "g":
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	if h.limit > 0 && len(h.entries) == h.limit {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, cmd)
}

// Prev steps to an older entry, stopping at the oldest.
// Returns ("", false) if history is empty.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.back < len(h.entries) {
		h.back++
	}
	return h.entries[len(h.entries)-h.back], true
}

// Next steps to a newer entry. Returns ("", false) once it moves past the
// newest entry back to fresh input.
func (h *History) Next() (string, bool) {
	if h.back <= 1 {
		h.back = 0
		return "", false
	}
	h.back--
	return h.entries[len(h.entries)-h.back], true
}

// ResetCursor returns to fresh input.
func (h *History) ResetCursor() {
	h.back = 0
}
