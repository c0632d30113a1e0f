package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/rulekit/cli"
	"github.com/nathoo/rulekit/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleEvent = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleInput = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	styleFailure = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160")).
			Bold(true)

	stylePaused = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))
)

// renderLine applies the style for a line kind.
func renderLine(line string, kind cli.LineKind) string {
	switch kind {
	case cli.KindSystem:
		return styledSystemMsg(line)
	case cli.KindError:
		return styleError.Render(line)
	case cli.KindTrace:
		return styleTrace.Render(line)
	case cli.KindOutcome:
		return styleSuccess.Render(line)
	default:
		return styleEvent.Render(line)
	}
}

// styledInput renders the echoed input in green with "> " prefix.
func styledInput(input string) string {
	return styleInput.Render("> " + input)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}

// styledOutcome colors the play state shown in the status bar.
func styledOutcome(gs types.GameStateName) string {
	switch gs {
	case types.GameSuccess:
		return styleSuccess.Render(string(gs))
	case types.GameFailure:
		return styleFailure.Render(string(gs))
	case types.GamePaused:
		return stylePaused.Render(string(gs))
	default:
		return string(gs)
	}
}
