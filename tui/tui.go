package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/rulekit/cli"
	"github.com/nathoo/rulekit/engine"
)

// rawLine is one unstyled log line. Lines are kept raw so the log can be
// re-wrapped when the terminal is resized.
type rawLine struct {
	text    string
	kind    cli.LineKind
	isInput bool
}

// keyMap lists the bindings the model reacts to. Up and down belong to
// input history, so the viewport only scrolls by page.
type keyMap struct {
	Quit   key.Binding
	Submit key.Binding
	Older  key.Binding
	Newer  key.Binding
	Scroll key.Binding
}

var keys = keyMap{
	Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
	Submit: key.NewBinding(key.WithKeys("enter")),
	Older:  key.NewBinding(key.WithKeys("up")),
	Newer:  key.NewBinding(key.WithKeys("down")),
	Scroll: key.NewBinding(key.WithKeys("pgup", "pgdown", "ctrl+u", "ctrl+d")),
}

// Model is the Bubble Tea model for the rulekit simulator.
type Model struct {
	sim *cli.Sim

	viewport viewport.Model
	input    textinput.Model
	history  *History
	rawLines []rawLine

	width    int
	height   int
	ready    bool
	quitting bool
}

// simOutputMsg delivers simulator output to Update. input is the echoed
// command, empty for the banner.
type simOutputMsg struct {
	input string
	lines []cli.Line
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.CharLimit = 256
	ti.Focus()

	return Model{
		sim:     cli.NewSim(eng),
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine) error {
	p := tea.NewProgram(New(eng), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init prints the script banner and starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	banner := cli.Banner(m.sim.Engine)
	return func() tea.Msg {
		lines := make([]cli.Line, len(banner))
		for i, text := range banner {
			lines[i] = cli.Line{Text: text, Kind: cli.KindSystem}
		}
		return simOutputMsg{lines: lines}
	}
}

// Update handles key presses, resizes and simulator output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	case simOutputMsg:
		m = m.appendOutput(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize fits the log to the window, leaving a row each for the status
// bar and the prompt.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	logHeight := max(height-2, 1)

	if m.ready {
		m.viewport.Width = width
		m.viewport.Height = logHeight
	} else {
		m.viewport = viewport.New(width, logHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	}
	m.refreshViewport()
}

// handleKey reports handled=false for keys that belong to the text input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit, true

	case key.Matches(msg, keys.Submit):
		next, cmd := m.handleEnter()
		return next, cmd, true

	case key.Matches(msg, keys.Older):
		if prev, ok := m.history.Prev(); ok {
			m.input.SetValue(prev)
			m.input.CursorEnd()
		}
		return m, nil, true

	case key.Matches(msg, keys.Newer):
		next, ok := m.history.Next()
		if !ok {
			m.history.ResetCursor()
		}
		m.input.SetValue(next)
		m.input.CursorEnd()
		return m, nil, true

	case key.Matches(msg, keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, true
	}
	return m, nil, false
}

// handleEnter runs the submitted line through the simulator.
func (m Model) handleEnter() (Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	lines, quit := m.sim.Exec(input)
	m = m.appendOutput(simOutputMsg{input: input, lines: lines})
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// appendOutput logs one command's output followed by a blank separator.
func (m Model) appendOutput(msg simOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: msg.input, isInput: true})
	}
	for _, l := range msg.lines {
		m.rawLines = append(m.rawLines, rawLine{text: l.Text, kind: l.Kind})
	}
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()
	return m
}

// refreshViewport re-renders the whole log at the current width and
// scrolls to the newest line.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := max(m.width, 10)

	rendered := make([]string, len(m.rawLines))
	for i, rl := range m.rawLines {
		switch {
		case rl.text == "":
		case rl.isInput:
			rendered[i] = styledInput(wordWrap(rl.text, width))
		default:
			rendered[i] = renderLine(wordWrap(rl.text, width), rl.kind)
		}
	}

	m.viewport.SetContent(strings.Join(rendered, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap breaks text at spaces so no line exceeds width cells. A word
// wider than width gets a line of its own.
func wordWrap(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}

	var lines, cur []string
	curWidth := 0
	for _, word := range strings.Fields(text) {
		w := lipgloss.Width(word)
		if len(cur) > 0 && curWidth+1+w > width {
			lines = append(lines, strings.Join(cur, " "))
			cur, curWidth = nil, 0
		}
		if len(cur) > 0 {
			curWidth++
		}
		cur = append(cur, word)
		curWidth += w
	}
	if len(cur) > 0 {
		lines = append(lines, strings.Join(cur, " "))
	}
	return strings.Join(lines, "\n")
}

// View renders the log, the status bar and the prompt.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.renderStatusBar(), m.input.View())
}

// viewportKeyMap keeps paging and disables line-wise scrolling.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
