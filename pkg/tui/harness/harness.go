// Package harness hosts a single widget full screen above an event log. It
// backs the interactive CLI commands.
package harness

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/widgets/pkg/tui/components/eventviewer"
	"tableflip.dev/widgets/pkg/tui/events"
	"tableflip.dev/widgets/pkg/tui/registry"
	"tableflip.dev/widgets/pkg/tui/theme"
)

// Widget is a component the harness can host.
type Widget interface {
	ID() events.ComponentID
	Update(tea.Msg) (tea.Model, tea.Cmd)
	View() string
	SetSize(width, height int)
	Focus() tea.Cmd
	// ClickAt handles a click at column x, row y of the widget's View.
	ClickAt(x, y int) tea.Cmd
}

// Options configures the harness.
type Options struct {
	Title    string
	Registry *registry.Registry
	Theme    theme.Theme
	// Start is run with Init, typically the command returned by Mount.
	Start tea.Cmd
	// QuitOnCommit ends the program after the first commit.
	QuitOnCommit bool
	// ShowEvents adds the event log below the widget.
	ShowEvents bool
}

// Model is the harness program model.
type Model struct {
	widget   Widget
	registry *registry.Registry
	theme    theme.Theme
	title    string
	start    tea.Cmd
	quit     bool

	events *eventviewer.Model

	termWidth   int
	termHeight  int
	eventHeight int
	titleRows   int
	widgetRows  int

	result    string
	committed bool
}

// New wraps w.
func New(w Widget, opts Options) *Model {
	reg := opts.Registry
	if reg == nil {
		reg = registry.Default()
	}
	m := &Model{
		widget:   w,
		registry: reg,
		theme:    opts.Theme,
		title:    opts.Title,
		start:    opts.Start,
		quit:     opts.QuitOnCommit,
	}
	if opts.ShowEvents {
		m.events = eventviewer.NewModel(400)
	}
	return m
}

// Init focuses the widget and runs the start command.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.start, events.FocusCmd(m.widget.ID()))
}

// Update routes msg to the widget and the event log.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.events != nil {
		m.events.Record(msg)
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.layout()
		return m, nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+o":
			return m, m.registry.DispatchOutside("")
		case "ctrl+u", "ctrl+d":
			if m.events != nil {
				_, cmd := m.events.Update(msg)
				return m, cmd
			}
		}
	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if mouse.Y >= m.titleRows && mouse.Y < m.widgetRows {
			cmds = append(cmds, m.widget.ClickAt(mouse.X, mouse.Y-m.titleRows), m.registry.DispatchOutside(m.widget.ID()))
		} else {
			cmds = append(cmds, m.registry.DispatchOutside(""))
		}
		return m, tea.Batch(cmds...)
	case events.ItemCommitMsg:
		m.result, m.committed = msg.Item.Key, true
		if m.quit {
			return m, tea.Quit
		}
	case events.DateCommitMsg:
		m.result, m.committed = msg.Date.String(), true
		if m.quit {
			return m, tea.Quit
		}
	}

	_, cmd := m.widget.Update(msg)
	return m, cmd
}

// Result returns the last committed value.
func (m *Model) Result() (string, bool) { return m.result, m.committed }

// View renders the widget above the event log.
func (m *Model) View() (string, *tea.Cursor) {
	if m.termWidth == 0 || m.termHeight == 0 {
		return "Resizing…", nil
	}
	parts := []string{}
	m.titleRows = 0
	if m.title != "" {
		title := m.theme.Panel.Title.Render(m.title)
		m.titleRows = lipgloss.Height(title)
		parts = append(parts, title)
	}
	parts = append(parts, m.widget.View())
	body := lipgloss.JoinVertical(lipgloss.Left, parts...)
	m.widgetRows = strings.Count(body, "\n") + 1

	height := max(1, m.termHeight-m.eventHeight)
	view := lipgloss.NewStyle().
		Width(m.termWidth).
		Height(height).
		MaxHeight(height).
		Align(lipgloss.Left, lipgloss.Top).
		Render(body)
	if m.events != nil && m.eventHeight > 0 {
		view = lipgloss.JoinVertical(lipgloss.Left, view, m.events.View())
	}
	return view, nil
}

func (m *Model) layout() {
	m.eventHeight = m.computeEventHeight()
	m.widget.SetSize(max(1, m.termWidth), max(1, m.termHeight-m.eventHeight-1))
	if m.events != nil && m.eventHeight > 0 {
		m.events.SetSize(m.termWidth, m.eventHeight)
	}
}

func (m *Model) computeEventHeight() int {
	if m.events == nil {
		return 0
	}
	maxAvailable := m.termHeight - minWidgetHeight
	if maxAvailable < minEventHeight {
		return 0
	}
	desired := clamp(m.termHeight/4, minEventHeight, maxEventHeight)
	if desired > maxAvailable {
		desired = maxAvailable
	}
	return desired
}

func clamp(value, lo, hi int) int {
	if hi <= 0 {
		return lo
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

const (
	minWidgetHeight = 12
	minEventHeight  = 5
	maxEventHeight  = 12
)
