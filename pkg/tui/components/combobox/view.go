package combobox

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
)

// View renders the input and, while open, the visible items.
func (m *Model) View() string {
	lines := []string{m.renderInput()}
	if m.open.IsOpen() {
		lines = append(lines, m.renderMenu())
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderInput() string {
	style := m.theme.Input.Frame
	if m.focused {
		style = m.theme.Input.Focused
	}
	body := m.input.View()
	caret := "▾"
	if m.open.IsOpen() {
		caret = "▴"
	}
	if m.loading {
		caret = m.theme.Input.Loading.Render("…")
	} else {
		caret = m.theme.Input.Caret.Render(caret)
	}
	return style.Render(body + " " + caret)
}

func (m *Model) renderMenu() string {
	visible := m.state.Visible()
	if len(visible) == 0 {
		return m.theme.Combobox.Frame.Render(m.theme.Combobox.Empty.Render("No matches"))
	}

	start, end := m.window(len(visible))
	labelWidth := m.width - 6
	active, hasActive := m.state.Active()

	rows := make([]string, 0, end-start)
	for _, it := range visible[start:end] {
		label := it.Label
		if labelWidth > 0 {
			label = truncate.StringWithTail(label, uint(labelWidth), "…")
		}
		marker := "  "
		style := m.theme.Combobox.Item
		if hasActive && it.Key == active {
			marker = "✓ "
			style = m.theme.Combobox.Active
		}
		if !m.focus.Input && it.Key == m.focus.Key {
			style = style.Inherit(m.theme.Combobox.Focused)
		}
		rows = append(rows, marker+style.Render(label))
	}
	return m.theme.Combobox.Frame.Render(strings.Join(rows, "\n"))
}

// window returns the range of visible items shown in the menu.
func (m *Model) window(total int) (start, end int) {
	limit := m.effectiveLimit(total)
	start = m.windowStart
	if start > total-limit {
		start = total - limit
	}
	if start < 0 {
		start = 0
	}
	end = start + limit
	if end > total {
		end = total
	}
	return start, end
}

// ClickAt handles a mouse click at column x, row y of View. A click on a
// menu row commits that item; a click on the input behaves like Click.
func (m *Model) ClickAt(x, y int) tea.Cmd {
	inputRows := lipgloss.Height(m.renderInput())
	if y < inputRows || !m.open.IsOpen() {
		return m.Click()
	}
	frame := m.theme.Combobox.Frame
	row := y - inputRows - frame.GetMarginTop() - frame.GetBorderTopSize() - frame.GetPaddingTop()
	if row < 0 || x < 0 {
		return nil
	}
	visible := m.state.Visible()
	start, end := m.window(len(visible))
	if start+row >= end {
		return nil
	}
	return m.ActivateItem(visible[start+row].Key)
}

func (m *Model) effectiveLimit(total int) int {
	limit := m.maxVisible
	if limit <= 0 || limit > total {
		limit = total
	}
	if m.height > 0 {
		// Leave room for the input and the menu frame.
		if rows := m.height - 5; rows < limit {
			limit = max(1, rows)
		}
	}
	return limit
}

// updateWindow scrolls the menu so the focused item stays in view.
func (m *Model) updateWindow() {
	visible := m.state.Visible()
	total := len(visible)
	if total == 0 {
		m.windowStart = 0
		return
	}
	limit := m.effectiveLimit(total)
	if m.windowStart > total-limit {
		m.windowStart = total - limit
	}
	if m.windowStart < 0 {
		m.windowStart = 0
	}
	if m.focus.Input {
		return
	}
	idx := -1
	for i, it := range visible {
		if it.Key == m.focus.Key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	if idx < m.windowStart {
		m.windowStart = idx
	} else if idx >= m.windowStart+limit {
		m.windowStart = idx - limit + 1
	}
}
