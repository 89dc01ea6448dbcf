package datepicker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/widgets/pkg/calendar"
	"tableflip.dev/widgets/pkg/keynav"
)

// View renders the input and, while open, the calendar.
func (m *Model) View() string {
	lines := []string{m.renderInput()}
	if m.open.IsOpen() {
		lines = append(lines, m.renderCalendar())
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderInput() string {
	style := m.theme.Input.Frame
	if m.focused {
		style = m.theme.Input.Focused
	}
	if m.invalid {
		style = style.Inherit(m.theme.Input.Invalid)
	}
	return style.Render(m.input.View() + " " + m.theme.Input.Caret.Render("▦"))
}

func (m *Model) renderCalendar() string {
	t := m.theme.DatePicker
	lines := []string{m.renderHeader()}
	if m.view == ViewYear {
		lines = append(lines, m.renderYear()...)
	} else {
		lines = append(lines, m.renderMonth()...)
	}

	today := m.todayLabel()
	style := t.Footer
	if m.focusedOn(keynav.RegionFooter, -1) {
		style = style.Inherit(t.Focused)
	}
	lines = append(lines, style.Render(today))
	return t.Frame.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHeader() string {
	t := m.theme.DatePicker
	label := m.headerLabel()
	style := t.Header
	if m.focusedOn(keynav.RegionHeader, -1) {
		style = style.Inherit(t.Focused)
	}
	return t.Control.Render("‹") + " " + style.Render(label) + " " + t.Control.Render("›")
}

func (m *Model) headerLabel() string {
	if m.view == ViewYear {
		return fmt.Sprintf("%d", m.reference.Year)
	}
	return m.format.MonthYear(m.reference)
}

func (m *Model) todayLabel() string {
	return "Today: " + m.format.Long(m.Today())
}

func (m *Model) renderMonth() []string {
	t := m.theme.DatePicker
	names := make([]string, 0, len(weekdays))
	for _, wd := range weekdays {
		names = append(names, fmt.Sprintf("%-2s", m.format.Weekday(wd)))
	}
	lines := []string{t.Weekday.Render(strings.Join(names, " "))}

	cells := m.Cells()
	for row := 0; row < calendar.MonthRows; row++ {
		out := make([]string, 0, calendar.MonthColumns)
		for col := 0; col < calendar.MonthColumns; col++ {
			idx := row*calendar.MonthColumns + col
			out = append(out, m.renderCell(cells[idx], idx, fmt.Sprintf("%2d", cells[idx].Date.Day)))
		}
		lines = append(lines, strings.Join(out, " "))
	}
	return lines
}

func (m *Model) renderYear() []string {
	cells := m.Cells()
	lines := make([]string, 0, calendar.YearRows)
	for row := 0; row < calendar.YearRows; row++ {
		out := make([]string, 0, calendar.YearColumns)
		for col := 0; col < calendar.YearColumns; col++ {
			idx := row*calendar.YearColumns + col
			out = append(out, m.renderCell(cells[idx], idx, fmt.Sprintf("%-4s", m.format.Month(cells[idx].Date))))
		}
		lines = append(lines, strings.Join(out, " "))
	}
	return lines
}

func (m *Model) renderCell(c calendar.Cell, idx int, text string) string {
	t := m.theme.DatePicker
	style := t.Overflow
	if c.InCurrentMonth {
		style = t.Day
	}
	if c.IsToday {
		style = style.Inherit(t.Today)
	}
	if c.IsSelected {
		style = style.Inherit(t.Selected)
	}
	if m.focusedOn(keynav.RegionGrid, idx) {
		style = style.Inherit(t.Focused)
	}
	return style.Render(text)
}

func (m *Model) focusedOn(region keynav.Region, idx int) bool {
	if m.onInput || !m.focused || m.focus.Region != region {
		return false
	}
	return region != keynav.RegionGrid || m.focus.Index == idx
}

// ClickAt handles a mouse click at column x, row y of View. Clicks on the
// input behave like Click; clicks on the calendar page, toggle the view,
// activate a cell or commit today.
func (m *Model) ClickAt(x, y int) tea.Cmd {
	inputRows := lipgloss.Height(m.renderInput())
	if y < inputRows || !m.open.IsOpen() {
		return m.Click()
	}
	top, left := frameOffset(m.theme.DatePicker.Frame)
	row, col := y-inputRows-top, x-left
	if row < 0 || col < 0 {
		return nil
	}

	// Month view has a weekday row above the grid.
	first, rows, cols, cellWidth := 2, calendar.MonthRows, calendar.MonthColumns, 2
	if m.view == ViewYear {
		first, rows, cols, cellWidth = 1, calendar.YearRows, calendar.YearColumns, 4
	}
	switch {
	case row == 0:
		return m.clickHeader(col)
	case row == first+rows:
		if col < lipgloss.Width(m.todayLabel()) {
			return m.CommitToday()
		}
	case row >= first && row < first+rows:
		if col%(cellWidth+1) == cellWidth {
			return nil
		}
		if c := col / (cellWidth + 1); c < cols {
			return m.ActivateCell((row-first)*cols + c)
		}
	}
	return nil
}

func (m *Model) clickHeader(col int) tea.Cmd {
	t := m.theme.DatePicker
	prev := lipgloss.Width(t.Control.Render("‹"))
	label := lipgloss.Width(t.Header.Render(m.headerLabel()))
	next := lipgloss.Width(t.Control.Render("›"))
	switch {
	case col < prev:
		return m.Page(-1)
	case col > prev && col <= prev+label:
		return m.Toggle()
	case col >= prev+label+2 && col < prev+label+2+next:
		return m.Page(1)
	}
	return nil
}

func frameOffset(s lipgloss.Style) (top, left int) {
	top = s.GetMarginTop() + s.GetBorderTopSize() + s.GetPaddingTop()
	left = s.GetMarginLeft() + s.GetBorderLeftSize() + s.GetPaddingLeft()
	return top, left
}
