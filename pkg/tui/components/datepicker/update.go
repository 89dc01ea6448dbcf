package datepicker

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/widgets/pkg/calendar"
	"tableflip.dev/widgets/pkg/keynav"
	"tableflip.dev/widgets/pkg/selection"
	"tableflip.dev/widgets/pkg/tui/events"
)

// Update routes messages to the input and the calendar.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case events.FocusMsg:
		if msg.Component == m.id {
			cmd = m.Focus()
		}
	case events.BlurMsg:
		if msg.Component == m.id {
			m.Blur()
		}
	case tea.KeyPressMsg:
		if m.focused {
			cmd = m.handleKey(msg)
		}
	}
	return m, cmd
}

// Focus gives the widget keyboard focus and opens the calendar.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	m.onInput = true
	return tea.Batch(m.input.Focus(), m.openCmd())
}

// Blur drops keyboard focus.
func (m *Model) Blur() {
	m.focused = false
	m.onInput = true
	m.input.Blur()
}

// Click handles a pointer press on the input.
func (m *Model) Click() tea.Cmd {
	if m.focused {
		return m.openCmd()
	}
	return m.Focus()
}

// HandleOutsideInteraction closes the calendar after an interaction
// elsewhere.
func (m *Model) HandleOutsideInteraction() tea.Cmd {
	return m.close(selection.CloseOutside)
}

// Page moves the reference date by delta months in month view or delta
// years in year view. View, focus and selection are unchanged.
func (m *Model) Page(delta int) tea.Cmd {
	if m.view == ViewYear {
		m.reference = calendar.AddYears(m.reference, delta)
	} else {
		m.reference = calendar.AddMonths(m.reference, delta)
	}
	return m.referenceChanged()
}

// Toggle switches between month view and year view.
func (m *Model) Toggle() tea.Cmd {
	if m.view == ViewMonth {
		m.view = ViewYear
	} else {
		m.view = ViewMonth
	}
	if !m.onInput && !m.grid().Contains(m.focus) {
		m.focus = keynav.Cell(0)
	}
	return m.referenceChanged()
}

// ActivateCell acts on cell idx of the current view as if it were clicked.
func (m *Model) ActivateCell(idx int) tea.Cmd {
	cells := m.Cells()
	if idx < 0 || idx >= len(cells) {
		return nil
	}
	if m.view == ViewYear {
		return m.pickMonth(cells[idx].Date)
	}
	return m.commit(cells[idx].Date)
}

// CommitToday commits the current date.
func (m *Model) CommitToday() tea.Cmd {
	return m.commit(m.Today())
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	intent := m.keymap.Resolve(msg.String())
	switch intent {
	case keynav.IntentPagePrev:
		return m.Page(-1)
	case keynav.IntentPageNext:
		return m.Page(1)
	}
	if m.onInput {
		return m.handleInputKey(msg, intent)
	}
	return m.handleCalendarKey(msg, intent)
}

func (m *Model) handleInputKey(msg tea.KeyPressMsg, intent keynav.Intent) tea.Cmd {
	switch intent {
	case keynav.IntentEscape:
		cmd := m.close(selection.CloseEscape)
		m.Blur()
		return tea.Batch(cmd, events.BlurCmd(m.id))
	case keynav.IntentTab, keynav.IntentBackTab:
		return m.close(selection.CloseTab)
	case keynav.IntentDown:
		open := m.openCmd()
		m.onInput = false
		m.focus = m.entryFocus()
		return open
	case keynav.IntentUp:
		return nil
	case keynav.IntentActivate:
		if msg.String() == "enter" {
			if d, err := calendar.ParseDate(m.input.Value()); err == nil {
				return m.commit(d)
			}
			return nil
		}
	}
	return m.typeInto(msg)
}

func (m *Model) handleCalendarKey(msg tea.KeyPressMsg, intent keynav.Intent) tea.Cmd {
	switch intent {
	case keynav.IntentEscape:
		m.onInput = true
		return m.close(selection.CloseEscape)
	case keynav.IntentTab, keynav.IntentBackTab:
		m.onInput = true
		return m.close(selection.CloseTab)
	case keynav.IntentActivate:
		switch m.focus.Region {
		case keynav.RegionHeader:
			return m.Toggle()
		case keynav.RegionFooter:
			return m.CommitToday()
		}
		return m.ActivateCell(m.focus.Index)
	case keynav.IntentUp, keynav.IntentDown, keynav.IntentLeft, keynav.IntentRight:
		if m.focus.Region == keynav.RegionHeader {
			switch intent {
			case keynav.IntentUp:
				m.onInput = true
				return nil
			case keynav.IntentLeft:
				return m.Page(-1)
			case keynav.IntentRight:
				return m.Page(1)
			}
		}
		m.focus = m.grid().Move(m.focus, intent)
		return nil
	}
	m.onInput = true
	return m.typeInto(msg)
}

// entryFocus is where Down from the input lands: the selected cell when it
// is shown, else the reference date's cell.
func (m *Model) entryFocus() keynav.GridFocus {
	cells := m.Cells()
	for i, c := range cells {
		if c.IsSelected && c.InCurrentMonth {
			return keynav.Cell(i)
		}
	}
	target := m.reference
	if m.view == ViewYear {
		target = calendar.StartOfMonth(target)
	}
	if idx := calendar.IndexOf(cells, target); idx >= 0 {
		return keynav.Cell(idx)
	}
	return keynav.Cell(0)
}

func (m *Model) typeInto(msg tea.KeyPressMsg) tea.Cmd {
	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == prev {
		return cmd
	}
	before := m.reference
	m.reparse()
	cmds := []tea.Cmd{cmd, m.openCmd()}
	if !before.Equal(m.reference) {
		cmds = append(cmds, m.referenceChanged())
	}
	return tea.Batch(cmds...)
}

func (m *Model) commit(d calendar.Date) tea.Cmd {
	m.state.Commit(d)
	m.input.SetValue(d.String())
	m.input.CursorEnd()
	m.invalid = false
	m.reference = d
	m.view = ViewMonth
	m.onInput = true
	return tea.Batch(
		events.DateCommitCmd(m.id, d),
		m.close(selection.CloseCommit),
	)
}

func (m *Model) pickMonth(d calendar.Date) tea.Cmd {
	m.reference = calendar.StartOfMonth(d)
	m.view = ViewMonth
	m.onInput = false
	m.focus = keynav.Cell(0)
	return m.referenceChanged()
}

func (m *Model) referenceChanged() tea.Cmd {
	return events.ReferenceChangeCmd(m.id, m.reference, m.view.String())
}

func (m *Model) openCmd() tea.Cmd {
	if !m.open.Open() {
		return nil
	}
	m.view = ViewMonth
	return events.OpenChangeCmd(m.id, true, "")
}

func (m *Model) close(reason selection.CloseReason) tea.Cmd {
	if !m.open.Close(reason) {
		return nil
	}
	return events.OpenChangeCmd(m.id, false, reason)
}
