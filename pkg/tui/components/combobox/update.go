package combobox

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/widgets/pkg/filter"
	"tableflip.dev/widgets/pkg/keynav"
	"tableflip.dev/widgets/pkg/selection"
	"tableflip.dev/widgets/pkg/tui/events"
)

// Update routes messages to the input, the item list and the sync engine.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	before, hadActive := m.state.Active()
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case SyncMsg:
		if msg.Component != m.id || !m.mounted {
			return m, nil
		}
		for _, b := range msg.Batches {
			m.engine.Apply(b)
		}
		cmds = append(cmds, m.flush(), m.listen())
	case events.FocusMsg:
		if msg.Component == m.id {
			cmds = append(cmds, m.Focus())
		}
	case events.BlurMsg:
		if msg.Component == m.id {
			m.Blur()
		}
	case tea.KeyPressMsg:
		if m.focused {
			cmds = append(cmds, m.handleKey(msg))
		}
	}

	cmds = append(cmds, m.activeChanged(before, hadActive))
	return m, tea.Batch(cmds...)
}

// Focus gives the widget keyboard focus and opens it.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	m.focus = keynav.InputTarget()
	cmds := []tea.Cmd{m.input.Focus()}
	if m.open.Open() {
		cmds = append(cmds, events.OpenChangeCmd(m.id, true, ""))
	}
	return tea.Batch(cmds...)
}

// Blur drops keyboard focus. The open state is left to outside-interaction
// handling.
func (m *Model) Blur() {
	m.focused = false
	m.focus = keynav.InputTarget()
	m.input.Blur()
}

// Click handles a pointer press on the input.
func (m *Model) Click() tea.Cmd {
	if m.focused {
		return m.openCmd()
	}
	return m.Focus()
}

// HandleOutsideInteraction closes the widget after an interaction elsewhere.
func (m *Model) HandleOutsideInteraction() tea.Cmd {
	return m.close(selection.CloseOutside)
}

// ActivateItem commits key as if the item had been clicked.
func (m *Model) ActivateItem(key string) tea.Cmd {
	for _, it := range m.state.Visible() {
		if it.Key == key {
			return m.commit(it)
		}
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	intent := m.keymap.Resolve(msg.String())
	if m.focus.Input {
		return m.handleInputKey(msg, intent)
	}
	return m.handleItemKey(msg, intent)
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
		return m.move(intent)
	case keynav.IntentUp:
		return nil
	case keynav.IntentActivate:
		if msg.String() == "enter" {
			if it, ok := m.Active(); ok && m.state.IsVisible(it.Key) {
				return m.commit(it)
			}
			return nil
		}
	}
	return m.typeInto(msg)
}

func (m *Model) handleItemKey(msg tea.KeyPressMsg, intent keynav.Intent) tea.Cmd {
	switch intent {
	case keynav.IntentUp, keynav.IntentDown:
		return m.move(intent)
	case keynav.IntentActivate:
		for _, it := range m.state.Visible() {
			if it.Key == m.focus.Key {
				return m.commit(it)
			}
		}
		return nil
	case keynav.IntentEscape:
		m.focus = keynav.InputTarget()
		return m.close(selection.CloseEscape)
	case keynav.IntentTab, keynav.IntentBackTab:
		m.focus = keynav.InputTarget()
		return m.close(selection.CloseTab)
	case keynav.IntentLeft, keynav.IntentRight:
		return nil
	}
	// Anything else is text for the input, which takes focus back.
	m.focus = keynav.InputTarget()
	return m.typeInto(msg)
}

func (m *Model) move(intent keynav.Intent) tea.Cmd {
	nav := keynav.Linear{Visible: m.state.Visible()}
	next := nav.Move(m.focus, intent)
	if next == m.focus {
		return nil
	}
	m.focus = next
	m.updateWindow()
	if next.Input {
		return nil
	}
	return m.openCmd()
}

func (m *Model) typeInto(msg tea.KeyPressMsg) tea.Cmd {
	prev := m.input.Value()
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if value := m.input.Value(); value != prev {
		cmds = append(cmds, m.openCmd())
		m.state.SetQuery(value, m.items)
		m.windowStart = 0
		m.updateWindow()
	}
	return tea.Batch(cmds...)
}

func (m *Model) commit(it filter.Item) tea.Cmd {
	m.input.SetValue(it.Key)
	m.input.CursorEnd()
	m.state.Activate(it.Key)
	m.focus = keynav.InputTarget()
	return tea.Batch(
		events.ItemCommitCmd(m.id, events.ItemRef{Key: it.Key, Label: it.Label}),
		m.close(selection.CloseCommit),
	)
}

func (m *Model) openCmd() tea.Cmd {
	if !m.open.Open() {
		return nil
	}
	return events.OpenChangeCmd(m.id, true, "")
}

func (m *Model) close(reason selection.CloseReason) tea.Cmd {
	if !m.open.Close(reason) {
		return nil
	}
	return events.OpenChangeCmd(m.id, false, reason)
}

func (m *Model) activeChanged(before string, had bool) tea.Cmd {
	after, has := m.state.Active()
	if after == before && has == had {
		return nil
	}
	if !has {
		return events.ItemActiveCmd(m.id, events.ItemRef{}, true)
	}
	it, _ := m.Active()
	return events.ItemActiveCmd(m.id, events.ItemRef{Key: it.Key, Label: it.Label}, false)
}
