package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/widgets/pkg/calendar"
	"tableflip.dev/widgets/pkg/selection"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// Describer is implemented by every event so hosts can log it.
type Describer interface {
	Describe() string
}

// ItemRef identifies a combobox item in cross-component events.
type ItemRef struct {
	Key   string
	Label string
}

// OpenChangeMsg is emitted when a widget shows or hides its list or grid.
type OpenChangeMsg struct {
	Component ComponentID
	Open      bool
	Reason    selection.CloseReason
}

// Describe renders the transition for logs.
func (m OpenChangeMsg) Describe() string {
	if m.Open {
		return fmt.Sprintf(`component:%q state:"open"`, m.Component)
	}
	return fmt.Sprintf(`component:%q state:"closed" reason:%q`, m.Component, m.Reason)
}

// OpenChangeCmd wraps OpenChangeMsg in a tea.Cmd.
func OpenChangeCmd(component ComponentID, open bool, reason selection.CloseReason) tea.Cmd {
	return func() tea.Msg {
		return OpenChangeMsg{Component: component, Open: open, Reason: reason}
	}
}

// LoadingMsg brackets the initial snapshot of an option source.
type LoadingMsg struct {
	Component ComponentID
	SourceID  string
	Loading   bool
}

// Describe renders the loading flag for logs.
func (m LoadingMsg) Describe() string {
	return fmt.Sprintf(`component:%q source:%q loading:%t`, m.Component, m.SourceID, m.Loading)
}

// LoadingCmd wraps LoadingMsg in a tea.Cmd.
func LoadingCmd(component ComponentID, sourceID string, loading bool) tea.Cmd {
	return func() tea.Msg {
		return LoadingMsg{Component: component, SourceID: sourceID, Loading: loading}
	}
}

// ItemActiveMsg is emitted when the highlighted combobox item changes. A
// zero Item with Cleared set means nothing is highlighted.
type ItemActiveMsg struct {
	Component ComponentID
	Item      ItemRef
	Cleared   bool
}

// Describe renders the highlight for logs.
func (m ItemActiveMsg) Describe() string {
	if m.Cleared {
		return fmt.Sprintf(`component:%q active:none`, m.Component)
	}
	return fmt.Sprintf(`component:%q key:%q label:%q`, m.Component, m.Item.Key, m.Item.Label)
}

// ItemActiveCmd wraps ItemActiveMsg in a tea.Cmd.
func ItemActiveCmd(component ComponentID, item ItemRef, cleared bool) tea.Cmd {
	return func() tea.Msg {
		return ItemActiveMsg{Component: component, Item: item, Cleared: cleared}
	}
}

// ItemCommitMsg is emitted when the user picks a combobox item.
type ItemCommitMsg struct {
	Component ComponentID
	Item      ItemRef
}

// Describe renders the commit for logs.
func (m ItemCommitMsg) Describe() string {
	return fmt.Sprintf(`component:%q key:%q label:%q`, m.Component, m.Item.Key, m.Item.Label)
}

// ItemCommitCmd wraps ItemCommitMsg in a tea.Cmd.
func ItemCommitCmd(component ComponentID, item ItemRef) tea.Cmd {
	return func() tea.Msg {
		return ItemCommitMsg{Component: component, Item: item}
	}
}

// DateCommitMsg is emitted when the user picks a date.
type DateCommitMsg struct {
	Component ComponentID
	Date      calendar.Date
}

// Describe renders the commit for logs.
func (m DateCommitMsg) Describe() string {
	return fmt.Sprintf(`component:%q date:%q`, m.Component, m.Date)
}

// DateCommitCmd wraps DateCommitMsg in a tea.Cmd.
func DateCommitCmd(component ComponentID, d calendar.Date) tea.Cmd {
	return func() tea.Msg {
		return DateCommitMsg{Component: component, Date: d}
	}
}

// ReferenceChangeMsg is emitted when a date picker pages or switches view.
type ReferenceChangeMsg struct {
	Component ComponentID
	Reference calendar.Date
	View      string
}

// Describe renders the reference change for logs.
func (m ReferenceChangeMsg) Describe() string {
	return fmt.Sprintf(`component:%q reference:%q view:%q`, m.Component, m.Reference, m.View)
}

// ReferenceChangeCmd wraps ReferenceChangeMsg in a tea.Cmd.
func ReferenceChangeCmd(component ComponentID, ref calendar.Date, view string) tea.Cmd {
	return func() tea.Msg {
		return ReferenceChangeMsg{Component: component, Reference: ref, View: view}
	}
}

// OutsideInteractionMsg records that the registry told Notified widgets
// about an interaction outside Origin. An empty Origin is outside every
// widget. Widgets are reached directly, so they do not handle this message.
type OutsideInteractionMsg struct {
	Origin   ComponentID
	Notified int
}

// Describe renders the interaction for logs.
func (m OutsideInteractionMsg) Describe() string {
	return fmt.Sprintf(`origin:%q notified:%d`, m.Origin, m.Notified)
}

// FocusMsg indicates a component just gained focus.
type FocusMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m FocusMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"focus"`, m.Component)
}

// BlurMsg indicates a component just lost focus.
type BlurMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m BlurMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"blur"`, m.Component)
}

// FocusCmd wraps a FocusMsg in a tea.Cmd helper.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// BlurCmd wraps a BlurMsg in a tea.Cmd helper.
func BlurCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: component}
	}
}

// DebugMsg captures optional diagnostic notes emitted by components.
type DebugMsg struct {
	Component ComponentID
	Context   string
	Detail    string
}

// Describe renders the debug message in a human-readable format.
func (m DebugMsg) Describe() string {
	return fmt.Sprintf(`component:%q context:%q detail:%q`, m.Component, m.Context, m.Detail)
}

// DebugCmd wraps DebugMsg creation in a tea.Cmd helper.
func DebugCmd(component ComponentID, context, detail string) tea.Cmd {
	return func() tea.Msg {
		return DebugMsg{Component: component, Context: context, Detail: detail}
	}
}
