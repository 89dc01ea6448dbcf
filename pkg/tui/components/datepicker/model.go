// Package datepicker implements a date input with a calendar dropdown that
// switches between a month view and a year view.
package datepicker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/google/uuid"

	"tableflip.dev/widgets/pkg/calendar"
	"tableflip.dev/widgets/pkg/keynav"
	"tableflip.dev/widgets/pkg/selection"
	"tableflip.dev/widgets/pkg/tui/events"
	"tableflip.dev/widgets/pkg/tui/registry"
	"tableflip.dev/widgets/pkg/tui/theme"
)

// ErrPrecondition reports a widget that cannot be mounted.
var ErrPrecondition = errors.New("datepicker: precondition violated")

// View is the grid currently shown.
type View int

const (
	// ViewMonth shows the days of the reference month.
	ViewMonth View = iota
	// ViewYear shows the months of the reference year.
	ViewYear
)

func (v View) String() string {
	if v == ViewYear {
		return "year"
	}
	return "month"
}

// Config is the declarative configuration of a date picker.
type Config struct {
	FieldKey     string
	InitialValue string
	Name         string
	Form         string
	Placeholder  string
}

// Options configures construction of the widget.
type Options struct {
	ID        events.ComponentID
	Registry  *registry.Registry
	Theme     theme.Theme
	Keymap    keynav.Keymap
	Formatter Formatter
	// Clock reports the current time; defaults to time.Now.
	Clock func() time.Time
}

// Model is the date picker component.
type Model struct {
	id       events.ComponentID
	registry *registry.Registry
	theme    theme.Theme
	keymap   keynav.Keymap
	format   Formatter
	clock    func() time.Time

	cfg   Config
	input textinput.Model

	reference calendar.Date
	view      View
	state     selection.Date
	open      selection.Open

	// onInput is set while focus sits in the text input; focus is only
	// consulted otherwise.
	onInput bool
	focus   keynav.GridFocus

	focused bool
	invalid bool
	mounted bool
	built   bool

	width int
}

// New constructs an unmounted date picker.
func New(opts Options) *Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = calendar.LayoutISO
	input.CharLimit = len(calendar.LayoutISO)

	id := opts.ID
	if id == "" {
		id = events.ComponentID("datepicker-" + uuid.NewString())
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.Default()
	}
	km := opts.Keymap
	if km == nil {
		km = keynav.DefaultKeymap()
	}
	format := opts.Formatter
	if format == nil {
		format = DefaultFormatter{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	m := &Model{
		id:       id,
		registry: reg,
		theme:    opts.Theme,
		keymap:   km,
		format:   format,
		clock:    clock,
		input:    input,
		onInput:  true,
		built:    true,
	}
	m.reparse()
	return m
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Configure applies cfg.
func (m *Model) Configure(cfg Config) {
	prev := m.cfg
	m.cfg = cfg
	if cfg.Placeholder != "" {
		m.input.Placeholder = cfg.Placeholder
	}
	if cfg.InitialValue != prev.InitialValue {
		m.SetValue(cfg.InitialValue)
	}
}

// Config returns the applied configuration.
func (m *Model) Config() Config { return m.cfg }

// Mount registers the widget for outside interactions.
func (m *Model) Mount() error {
	if !m.built {
		return fmt.Errorf("%w: input not constructed, use New", ErrPrecondition)
	}
	if m.mounted {
		return nil
	}
	m.registry.Register(m)
	m.mounted = true
	return nil
}

// Unmount deregisters the widget.
func (m *Model) Unmount() {
	if !m.mounted {
		return
	}
	m.registry.Deregister(m)
	m.mounted = false
}

// Mounted reports whether Mount succeeded and Unmount has not run.
func (m *Model) Mounted() bool { return m.mounted }

// Value returns the input text.
func (m *Model) Value() string { return m.input.Value() }

// SetValue replaces the input text and recomputes the reference date. The
// selected date is left alone.
func (m *Model) SetValue(v string) {
	m.input.SetValue(v)
	m.input.CursorEnd()
	m.reparse()
}

// Selected returns the committed date.
func (m *Model) Selected() (calendar.Date, bool) { return m.state.Selected() }

// Reference returns the date whose month or year is displayed.
func (m *Model) Reference() calendar.Date { return m.reference }

// CurrentView returns the grid being shown.
func (m *Model) CurrentView() View { return m.view }

// Invalid reports whether the input text is not a date.
func (m *Model) Invalid() bool { return m.invalid }

// IsOpen reports whether the calendar is shown.
func (m *Model) IsOpen() bool { return m.open.IsOpen() }

// LastClose reports why the calendar last closed.
func (m *Model) LastClose() selection.CloseReason { return m.open.LastClose() }

// Focused reports whether the widget holds keyboard focus.
func (m *Model) Focused() bool { return m.focused }

// FocusTarget returns the focused control, or ok false while focus is in
// the text input.
func (m *Model) FocusTarget() (keynav.GridFocus, bool) {
	if m.onInput {
		return keynav.GridFocus{}, false
	}
	return m.focus, true
}

// Today returns the current date according to the clock.
func (m *Model) Today() calendar.Date { return calendar.Today(m.clock) }

// Cells returns the cells of the current view.
func (m *Model) Cells() []calendar.Cell {
	today := m.Today()
	if m.view == ViewYear {
		return calendar.BuildYearGrid(m.reference, m.state.Pointer(), today)
	}
	return calendar.BuildMonthGrid(m.reference, m.state.Pointer(), today)
}

func (m *Model) grid() keynav.Grid {
	if m.view == ViewYear {
		return keynav.Grid{Columns: calendar.YearColumns, Cells: calendar.YearCells}
	}
	return keynav.Grid{Columns: calendar.MonthColumns, Cells: calendar.MonthCells}
}

// DialogID identifies the calendar dropdown.
func (m *Model) DialogID() string { return "datepicker-dialog-" + m.cfg.FieldKey }

// Attributes returns the attribute values a host should mirror.
func (m *Model) Attributes() map[string]string {
	attrs := map[string]string{
		"value":         m.input.Value(),
		"aria-haspopup": "dialog",
		"aria-expanded": fmt.Sprintf("%t", m.open.IsOpen()),
		"aria-invalid":  fmt.Sprintf("%t", m.invalid),
	}
	if m.cfg.FieldKey != "" {
		attrs["id"] = m.cfg.FieldKey
		attrs["aria-controls"] = m.DialogID()
	}
	if m.cfg.Name != "" {
		attrs["name"] = m.cfg.Name
	}
	if m.cfg.Form != "" {
		attrs["form"] = m.cfg.Form
	}
	return attrs
}

// SetSize configures the width the component renders into.
func (m *Model) SetSize(width, _ int) {
	if width <= 0 {
		width = 1
	}
	m.width = width
	m.input.SetWidth(max(1, min(width-4, len(calendar.LayoutISO)+1)))
}

// reparse derives the reference date from the input text. Unparseable text
// marks the widget invalid and falls back to today.
func (m *Model) reparse() {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		m.invalid = false
		if sel, ok := m.state.Selected(); ok {
			m.reference = sel
		} else {
			m.reference = m.Today()
		}
		return
	}
	d, err := calendar.ParseDate(text)
	if err != nil {
		m.invalid = true
		m.reference = m.Today()
		return
	}
	m.invalid = false
	m.reference = d
}
