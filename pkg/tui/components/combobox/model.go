// Package combobox implements an autocomplete text input whose options
// follow a live option source.
package combobox

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/google/uuid"

	"tableflip.dev/widgets/pkg/filter"
	"tableflip.dev/widgets/pkg/keynav"
	"tableflip.dev/widgets/pkg/optsync"
	"tableflip.dev/widgets/pkg/selection"
	"tableflip.dev/widgets/pkg/source"
	"tableflip.dev/widgets/pkg/tui/events"
	"tableflip.dev/widgets/pkg/tui/registry"
	"tableflip.dev/widgets/pkg/tui/theme"
)

// ErrPrecondition reports a widget that cannot be wired up. It is never
// recoverable for the instance that returned it.
var ErrPrecondition = errors.New("combobox: precondition violated")

// Config is the declarative configuration of a combobox.
type Config struct {
	// OptionSourceID names the option source to follow. Changing it rebinds
	// the widget.
	OptionSourceID string
	// FieldKey identifies the field; it only affects identity and derived
	// names such as MenuID.
	FieldKey string
	// InitialValue seeds the input text and the active item.
	InitialValue string

	Name        string
	Form        string
	Placeholder string
}

// Options configures construction of the widget.
type Options struct {
	ID         events.ComponentID
	Resolver   source.Resolver
	Registry   *registry.Registry
	Theme      theme.Theme
	Keymap     keynav.Keymap
	MaxVisible int
}

// SyncMsg carries source batches into the update loop.
type SyncMsg struct {
	Component events.ComponentID
	Batches   []optsync.Batch
}

// Model is the combobox component.
type Model struct {
	id       events.ComponentID
	resolver source.Resolver
	registry *registry.Registry
	theme    theme.Theme
	keymap   keynav.Keymap

	cfg Config

	input   textinput.Model
	engine  *optsync.Engine
	mailbox *optsync.Mailbox

	items   []filter.Item
	state   selection.Combo
	open    selection.Open
	focus   keynav.Target
	focused bool
	loading bool
	mounted bool
	built   bool

	pending []tea.Cmd

	width       int
	height      int
	maxVisible  int
	windowStart int
}

// New constructs an unmounted combobox.
func New(opts Options) *Model {
	input := textinput.New()
	input.Prompt = ""

	id := opts.ID
	if id == "" {
		id = events.ComponentID("combobox-" + uuid.NewString())
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.Default()
	}
	km := opts.Keymap
	if km == nil {
		km = keynav.DefaultKeymap()
	}
	maxVisible := opts.MaxVisible
	if maxVisible <= 0 {
		maxVisible = 8
	}

	return &Model{
		id:         id,
		resolver:   opts.Resolver,
		registry:   reg,
		theme:      opts.Theme,
		keymap:     km,
		input:      input,
		focus:      keynav.InputTarget(),
		maxVisible: maxVisible,
		built:      true,
	}
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Configure applies cfg. While mounted a changed OptionSourceID rebinds the
// widget to the new source.
func (m *Model) Configure(cfg Config) (tea.Cmd, error) {
	if cfg.FieldKey == "" {
		cfg.FieldKey = m.cfg.FieldKey
	}
	if cfg.FieldKey == "" {
		cfg.FieldKey = uuid.NewString()
	}
	prev := m.cfg
	m.cfg = cfg
	m.input.Placeholder = cfg.Placeholder
	if cfg.InitialValue != prev.InitialValue {
		m.input.SetValue(cfg.InitialValue)
		m.input.CursorEnd()
	}

	if !m.mounted {
		return nil, nil
	}
	if cfg.OptionSourceID != prev.OptionSourceID {
		if err := m.bind(); err != nil {
			return nil, err
		}
	}
	if cfg.InitialValue != prev.InitialValue {
		m.seedActive(cfg.InitialValue)
	}
	return m.flush(), nil
}

// Config returns the applied configuration.
func (m *Model) Config() Config { return m.cfg }

// Mount wires the widget to its option source and registers it for outside
// interactions. The returned command listens for source changes.
func (m *Model) Mount() (tea.Cmd, error) {
	if !m.built {
		return nil, fmt.Errorf("%w: input not constructed, use New", ErrPrecondition)
	}
	if m.mounted {
		return nil, nil
	}
	if m.cfg.FieldKey == "" {
		m.cfg.FieldKey = uuid.NewString()
	}
	mb := optsync.NewMailbox()
	m.mailbox = mb
	m.engine = optsync.NewEngine(optsync.Options{
		OnLoading: m.onLoading,
		OnChange:  m.onChange,
		OnMiss:    m.onMiss,
		Deliver:   mb.Put,
	})
	if err := m.bind(); err != nil {
		mb.Close()
		m.engine = nil
		m.mailbox = nil
		return nil, err
	}
	m.mounted = true
	m.registry.Register(m)
	m.seedActive(m.input.Value())
	return tea.Batch(m.flush(), m.listen()), nil
}

// Unmount releases the option source and deregisters the widget.
func (m *Model) Unmount() {
	if !m.mounted {
		return
	}
	m.registry.Deregister(m)
	m.engine.Unbind()
	m.mailbox.Close()
	m.engine = nil
	m.mailbox = nil
	m.mounted = false
	m.pending = nil
}

// Mounted reports whether Mount succeeded and Unmount has not run.
func (m *Model) Mounted() bool { return m.mounted }

func (m *Model) bind() error {
	id := m.cfg.OptionSourceID
	if id == "" {
		m.engine.Unbind()
		return nil
	}
	if m.resolver == nil {
		return fmt.Errorf("%w: no resolver for option source %q", ErrPrecondition, id)
	}
	src, ok := m.resolver.Resolve(id)
	if !ok {
		return fmt.Errorf("%w: option source %q not found", ErrPrecondition, id)
	}
	m.engine.Bind(src)
	return nil
}

func (m *Model) listen() tea.Cmd {
	mb := m.mailbox
	if mb == nil {
		return nil
	}
	id := m.id
	return func() tea.Msg {
		batches := mb.Wait()
		if batches == nil {
			return nil
		}
		return SyncMsg{Component: id, Batches: batches}
	}
}

func (m *Model) onLoading(loading bool) {
	m.loading = loading
	m.pending = append(m.pending, events.LoadingCmd(m.id, m.engine.SourceID(), loading))
}

func (m *Model) onChange(items []filter.Item) {
	m.items = items
	m.state.Recompute(items)
	m.repairFocus()
	m.updateWindow()
}

func (m *Model) onMiss(ev optsync.Event) {
	key := ev.Entry.Key
	if ev.Type == optsync.EventRelabel {
		key = ev.OldKey
	}
	m.pending = append(m.pending, events.DebugCmd(m.id, "sync", fmt.Sprintf("%s of unknown key %q ignored", ev.Type, key)))
}

// repairFocus keeps item focus on the same item across relabels and sends
// it back to the input when the item is gone or filtered out.
func (m *Model) repairFocus() {
	if m.focus.Input {
		return
	}
	for _, it := range m.state.Visible() {
		if it.Order == m.focus.Order {
			m.focus = keynav.ItemTarget(it)
			return
		}
	}
	m.focus = keynav.InputTarget()
}

func (m *Model) seedActive(value string) {
	if value == "" {
		return
	}
	if _, ok := m.state.Active(); ok {
		return
	}
	for _, it := range m.state.Visible() {
		if it.Key == value {
			m.state.Activate(it.Key)
			return
		}
	}
	if exact := filter.FindExact(m.state.Visible(), value); len(exact) == 1 {
		m.state.Activate(exact[0].Key)
	}
}

func (m *Model) flush() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}

// Value returns the input text.
func (m *Model) Value() string { return m.input.Value() }

// SetValue replaces the input text without opening the widget or touching
// the filter.
func (m *Model) SetValue(v string) {
	m.input.SetValue(v)
	m.input.CursorEnd()
}

// Items returns the synchronized item list.
func (m *Model) Items() []filter.Item { return append([]filter.Item(nil), m.items...) }

// Visible returns the items passing the current filter.
func (m *Model) Visible() []filter.Item { return m.state.Visible() }

// Query returns the text the item list is filtered by.
func (m *Model) Query() string { return m.state.Query() }

// Active returns the highlighted item.
func (m *Model) Active() (filter.Item, bool) {
	key, ok := m.state.Active()
	if !ok {
		return filter.Item{}, false
	}
	for _, it := range m.items {
		if it.Key == key {
			return it, true
		}
	}
	return filter.Item{}, false
}

// IsOpen reports whether the item list is shown.
func (m *Model) IsOpen() bool { return m.open.IsOpen() }

// Loading reports whether a source snapshot is in progress.
func (m *Model) Loading() bool { return m.loading }

// Focused reports whether the widget holds keyboard focus.
func (m *Model) Focused() bool { return m.focused }

// FocusTarget returns where keyboard focus sits inside the widget.
func (m *Model) FocusTarget() keynav.Target { return m.focus }

// MenuID is the identifier of the item list, used for aria-controls.
func (m *Model) MenuID() string { return "combobox-menu-" + m.cfg.FieldKey }

// Attributes returns the attribute values a host should mirror onto its
// own representation of the widget.
func (m *Model) Attributes() map[string]string {
	attrs := map[string]string{
		"value":         m.input.Value(),
		"aria-controls": m.MenuID(),
		"aria-haspopup": "true",
		"aria-expanded": fmt.Sprintf("%t", m.open.IsOpen()),
		"role":          "combobox",
	}
	if m.cfg.Name != "" {
		attrs["name"] = m.cfg.Name
	}
	if m.cfg.Form != "" {
		attrs["form"] = m.cfg.Form
	}
	if m.cfg.FieldKey != "" {
		attrs["id"] = m.cfg.FieldKey
	}
	return attrs
}

// SetSize configures the dimensions the component renders into.
func (m *Model) SetSize(width, height int) {
	if width <= 0 {
		width = 1
	}
	m.width = width
	m.height = height
	m.input.SetWidth(max(1, width-2))
	m.updateWindow()
}
