package combobox

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/widgets/pkg/optsync"
	"tableflip.dev/widgets/pkg/selection"
	"tableflip.dev/widgets/pkg/source"
	"tableflip.dev/widgets/pkg/tui/events"
	"tableflip.dev/widgets/pkg/tui/registry"
	"tableflip.dev/widgets/pkg/tui/theme"
)

func fruit() *source.Memory {
	return source.NewMemory("fruit",
		optsync.Entry{Key: "Apple", Label: "Apple"},
		optsync.Entry{Key: "Banana", Label: "Banana"},
		optsync.Entry{Key: "Cherry", Label: "Cherry"},
	)
}

func mounted(t *testing.T, src *source.Memory, cfg Config) (*Model, *registry.Registry) {
	t.Helper()
	reg := registry.New()
	m := New(Options{
		ID:       "fruit-box",
		Resolver: source.NewDirectory(src),
		Registry: reg,
		Theme:    theme.Plain(),
	})
	if cfg.OptionSourceID == "" {
		cfg.OptionSourceID = src.ID()
	}
	if _, err := m.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if _, err := m.Mount(); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	t.Cleanup(m.Unmount)
	return m, reg
}

// deliver pushes queued source batches through the update loop.
func deliver(m *Model) {
	if batches := m.mailbox.Drain(); len(batches) > 0 {
		m.Update(SyncMsg{Component: m.ID(), Batches: batches})
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	seq := false
	for _, r := range s {
		if r == ansi.Marker {
			seq = true
			continue
		}
		if seq {
			if ansi.IsTerminator(r) {
				seq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func collect(cmds ...tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := append([]tea.Cmd(nil), cmds...)
	for len(queue) > 0 {
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		switch v := cmd().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, []tea.Cmd(v)...)
		default:
			out = append(out, v)
		}
	}
	return out
}

func press(m *Model, msg tea.KeyPressMsg) []tea.Msg {
	_, cmd := m.Update(msg)
	return collect(cmd)
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func keys(m *Model) []string {
	var out []string
	for _, it := range m.Visible() {
		out = append(out, it.Key)
	}
	return out
}

func TestFilterScenario(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{})
	m.Focus()
	typeText(m, "an")

	got := strings.Join(keys(m), ",")
	if got != "Banana" {
		t.Fatalf("visible = %q, want Banana", got)
	}
	if !m.IsOpen() {
		t.Fatalf("typing should open the widget")
	}
	if _, ok := m.Active(); ok {
		t.Fatalf("no item should be active for a partial match")
	}
}

func TestExactMatchActivates(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{})
	m.Focus()
	typeText(m, "cherry")
	if _, ok := m.Active(); ok {
		t.Fatalf("exact match is case sensitive")
	}

	other, _ := mounted(t, fruit(), Config{})
	other.Focus()
	typeText(other, "Cherry")
	it, ok := other.Active()
	if !ok || it.Key != "Cherry" {
		t.Fatalf("Active = %+v, %v, want Cherry", it, ok)
	}
}

func TestDeletingQueryKeepsInputFocus(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{})
	m.Focus()
	typeText(m, "a")
	m.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	if m.Value() != "" || m.Query() != "" {
		t.Fatalf("value=%q query=%q, want empty", m.Value(), m.Query())
	}
	if len(m.Visible()) != 3 {
		t.Fatalf("empty query should show all items, got %v", keys(m))
	}
	if !m.FocusTarget().Input {
		t.Fatalf("focus should stay on the input")
	}
}

func TestLoadingBracketsSnapshot(t *testing.T) {
	reg := registry.New()
	m := New(Options{ID: "box", Resolver: source.NewDirectory(fruit()), Registry: reg})
	if _, err := m.Configure(Config{OptionSourceID: "fruit"}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if _, err := m.Mount(); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer m.Unmount()

	if m.Loading() {
		t.Fatalf("loading should be cleared after the snapshot")
	}
	if len(m.Items()) != 3 {
		t.Fatalf("items = %d, want 3", len(m.Items()))
	}
	if reg.Len() != 1 {
		t.Fatalf("registry holds %d widgets, want 1", reg.Len())
	}
}

func TestRelabelWhileOpen(t *testing.T) {
	src := source.NewMemory("letters",
		optsync.Entry{Key: "A", Label: "A"},
		optsync.Entry{Key: "B", Label: "B"},
	)
	m, _ := mounted(t, src, Config{})
	m.Focus()
	typeText(m, "2")
	if len(m.Visible()) != 0 {
		t.Fatalf("nothing should match 2 yet, got %v", keys(m))
	}

	src.Relabel("A", "A2", "A2")
	deliver(m)

	if got := strings.Join(keys(m), ","); got != "A2" {
		t.Fatalf("visible after relabel = %q, want A2", got)
	}
	for _, it := range m.Items() {
		if it.Key == "A" {
			t.Fatalf("old key A still present")
		}
	}
}

func TestSourceChangesWhileFocusedOnItem(t *testing.T) {
	src := fruit()
	m, _ := mounted(t, src, Config{})
	m.Focus()
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if tgt := m.FocusTarget(); tgt.Input || tgt.Key != "Banana" {
		t.Fatalf("focus = %+v, want Banana", tgt)
	}

	src.Relabel("Banana", "Plantain", "Plantain")
	deliver(m)
	if tgt := m.FocusTarget(); tgt.Input || tgt.Key != "Plantain" {
		t.Fatalf("focus after relabel = %+v, want Plantain", tgt)
	}

	src.Remove("Plantain")
	deliver(m)
	if !m.FocusTarget().Input {
		t.Fatalf("focus should return to the input once the item is gone")
	}
}

func TestLinearNavigation(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{})
	m.Focus()

	m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if !m.FocusTarget().Input {
		t.Fatalf("Up on the input should stay on the input")
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if got := m.FocusTarget().Key; got != "Apple" {
		t.Fatalf("Down from input focused %q, want Apple", got)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if !m.FocusTarget().Input {
		t.Fatalf("Up from the first item should return to the input")
	}

	for i := 0; i < 5; i++ {
		m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if got := m.FocusTarget().Key; got != "Cherry" {
		t.Fatalf("Down past the end focused %q, want Cherry", got)
	}
}

func TestEnterCommitsFocusedItem(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{})
	m.Focus()
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	msgs := press(m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if m.Value() != "Banana" {
		t.Fatalf("value = %q, want Banana", m.Value())
	}
	if m.IsOpen() {
		t.Fatalf("commit should close the widget")
	}
	if m.open.LastClose() != selection.CloseCommit {
		t.Fatalf("close reason = %q", m.open.LastClose())
	}
	var committed, active bool
	for _, msg := range msgs {
		switch v := msg.(type) {
		case events.ItemCommitMsg:
			committed = v.Item.Key == "Banana"
		case events.ItemActiveMsg:
			active = v.Item.Key == "Banana" && !v.Cleared
		}
	}
	if !committed || !active {
		t.Fatalf("want commit and active messages for Banana, got %#v", msgs)
	}
}

func TestEscapeFromInputBlurs(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{})
	m.Focus()
	msgs := press(m, tea.KeyPressMsg{Code: tea.KeyEscape})

	if m.IsOpen() || m.Focused() {
		t.Fatalf("escape should close and blur, open=%v focused=%v", m.IsOpen(), m.Focused())
	}
	var blurred bool
	for _, msg := range msgs {
		if _, ok := msg.(events.BlurMsg); ok {
			blurred = true
		}
	}
	if !blurred {
		t.Fatalf("expected a BlurMsg, got %#v", msgs)
	}
}

func TestEscapeFromItemReturnsToInput(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{})
	m.Focus()
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})

	if m.IsOpen() {
		t.Fatalf("escape should close")
	}
	if !m.Focused() || !m.FocusTarget().Input {
		t.Fatalf("focus should return to the input")
	}
}

func TestTabCloses(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{})
	m.Focus()
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if m.IsOpen() {
		t.Fatalf("tab should close")
	}
	if m.open.LastClose() != selection.CloseTab {
		t.Fatalf("close reason = %q", m.open.LastClose())
	}
}

func TestTypingFromItemRefocusesInput(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{})
	m.Focus()
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	typeText(m, "b")

	if !m.FocusTarget().Input {
		t.Fatalf("typing should move focus to the input")
	}
	if m.Value() != "b" {
		t.Fatalf("value = %q, want b", m.Value())
	}
}

func TestOutsideInteractionCloses(t *testing.T) {
	src := fruit()
	m, reg := mounted(t, src, Config{})
	m.Focus()
	if !m.IsOpen() {
		t.Fatalf("focus should open")
	}

	collect(reg.DispatchOutside("elsewhere"))
	if m.IsOpen() {
		t.Fatalf("outside interaction should close")
	}
	if m.open.LastClose() != selection.CloseOutside {
		t.Fatalf("close reason = %q", m.open.LastClose())
	}

	m.Focus()
	collect(reg.DispatchOutside(m.ID()))
	if !m.IsOpen() {
		t.Fatalf("interaction originating in the widget must not close it")
	}
}

func TestMountPreconditions(t *testing.T) {
	var zero Model
	if _, err := zero.Mount(); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("zero model Mount err = %v", err)
	}

	m := New(Options{Resolver: source.NewDirectory(), Registry: registry.New()})
	m.Configure(Config{OptionSourceID: "missing"})
	if _, err := m.Mount(); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("missing source err = %v", err)
	}
	if m.Mounted() {
		t.Fatalf("failed mount should leave the widget unmounted")
	}

	m = New(Options{Registry: registry.New()})
	m.Configure(Config{OptionSourceID: "fruit"})
	if _, err := m.Mount(); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("missing resolver err = %v", err)
	}
}

func TestRebindOnSourceChange(t *testing.T) {
	fruits := fruit()
	veg := source.NewMemory("veg", optsync.Entry{Key: "Leek", Label: "Leek"})
	reg := registry.New()
	m := New(Options{ID: "box", Resolver: source.NewDirectory(fruits, veg), Registry: reg})
	m.Configure(Config{OptionSourceID: "fruit"})
	if _, err := m.Mount(); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer m.Unmount()

	if _, err := m.Configure(Config{OptionSourceID: "veg"}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if len(m.Items()) != 1 || m.Items()[0].Key != "Leek" {
		t.Fatalf("items = %+v, want Leek", m.Items())
	}
	if fruits.Subscribers() != 0 {
		t.Fatalf("old source still has %d subscribers", fruits.Subscribers())
	}

	// A batch from the old source queued before the rebind is ignored.
	m.Update(SyncMsg{Component: "box", Batches: []optsync.Batch{{SourceID: "fruit", Events: []optsync.Event{optsync.Added("Fig", "Fig")}}}})
	if len(m.Items()) != 1 {
		t.Fatalf("stale batch applied: %+v", m.Items())
	}
}

func TestUnmountReleasesSource(t *testing.T) {
	src := fruit()
	reg := registry.New()
	m := New(Options{ID: "box", Resolver: source.NewDirectory(src), Registry: reg})
	m.Configure(Config{OptionSourceID: "fruit"})
	if _, err := m.Mount(); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	m.Unmount()
	if src.Subscribers() != 0 || reg.Len() != 0 {
		t.Fatalf("unmount left subscribers=%d registered=%d", src.Subscribers(), reg.Len())
	}
}

func TestInitialValueSeedsActive(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{InitialValue: "Banana"})
	it, ok := m.Active()
	if !ok || it.Key != "Banana" {
		t.Fatalf("Active = %+v, %v, want Banana", it, ok)
	}
	if m.IsOpen() {
		t.Fatalf("initial value must not open the widget")
	}
}

func TestAttributes(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{FieldKey: "fruit-field", Name: "fruit", Form: "order"})
	attrs := m.Attributes()
	if attrs["aria-controls"] != "combobox-menu-fruit-field" {
		t.Fatalf("aria-controls = %q", attrs["aria-controls"])
	}
	if attrs["aria-expanded"] != "false" {
		t.Fatalf("aria-expanded = %q", attrs["aria-expanded"])
	}
	m.Focus()
	if m.Attributes()["aria-expanded"] != "true" {
		t.Fatalf("aria-expanded should follow the open state")
	}
	if attrs["name"] != "fruit" || attrs["form"] != "order" {
		t.Fatalf("form attributes = %+v", attrs)
	}
}

func TestGeneratedFieldKey(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{})
	if m.Config().FieldKey == "" {
		t.Fatalf("field key should be generated")
	}
}

func TestViewRendersMenu(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{})
	m.SetSize(30, 20)
	closed := stripANSI(m.View())
	if strings.Contains(closed, "Banana") {
		t.Fatalf("closed view shows items:\n%s", closed)
	}

	m.Focus()
	typeText(m, "zz")
	if view := stripANSI(m.View()); !strings.Contains(view, "No matches") {
		t.Fatalf("expected empty state, got:\n%s", view)
	}
}

func TestViewScrollsToFocusedItem(t *testing.T) {
	var entries []optsync.Entry
	for _, k := range []string{"a1", "a2", "a3", "a4", "a5", "a6"} {
		entries = append(entries, optsync.Entry{Key: k, Label: k})
	}
	reg := registry.New()
	m := New(Options{ID: "box", Resolver: source.NewDirectory(source.NewMemory("s", entries...)), Registry: reg, Theme: theme.Plain(), MaxVisible: 3})
	m.Configure(Config{OptionSourceID: "s"})
	if _, err := m.Mount(); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer m.Unmount()
	m.Focus()
	for i := 0; i < 5; i++ {
		m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "a5") || strings.Contains(view, "a1") {
		t.Fatalf("window should follow focus:\n%s", view)
	}
}

func TestDefaultIDsKeepInstancesApart(t *testing.T) {
	src := fruit()
	reg := registry.New()
	var boxes []*Model
	for i := 0; i < 2; i++ {
		m := New(Options{Resolver: source.NewDirectory(src), Registry: reg, Theme: theme.Plain()})
		if _, err := m.Configure(Config{OptionSourceID: src.ID()}); err != nil {
			t.Fatalf("Configure: %v", err)
		}
		if _, err := m.Mount(); err != nil {
			t.Fatalf("Mount: %v", err)
		}
		boxes = append(boxes, m)
	}
	a, b := boxes[0], boxes[1]
	defer b.Unmount()

	if a.ID() == b.ID() {
		t.Fatalf("default IDs collide: %q", a.ID())
	}
	if reg.Len() != 2 {
		t.Fatalf("registry Len = %d, want 2", reg.Len())
	}
	a.Unmount()
	if !reg.Contains(b) || !reg.Mounted(b.ID()) {
		t.Fatalf("unmounting one combobox released the other")
	}
}

func TestClickOnItemCommits(t *testing.T) {
	m, _ := mounted(t, fruit(), Config{})
	m.Focus()
	if !m.IsOpen() {
		t.Fatalf("focus should open")
	}
	// Row 0 is the input; menu rows follow.
	msgs := collect(m.ClickAt(3, 2))
	if m.Value() != "Banana" || m.IsOpen() {
		t.Fatalf("value = %q open = %v, want Banana committed", m.Value(), m.IsOpen())
	}
	var committed bool
	for _, msg := range msgs {
		if c, ok := msg.(events.ItemCommitMsg); ok && c.Item.Key == "Banana" {
			committed = true
		}
	}
	if !committed {
		t.Fatalf("missing ItemCommitMsg in %#v", msgs)
	}

	collect(m.ClickAt(0, 0))
	if !m.IsOpen() {
		t.Fatalf("input click should reopen")
	}
	if cmd := m.ClickAt(0, 10); cmd != nil {
		t.Fatalf("click below the menu should do nothing")
	}
}
