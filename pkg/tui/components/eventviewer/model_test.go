package eventviewer

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/widgets/pkg/tui/events"
)

func TestRecordDescribedEvents(t *testing.T) {
	m := NewModel(10)
	m.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }

	m.Update(events.ItemCommitMsg{Component: "fruit", Item: events.ItemRef{Key: "Apple"}})
	m.Update(events.DebugMsg{Component: "fruit", Context: "sync", Detail: "remove of unknown key"})
	m.Update(tea.WindowSizeMsg{Width: 10, Height: 10})

	entries := m.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Summary != "Debug" || entries[0].Level != LevelWarn {
		t.Fatalf("newest entry = %+v", entries[0])
	}
	if entries[1].Summary != "ItemCommit" || entries[1].Source != "fruit" {
		t.Fatalf("oldest entry = %+v", entries[1])
	}
	if !strings.Contains(entries[1].Detail, "Apple") {
		t.Fatalf("detail = %q", entries[1].Detail)
	}
}

func TestCapacity(t *testing.T) {
	m := NewModel(2)
	for i := 0; i < 5; i++ {
		m.Record(events.FocusMsg{Component: "x"})
	}
	if len(m.Entries()) != 2 {
		t.Fatalf("entries = %d, want 2", len(m.Entries()))
	}
}

func TestViewShowsHeader(t *testing.T) {
	m := NewModel(5)
	if m.View() != "" {
		t.Fatalf("unsized view should be empty")
	}
	m.SetSize(60, 6)
	m.Record(events.BlurMsg{Component: "x"})
	if view := m.View(); !strings.Contains(view, "Events (1)") {
		t.Fatalf("view missing header:\n%s", view)
	}
}
