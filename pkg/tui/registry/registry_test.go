package registry

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/widgets/pkg/tui/events"
)

type fakeWidget struct {
	id      events.ComponentID
	outside int
}

func (f *fakeWidget) ID() events.ComponentID { return f.id }

func (f *fakeWidget) HandleOutsideInteraction() tea.Cmd {
	f.outside++
	return nil
}

func TestDispatchOutsideSkipsOrigin(t *testing.T) {
	r := New()
	a := &fakeWidget{id: "a"}
	b := &fakeWidget{id: "b"}
	r.Register(a)
	r.Register(b)

	r.DispatchOutside("a")
	if a.outside != 0 || b.outside != 1 {
		t.Fatalf("expected only b notified, got a=%d b=%d", a.outside, b.outside)
	}

	r.DispatchOutside("")
	if a.outside != 1 || b.outside != 2 {
		t.Fatalf("expected both notified, got a=%d b=%d", a.outside, b.outside)
	}
}

func TestDeregisterReleasesWidget(t *testing.T) {
	r := New()
	a := &fakeWidget{id: "a"}
	r.Register(a)
	r.Deregister(a)
	if r.Mounted("a") || r.Len() != 0 {
		t.Fatalf("expected a to be released")
	}
	r.DispatchOutside("")
	if a.outside != 0 {
		t.Fatalf("deregistered widget was notified")
	}
}

func TestRegistryTracksInstancesSharingAnID(t *testing.T) {
	r := New()
	a := &fakeWidget{id: "same"}
	b := &fakeWidget{id: "same"}
	r.Register(a)
	r.Register(b)
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}

	r.Deregister(a)
	if r.Contains(a) || !r.Contains(b) || !r.Mounted("same") {
		t.Fatalf("deregistering a should leave b mounted")
	}
	r.DispatchOutside("")
	if a.outside != 0 || b.outside != 1 {
		t.Fatalf("expected only b notified, got a=%d b=%d", a.outside, b.outside)
	}
}

func TestDispatchOutsideRecordsNotice(t *testing.T) {
	r := New()
	r.Register(&fakeWidget{id: "a"})
	r.Register(&fakeWidget{id: "b"})

	cmd := r.DispatchOutside("a")
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	var notices []events.OutsideInteractionMsg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch v := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, []tea.Cmd(v)...)
		case events.OutsideInteractionMsg:
			notices = append(notices, v)
		}
	}
	if len(notices) != 1 || notices[0].Origin != "a" || notices[0].Notified != 1 {
		t.Fatalf("notices = %+v, want one from a notifying 1 widget", notices)
	}
}
