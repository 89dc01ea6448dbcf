// Package registry tracks mounted widgets so a single dispatcher can tell
// them about interactions that happened outside of them.
package registry

import (
	"sort"
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/widgets/pkg/tui/events"
)

// Mountable is a widget that reacts to interactions outside itself.
type Mountable interface {
	ID() events.ComponentID
	HandleOutsideInteraction() tea.Cmd
}

// Registry is the set of currently mounted widgets. Membership is by
// instance, so two widgets that share an ID are still tracked separately.
type Registry struct {
	mu      sync.Mutex
	mounted map[Mountable]struct{}
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{mounted: make(map[Mountable]struct{})}
}

var defaultRegistry = New()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Register records w as mounted.
func (r *Registry) Register(w Mountable) {
	if w == nil {
		return
	}
	r.mu.Lock()
	r.mounted[w] = struct{}{}
	r.mu.Unlock()
}

// Deregister forgets w. Other widgets are untouched even if they share its ID.
func (r *Registry) Deregister(w Mountable) {
	if w == nil {
		return
	}
	r.mu.Lock()
	delete(r.mounted, w)
	r.mu.Unlock()
}

// Mounted reports whether any widget with id is registered.
func (r *Registry) Mounted(id events.ComponentID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for w := range r.mounted {
		if w.ID() == id {
			return true
		}
	}
	return false
}

// Contains reports whether w itself is registered.
func (r *Registry) Contains(w Mountable) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.mounted[w]
	return ok
}

// Len returns the number of mounted widgets.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mounted)
}

// DispatchOutside notifies every mounted widget except origin. Widgets are
// visited in ID order so the resulting commands are deterministic. The
// returned command also yields an events.OutsideInteractionMsg recording
// the dispatch.
func (r *Registry) DispatchOutside(origin events.ComponentID) tea.Cmd {
	r.mu.Lock()
	targets := make([]Mountable, 0, len(r.mounted))
	for w := range r.mounted {
		if w.ID() == origin {
			continue
		}
		targets = append(targets, w)
	}
	r.mu.Unlock()

	sort.SliceStable(targets, func(i, j int) bool { return targets[i].ID() < targets[j].ID() })

	notice := events.OutsideInteractionMsg{Origin: origin, Notified: len(targets)}
	cmds := []tea.Cmd{func() tea.Msg { return notice }}
	for _, w := range targets {
		if cmd := w.HandleOutsideInteraction(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}
