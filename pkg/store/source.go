package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"tableflip.dev/widgets/pkg/optsync"
)

// Source exposes one source of a Catalog as an optsync.Source. Changes made
// by any process are picked up through Catalog.Watch while at least one
// subscriber is attached.
type Source struct {
	id      string
	catalog Catalog

	// refresh serializes listing, diffing and delivery.
	refresh sync.Mutex
	last    []Option

	mu     sync.Mutex
	subs   map[int]func([]optsync.Event)
	nextID int
	cancel context.CancelFunc
}

// NewSource returns the source id of catalog.
func NewSource(catalog Catalog, id string) *Source {
	return &Source{id: id, catalog: catalog, subs: make(map[int]func([]optsync.Event))}
}

// ID implements optsync.Source.
func (s *Source) ID() string { return s.id }

// Snapshot implements optsync.Source. Subscribers that are already attached
// are sent whatever changed since their last batch before the new listing
// becomes the shared baseline, so binding another widget never hides a
// change from the ones bound earlier.
func (s *Source) Snapshot() []optsync.Entry {
	return entries(s.advance(context.Background()))
}

// Subscribe implements optsync.Source. The first subscriber starts watching
// the catalog; the last one to cancel stops it.
func (s *Source) Subscribe(onBatch func([]optsync.Event)) optsync.Subscription {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = onBatch
	start := len(s.subs) == 1
	s.mu.Unlock()

	if start {
		s.startWatch()
	}
	return optsync.SubscriptionFunc(func() {
		s.mu.Lock()
		delete(s.subs, id)
		var stop context.CancelFunc
		if len(s.subs) == 0 {
			stop = s.cancel
			s.cancel = nil
		}
		s.mu.Unlock()
		if stop != nil {
			stop()
		}
	})
}

// Subscribers returns the number of live subscriptions.
func (s *Source) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Refresh lists the source and delivers the difference from the previous
// listing as a single batch.
func (s *Source) Refresh(ctx context.Context) {
	s.advance(ctx)
}

// advance lists the source, broadcasts the diff against the baseline to the
// current subscribers and makes the listing the new baseline.
func (s *Source) advance(ctx context.Context) []Option {
	s.refresh.Lock()
	defer s.refresh.Unlock()

	current := s.catalog.List(ctx, s.id)
	batch := Diff(s.last, current)
	s.last = current
	if len(batch) == 0 {
		return current
	}

	s.mu.Lock()
	subs := make([]func([]optsync.Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(append([]optsync.Event(nil), batch...))
	}
	return current
}

func (s *Source) startWatch() {
	ctx, cancel := context.WithCancel(context.Background())
	events, err := s.catalog.Watch(ctx)
	if err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "store: watch source %q: %v\n", s.id, err)
		return
	}
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		for ev := range events {
			if ev.Type == EventSourcesInvalidated || ev.Source == s.id {
				s.Refresh(ctx)
			}
		}
	}()
}

// Diff describes how to turn old into current. Options are matched by ID so
// a changed key is reported as a relabel.
func Diff(old, current []Option) []optsync.Event {
	byID := make(map[string]Option, len(old))
	for _, o := range old {
		byID[o.ID] = o
	}
	seen := make(map[string]struct{}, len(current))

	var removed, relabeled, added []optsync.Event
	for _, o := range current {
		seen[o.ID] = struct{}{}
		prev, ok := byID[o.ID]
		switch {
		case !ok:
			added = append(added, optsync.Added(o.Key, o.Label))
		case prev.Key != o.Key || prev.Label != o.Label:
			relabeled = append(relabeled, optsync.Relabeled(prev.Key, o.Key, o.Label))
		}
	}
	for _, o := range old {
		if _, ok := seen[o.ID]; !ok {
			removed = append(removed, optsync.Removed(o.Key))
		}
	}

	out := make([]optsync.Event, 0, len(removed)+len(relabeled)+len(added))
	out = append(out, removed...)
	out = append(out, relabeled...)
	return append(out, added...)
}

func entry(o Option) optsync.Entry {
	return optsync.Entry{Key: o.Key, Label: o.Label}
}

func entries(opts []Option) []optsync.Entry {
	out := make([]optsync.Entry, 0, len(opts))
	for _, o := range opts {
		out = append(out, entry(o))
	}
	return out
}
