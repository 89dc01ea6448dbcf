// Package optsync keeps a widget's item list in step with an externally
// owned, independently changing option source.
package optsync

import (
	"fmt"
	"sync"
)

// Entry is a single option as the source exposes it.
type Entry struct {
	Key   string
	Label string
}

// EventType enumerates the changes a source reports.
type EventType int

const (
	// EventAdd reports a new entry appended to the source.
	EventAdd EventType = iota
	// EventRemove reports that the entry with Entry.Key left the source.
	EventRemove
	// EventRelabel reports that the entry previously keyed OldKey now carries
	// Entry.Key and Entry.Label.
	EventRelabel
)

func (t EventType) String() string {
	switch t {
	case EventAdd:
		return "add"
	case EventRemove:
		return "remove"
	case EventRelabel:
		return "relabel"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event is one change notification.
type Event struct {
	Type   EventType
	Entry  Entry
	OldKey string
}

// Added builds an EventAdd.
func Added(key, label string) Event {
	return Event{Type: EventAdd, Entry: Entry{Key: key, Label: label}}
}

// Removed builds an EventRemove.
func Removed(key string) Event {
	return Event{Type: EventRemove, Entry: Entry{Key: key}}
}

// Relabeled builds an EventRelabel.
func Relabeled(oldKey, key, label string) Event {
	return Event{Type: EventRelabel, OldKey: oldKey, Entry: Entry{Key: key, Label: label}}
}

// Source is an ordered option collection owned by someone else. Sources
// deliver each batch of changes with a single call to the subscribed
// function, possibly from another goroutine.
type Source interface {
	ID() string
	Snapshot() []Entry
	Subscribe(onBatch func([]Event)) Subscription
}

// Subscription ends delivery of batches. Cancel may be called any number of
// times.
type Subscription interface {
	Cancel()
}

// SubscriptionFunc adapts a function into a Subscription whose Cancel runs
// the function at most once.
func SubscriptionFunc(fn func()) Subscription {
	return &onceSubscription{fn: fn}
}

type onceSubscription struct {
	once sync.Once
	fn   func()
}

func (s *onceSubscription) Cancel() {
	s.once.Do(func() {
		if s.fn != nil {
			s.fn()
		}
	})
}
