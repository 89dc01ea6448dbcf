// Package source provides option sources that widgets can bind to.
package source

import (
	"sync"

	"tableflip.dev/widgets/pkg/optsync"
)

// Memory is an in-process option source. It is safe for concurrent use and
// may be observed by any number of widgets.
type Memory struct {
	id string

	mu      sync.Mutex
	entries []optsync.Entry
	subs    map[int]func([]optsync.Event)
	nextSub int
}

var _ optsync.Source = (*Memory)(nil)

// NewMemory creates a source seeded with entries.
func NewMemory(id string, entries ...optsync.Entry) *Memory {
	return &Memory{
		id:      id,
		entries: append([]optsync.Entry(nil), entries...),
		subs:    make(map[int]func([]optsync.Event)),
	}
}

// ID implements optsync.Source.
func (m *Memory) ID() string { return m.id }

// Snapshot implements optsync.Source.
func (m *Memory) Snapshot() []optsync.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]optsync.Entry(nil), m.entries...)
}

// Subscribe implements optsync.Source.
func (m *Memory) Subscribe(onBatch func([]optsync.Event)) optsync.Subscription {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = onBatch
	m.mu.Unlock()
	return optsync.SubscriptionFunc(func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	})
}

// Subscribers returns the number of live subscriptions.
func (m *Memory) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Tx collects several mutations into one delivered batch.
type Tx struct {
	m      *Memory
	events []optsync.Event
}

// Add appends an entry.
func (tx *Tx) Add(key, label string) {
	tx.m.entries = append(tx.m.entries, optsync.Entry{Key: key, Label: label})
	tx.events = append(tx.events, optsync.Added(key, label))
}

// Remove deletes the first entry keyed key. Removing an unknown key still
// reports the removal so observers can reconcile.
func (tx *Tx) Remove(key string) {
	for i, e := range tx.m.entries {
		if e.Key == key {
			tx.m.entries = append(tx.m.entries[:i], tx.m.entries[i+1:]...)
			break
		}
	}
	tx.events = append(tx.events, optsync.Removed(key))
}

// Relabel changes the key and label of the entry keyed oldKey.
func (tx *Tx) Relabel(oldKey, key, label string) {
	for i, e := range tx.m.entries {
		if e.Key == oldKey {
			tx.m.entries[i] = optsync.Entry{Key: key, Label: label}
			break
		}
	}
	tx.events = append(tx.events, optsync.Relabeled(oldKey, key, label))
}

// Update runs fn and delivers every mutation it made as a single batch to
// all subscribers, after the source lock is released.
func (m *Memory) Update(fn func(tx *Tx)) {
	m.mu.Lock()
	tx := &Tx{m: m}
	fn(tx)
	subs := make([]func([]optsync.Event), 0, len(m.subs))
	for _, s := range m.subs {
		subs = append(subs, s)
	}
	m.mu.Unlock()

	if len(tx.events) == 0 {
		return
	}
	for _, s := range subs {
		s(append([]optsync.Event(nil), tx.events...))
	}
}

// Add appends entries as one batch.
func (m *Memory) Add(entries ...optsync.Entry) {
	m.Update(func(tx *Tx) {
		for _, e := range entries {
			tx.Add(e.Key, e.Label)
		}
	})
}

// Remove deletes keys as one batch.
func (m *Memory) Remove(keys ...string) {
	m.Update(func(tx *Tx) {
		for _, k := range keys {
			tx.Remove(k)
		}
	})
}

// Relabel rekeys a single entry.
func (m *Memory) Relabel(oldKey, key, label string) {
	m.Update(func(tx *Tx) { tx.Relabel(oldKey, key, label) })
}
