package optsync

import (
	"tableflip.dev/widgets/pkg/filter"
)

// Batch is a group of events delivered together by a bound source.
type Batch struct {
	SourceID string
	Events   []Event

	generation uint64
}

// Options wires an Engine to its owner.
type Options struct {
	// OnLoading is raised while the initial snapshot is taken.
	OnLoading func(loading bool)
	// OnChange fires once after a bind or a batch changed the item list.
	OnChange func(items []filter.Item)
	// OnMiss reports remove and relabel events that matched no item.
	OnMiss func(ev Event)
	// Deliver receives batches arriving from the bound source. Without it
	// batches are applied on the delivering goroutine. With it the owner is
	// expected to pass each batch back to Apply from its own event loop.
	Deliver func(Batch)
}

// Engine reconciles an ordered item list against a Source.
type Engine struct {
	opts Options

	source     Source
	sub        Subscription
	generation uint64

	items     []filter.Item
	nextOrder int
}

// NewEngine creates an unbound engine.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Bound reports whether a source is attached.
func (e *Engine) Bound() bool { return e.source != nil }

// SourceID returns the ID of the bound source, or "".
func (e *Engine) SourceID() string {
	if e.source == nil {
		return ""
	}
	return e.source.ID()
}

// Items returns a copy of the current item list in insertion order.
func (e *Engine) Items() []filter.Item {
	return append([]filter.Item(nil), e.items...)
}

// Lookup finds an item by key.
func (e *Engine) Lookup(key string) (filter.Item, bool) {
	if idx := e.indexOf(key); idx >= 0 {
		return e.items[idx], true
	}
	return filter.Item{}, false
}

// Bind attaches src. Binding the source that is already bound does nothing;
// any other bound source is released first. The item list is replaced by a
// snapshot of src with orders 0..n-1.
func (e *Engine) Bind(src Source) {
	if src == nil {
		e.Unbind()
		return
	}
	if e.source != nil && e.source.ID() == src.ID() {
		return
	}
	e.Unbind()

	e.generation++
	gen := e.generation
	e.source = src

	e.loading(true)
	snapshot := src.Snapshot()
	e.items = make([]filter.Item, 0, len(snapshot))
	e.nextOrder = 0
	for _, entry := range snapshot {
		if e.indexOf(entry.Key) >= 0 {
			continue
		}
		e.appendEntry(entry)
	}
	e.loading(false)

	id := src.ID()
	e.sub = src.Subscribe(func(events []Event) {
		b := Batch{SourceID: id, Events: append([]Event(nil), events...), generation: gen}
		if e.opts.Deliver != nil {
			e.opts.Deliver(b)
			return
		}
		e.Apply(b)
	})
	e.changed()
}

// Unbind releases the bound source and clears the item list.
func (e *Engine) Unbind() {
	if e.sub != nil {
		e.sub.Cancel()
		e.sub = nil
	}
	if e.source == nil {
		return
	}
	e.source = nil
	e.generation++
	e.items = nil
	e.nextOrder = 0
	e.changed()
}

// Apply reconciles one batch in delivery order and reports whether it was
// accepted. Batches from a source that is no longer bound are dropped.
func (e *Engine) Apply(b Batch) bool {
	if e.source == nil || b.generation != e.generation || b.SourceID != e.source.ID() {
		return false
	}
	e.ApplyEvents(b.Events)
	return true
}

// ApplyEvents reconciles events against the item list regardless of their
// origin, then fires OnChange once.
func (e *Engine) ApplyEvents(events []Event) {
	for _, ev := range events {
		switch ev.Type {
		case EventAdd:
			if e.indexOf(ev.Entry.Key) >= 0 {
				continue
			}
			e.appendEntry(ev.Entry)
		case EventRemove:
			idx := e.indexOf(ev.Entry.Key)
			if idx < 0 {
				e.miss(ev)
				continue
			}
			e.items = append(e.items[:idx], e.items[idx+1:]...)
		case EventRelabel:
			idx := e.indexOf(ev.OldKey)
			if idx < 0 {
				e.miss(ev)
				continue
			}
			if other := e.indexOf(ev.Entry.Key); other >= 0 && other != idx {
				e.miss(ev)
				continue
			}
			e.items[idx].Key = ev.Entry.Key
			e.items[idx].Label = labelFor(ev.Entry)
		}
	}
	e.changed()
}

func (e *Engine) appendEntry(entry Entry) {
	e.items = append(e.items, filter.Item{
		Key:   entry.Key,
		Label: labelFor(entry),
		Order: e.nextOrder,
	})
	e.nextOrder++
}

func (e *Engine) indexOf(key string) int {
	for i := range e.items {
		if e.items[i].Key == key {
			return i
		}
	}
	return -1
}

func (e *Engine) loading(v bool) {
	if e.opts.OnLoading != nil {
		e.opts.OnLoading(v)
	}
}

func (e *Engine) changed() {
	if e.opts.OnChange != nil {
		e.opts.OnChange(e.Items())
	}
}

func (e *Engine) miss(ev Event) {
	if e.opts.OnMiss != nil {
		e.opts.OnMiss(ev)
	}
}

// labelFor falls back to the key for entries without text.
func labelFor(entry Entry) string {
	if entry.Label == "" {
		return entry.Key
	}
	return entry.Label
}
